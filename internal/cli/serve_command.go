package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mindmap/internal/services/mcp"
	"github.com/temirov/mindmap/internal/services/stdio"
	"github.com/temirov/mindmap/internal/tools"
	"github.com/temirov/mindmap/internal/utils"
)

const (
	serveUse              = "serve"
	serveShortDescription = "serve the markmap tools over MCP stdio or HTTP"
	serveLongDescription  = `Serve markmap_generate, markmap_from_outline, markmap_get_structure,
markmap_render_file and markmap_customize.
By default the tools are exposed as a Model Context Protocol server on standard input and output.
With --http they are served as JSON commands at POST /commands/{tool}, next to /capabilities, /health and /metrics.`
	serveUsageExample = `  # Register with an MCP client
  mindmap serve

  # HTTP command server on a fixed port
  mindmap serve --http --address 127.0.0.1:8080`

	httpFlagName           = "http"
	httpFlagDescription    = "serve HTTP commands instead of MCP over stdio"
	addressFlagName        = "address"
	addressFlagDescription = "HTTP listen address (overrides server.address)"

	listeningMessageFormat = "mindmap command server listening on http://%s\n"
	defaultHTTPAddress     = "127.0.0.1:8080"
	logFieldAddress        = "address"
	logFieldRateLimit      = "rate_limit"
	logMessageStartHTTP    = "starting http command server"
)

type serveOptions struct {
	http    bool
	address string
}

// createServeCommand returns the serve subcommand.
func createServeCommand(app *application) *cobra.Command {
	var options serveOptions

	serveCommand := &cobra.Command{
		Use:     serveUse,
		Short:   serveShortDescription,
		Long:    serveLongDescription,
		Example: serveUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			ctx := command.Context()
			if !options.http {
				return stdio.Run(ctx, stdio.NewServer(app.service, utils.GetApplicationVersion()), app.logger)
			}
			server := mcp.NewServer(app.httpServerConfig(options))
			return server.Run(ctx, func(address string) {
				fmt.Fprintf(command.ErrOrStderr(), listeningMessageFormat, address)
			})
		},
	}

	registerBooleanFlag(serveCommand.Flags(), &options.http, httpFlagName, false, httpFlagDescription)
	serveCommand.Flags().StringVar(&options.address, addressFlagName, "", addressFlagDescription)
	return serveCommand
}

// httpServerConfig resolves the command server settings from flags and configuration.
func (app *application) httpServerConfig(options serveOptions) mcp.Config {
	address := options.address
	if address == "" {
		address = app.configuration.Server.Address
	}
	if address == "" {
		address = defaultHTTPAddress
	}
	rateLimit := 0
	if app.configuration.Server.RateLimit != nil {
		rateLimit = *app.configuration.Server.RateLimit
	}
	app.logger.Debug(logMessageStartHTTP, zap.String(logFieldAddress, address), zap.Int(logFieldRateLimit, rateLimit))
	return mcp.Config{
		Address:      address,
		Capabilities: mcp.CapabilitiesFromDefinitions(tools.Definitions()),
		Dispatcher:   app.service,
		RateLimit:    rateLimit,
		Logger:       app.logger,
	}
}
