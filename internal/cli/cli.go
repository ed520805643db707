// Package cli provides the mindmap command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mindmap/internal/config"
	"github.com/temirov/mindmap/internal/services/clipboard"
	"github.com/temirov/mindmap/internal/tokenizer"
	"github.com/temirov/mindmap/internal/tools"
	"github.com/temirov/mindmap/internal/utils"
)

const (
	rootUse              = "mindmap"
	rootShortDescription = "mindmap turns Markdown into markmap SVG mind maps"
	rootLongDescription  = `mindmap converts Markdown documents and outlines into interactive markmap SVG mind maps.
Run "mindmap serve" to expose the markmap_* tools over MCP (stdio) or HTTP,
or use render, structure, outline and watch directly from the shell.`
	versionTemplate = "mindmap version: {{.Version}}\n"

	configFlagName          = "config"
	configFlagDescription   = "configuration file (defaults to ./.mindmap.yaml)"
	logLevelFlagName        = "log-level"
	logLevelFlagDescription = "log level: debug, info, warn or error"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	loadConfigurationFormat     = "load configuration: %w"
	createLoggerFormat          = "create logger: %w"
	createServiceFormat         = "create tool service: %w"
	writeOutputFormat           = "write %s: %w"
	readInputFormat             = "read %s: %w"
)

// application carries the dependencies and per-run state shared by every command.
type application struct {
	workingDirectory string
	skipEnvironment  bool
	copier           clipboard.Copier
	newTokenCounter  func(model string) tokenizer.Counter

	configFilePath string
	logLevel       string

	configuration config.ApplicationConfiguration
	logger        *zap.Logger
	service       *tools.Service
}

func newApplication() *application {
	return &application{
		copier: clipboard.NewService(),
		newTokenCounter: func(model string) tokenizer.Counter {
			return tokenizer.NewLazyCounter(tokenizer.Config{Model: model})
		},
	}
}

// Execute runs the mindmap application until it finishes or receives an interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCommand := createRootCommand(newApplication())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(app *application) *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Version:      utils.GetApplicationVersion(),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return app.prepare()
		},
		PersistentPostRun: func(command *cobra.Command, arguments []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.PersistentFlags().StringVar(&app.configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().StringVar(&app.logLevel, logLevelFlagName, "", logLevelFlagDescription)
	rootCommand.AddCommand(
		createServeCommand(app),
		createRenderCommand(app),
		createStructureCommand(app),
		createOutlineCommand(app),
		createWatchCommand(app),
		createInitCommand(app),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// prepare loads configuration and builds the logger and tool service.
func (app *application) prepare() error {
	if app.workingDirectory == "" {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
		}
		app.workingDirectory = workingDirectory
	}

	configuration, loadErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: app.workingDirectory,
		ExplicitFilePath: app.configFilePath,
		SkipEnvironment:  app.skipEnvironment,
	})
	if loadErr != nil {
		return fmt.Errorf(loadConfigurationFormat, loadErr)
	}
	app.configuration = configuration

	logLevel := app.logLevel
	if logLevel == "" {
		logLevel = configuration.LogLevel
	}
	logger, loggerErr := utils.NewApplicationLogger(logLevel)
	if loggerErr != nil {
		return fmt.Errorf(createLoggerFormat, loggerErr)
	}
	app.logger = logger

	service, serviceErr := tools.NewService(tools.Config{
		WorkingDirectory: app.workingDirectory,
		Limits:           limitsFromConfiguration(configuration.Limits),
		DefaultTheme:     configuration.Render.Theme,
		Logger:           logger,
		TokenCounter:     app.newTokenCounter(configuration.Tokens.Model),
	})
	if serviceErr != nil {
		return fmt.Errorf(createServiceFormat, serviceErr)
	}
	app.service = service
	return nil
}

// limitsFromConfiguration maps configured guardrails onto tool limits; unset
// values keep the defaults.
func limitsFromConfiguration(configured config.LimitsConfiguration) tools.Limits {
	limits := tools.DefaultLimits()
	if configured.MaxContentBytes != nil {
		limits.MaxContentBytes = *configured.MaxContentBytes
	}
	if configured.MaxNodes != nil {
		limits.MaxNodes = *configured.MaxNodes
	}
	if configured.MaxDepth != nil {
		limits.MaxDepth = *configured.MaxDepth
	}
	if configured.MaxFileBytes != nil {
		limits.MaxFileBytes = *configured.MaxFileBytes
	}
	return limits
}
