// Command mindmap renders Markdown as markmap SVG mind maps and serves the
// markmap_* tools over MCP or HTTP.
package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/mindmap/internal/cli"
	"github.com/temirov/mindmap/internal/utils"
)

func main() {
	startupLogger, loggerErr := utils.NewApplicationLogger(utils.DefaultLogLevel)
	if loggerErr != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerErr))
	}
	defer func() { _ = startupLogger.Sync() }()

	if executionErr := cli.Execute(); executionErr != nil {
		startupLogger.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(executionErr))
	}
}
