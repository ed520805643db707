package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogLevel is used when no level is configured.
const DefaultLogLevel = "info"

const standardErrorPath = "stderr"

// NewApplicationLogger constructs a zap console logger writing to standard error
// at the given level.
func NewApplicationLogger(level string) (*zap.Logger, error) {
	atomicLevel, levelErr := ParseLogLevel(level)
	if levelErr != nil {
		return nil, levelErr
	}
	config := zap.NewProductionConfig()
	config.Level = atomicLevel
	config.Encoding = "console"
	config.OutputPaths = []string{standardErrorPath}
	config.ErrorOutputPaths = []string{standardErrorPath}
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}

// ParseLogLevel converts a level name such as "debug" or "WARN" into a zap level.
// An empty name selects DefaultLogLevel.
func ParseLogLevel(level string) (zap.AtomicLevel, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "" {
		name = DefaultLogLevel
	}
	parsed, parseErr := zap.ParseAtomicLevel(name)
	if parseErr != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", level, parseErr)
	}
	return parsed, nil
}
