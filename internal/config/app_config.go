// Package config discovers and merges mindmap configuration from the global
// file, the project file, a .env file and MINDMAP_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/mindmap/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// SkipEnvironment disables the .env and environment variable layer.
	SkipEnvironment bool
}

// ApplicationConfiguration holds every configurable default.
type ApplicationConfiguration struct {
	LogLevel string              `mapstructure:"log_level"`
	Server   ServerConfiguration `mapstructure:"server"`
	Render   RenderConfiguration `mapstructure:"render"`
	Limits   LimitsConfiguration `mapstructure:"limits"`
	Tokens   TokenConfiguration  `mapstructure:"tokens"`
}

// ServerConfiguration configures the HTTP command server.
type ServerConfiguration struct {
	Address   string `mapstructure:"address"`
	RateLimit *int   `mapstructure:"rate_limit"`
}

// RenderConfiguration configures rendering defaults.
type RenderConfiguration struct {
	Theme string `mapstructure:"theme"`
}

// LimitsConfiguration overrides the tool guardrails.
type LimitsConfiguration struct {
	MaxContentBytes *int64 `mapstructure:"max_content_bytes"`
	MaxNodes        *int   `mapstructure:"max_nodes"`
	MaxDepth        *int   `mapstructure:"max_depth"`
	MaxFileBytes    *int64 `mapstructure:"max_file_bytes"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Model string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads configuration from global and local files,
// then overlays the .env file and environment variables.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	if options.SkipEnvironment {
		return merged, nil
	}
	environmentConfig, environmentErr := loadEnvironmentConfiguration(workingDirectory)
	if environmentErr != nil {
		return ApplicationConfiguration{}, environmentErr
	}
	return merged.Merge(environmentConfig), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType(configurationFileType)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	result.Server = result.Server.merge(override.Server)
	if override.Render.Theme != "" {
		result.Render.Theme = override.Render.Theme
	}
	result.Limits = result.Limits.merge(override.Limits)
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	return result
}

func (config ServerConfiguration) merge(override ServerConfiguration) ServerConfiguration {
	result := config
	if override.Address != "" {
		result.Address = override.Address
	}
	if override.RateLimit != nil {
		result.RateLimit = clonePointer(override.RateLimit)
	}
	return result
}

func (config LimitsConfiguration) merge(override LimitsConfiguration) LimitsConfiguration {
	result := config
	if override.MaxContentBytes != nil {
		result.MaxContentBytes = clonePointer(override.MaxContentBytes)
	}
	if override.MaxNodes != nil {
		result.MaxNodes = clonePointer(override.MaxNodes)
	}
	if override.MaxDepth != nil {
		result.MaxDepth = clonePointer(override.MaxDepth)
	}
	if override.MaxFileBytes != nil {
		result.MaxFileBytes = clonePointer(override.MaxFileBytes)
	}
	return result
}

func clonePointer[Value any](value *Value) *Value {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
