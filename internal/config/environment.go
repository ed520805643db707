package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/temirov/mindmap/internal/utils"
)

const (
	configurationFileType = "yaml"
	keySeparator          = "."
	environmentSeparator  = "_"
)

// configurationKeys lists every key that may be supplied through the environment.
var configurationKeys = []string{
	"log_level",
	"server.address",
	"server.rate_limit",
	"render.theme",
	"limits.max_content_bytes",
	"limits.max_nodes",
	"limits.max_depth",
	"limits.max_file_bytes",
	"tokens.model",
}

// EnvironmentVariableName returns the variable that overrides key, for example
// MINDMAP_SERVER_RATE_LIMIT for server.rate_limit.
func EnvironmentVariableName(key string) string {
	return utils.EnvironmentPrefix + environmentSeparator + strings.ToUpper(strings.ReplaceAll(key, keySeparator, environmentSeparator))
}

// loadEnvironmentConfiguration reads MINDMAP_ variables from the process
// environment, falling back to the .env file in workingDirectory for unset ones.
// The process environment is never modified.
func loadEnvironmentConfiguration(workingDirectory string) (ApplicationConfiguration, error) {
	dotEnvValues, dotEnvErr := readDotEnv(filepath.Join(workingDirectory, utils.DotEnvFileName))
	if dotEnvErr != nil {
		return ApplicationConfiguration{}, dotEnvErr
	}

	reader := viper.New()
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer(keySeparator, environmentSeparator))
	reader.AutomaticEnv()
	for _, key := range configurationKeys {
		if bindErr := reader.BindEnv(key); bindErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("bind environment for %s: %w", key, bindErr)
		}
		if reader.IsSet(key) {
			continue
		}
		if value, found := dotEnvValues[EnvironmentVariableName(key)]; found {
			reader.Set(key, value)
		}
	}

	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode environment configuration: %w", decodeErr)
	}
	return config, nil
}

func readDotEnv(path string) (map[string]string, error) {
	values, readErr := godotenv.Read(path)
	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, readErr)
	}
	return values, nil
}
