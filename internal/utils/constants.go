package utils

const (
	// GlobalConfigDirectoryName is the per-user configuration directory under the home directory.
	GlobalConfigDirectoryName = ".mindmap"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// LocalConfigFileName is the project configuration file in the working directory.
	LocalConfigFileName = ".mindmap.yaml"
	// DotEnvFileName is read from the working directory before the environment.
	DotEnvFileName = ".env"
	// EnvironmentPrefix prefixes every configuration environment variable.
	EnvironmentPrefix = "MINDMAP"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const (
	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "mindmap failed"
)
