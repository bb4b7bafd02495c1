package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// GlobalConfigDirectoryName is the directory under the user home that holds
// the global configuration file.
const GlobalConfigDirectoryName = ".cdigest"

// GlobalConfigFileName is the configuration file name inside the global
// configuration directory.
const GlobalConfigFileName = "config.yaml"

// LocalConfigFileName is the per-project configuration file name.
const LocalConfigFileName = ".cdigest.yaml"

// LoggerInitializationFailedMessageFormat is used when the application logger cannot be built.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal command failures.
const ApplicationExecutionFailedMessage = "Application execution failed"
