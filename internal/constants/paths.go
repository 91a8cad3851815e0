package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.adpilot/logs/adpilot.log
	CLILogFileName = "adpilot.log"

	// LogMaxSizeMB is the size at which the CLI log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 5

	// LogMaxAgeDays is the age after which rotated log files are removed.
	LogMaxAgeDays = 30

	// LogCompress gzips rotated log files.
	LogCompress = true
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file.
	// This file is located in the adpilot home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the project-level configuration directory.
	ProjectConfigDir = ".adpilot"

	// EnvPrefix is the prefix for environment variable overrides (ADPILOT_AI_MODEL, ...).
	EnvPrefix = "ADPILOT"

	// HomeEnvVar overrides the adpilot home directory (~/.adpilot).
	HomeEnvVar = "ADPILOT_HOME"
)
