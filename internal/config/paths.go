package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/errors"
)

// GlobalConfigDir returns the path to the global adpilot directory:
// $ADPILOT_HOME when set, ~/.adpilot otherwise.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if dir := os.Getenv(constants.HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.AppHome), nil
}

// ProjectConfigDir returns the relative path to the project configuration directory.
func ProjectConfigDir() string {
	return constants.ProjectConfigDir
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .adpilot/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.GlobalConfigName)
}

// ArtifactsRoot returns the artifact directory for cfg.
func ArtifactsRoot(cfg *Config) (string, error) {
	return ResolveHome(cfg.Artifacts.Root, constants.ArtifactsDir)
}

// TasksRoot returns the checkpoint directory for cfg.
func TasksRoot(cfg *Config) (string, error) {
	return ResolveHome(cfg.Engine.TasksDir, constants.TasksDir)
}
