package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/adpilot/internal/constants"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/tui"
)

// Exit codes for the CLI.
const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitInvalidInput = 2

	// ExitTaskFailed means the command ran but a task ended failed.
	ExitTaskFailed = 3

	// ExitInterrupted follows the shell convention of 128 + SIGINT.
	ExitInterrupted = 130
)

// Output format constants.
const (
	OutputText = tui.FormatText
	OutputJSON = tui.FormatJSON
	OutputYAML = tui.FormatYAML
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output is the output format (text, json or yaml).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// ConfigFile replaces the layered global and project config files.
	ConfigFile string
	// Provider and Model override ai.provider and ai.model.
	Provider string
	Model    string
}

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "config file (default: .adpilot/config.yaml then ~/.adpilot/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.Provider, "provider", "", "text provider override (openai|anthropic|ollama|groq)")
	cmd.PersistentFlags().StringVar(&flags.Model, "model", "", "text model override")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper so ADPILOT_OUTPUT,
// ADPILOT_VERBOSE and ADPILOT_QUIET act as defaults for unset flags.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	return nil
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON, OutputYAML}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	return slices.Contains(ValidOutputFormats(), format)
}

// ExitCodeForError maps a command error to a process exit code.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case aperrors.Is(err, context.Canceled):
		return ExitInterrupted
	case aperrors.Is(err, aperrors.ErrTaskFailed):
		return ExitTaskFailed
	case aperrors.Is(err, aperrors.ErrInvalidOutputFormat),
		aperrors.Is(err, aperrors.ErrInvalidRecurrence),
		aperrors.Is(err, aperrors.ErrInvalidPriority),
		aperrors.Is(err, aperrors.ErrInvalidSchedule),
		aperrors.Is(err, aperrors.ErrInvalidWorkflow),
		aperrors.Is(err, aperrors.ErrEmptyValue),
		aperrors.Is(err, aperrors.ErrPathTraversal):
		return ExitInvalidInput
	case isInvalidInputError(err.Error()):
		return ExitInvalidInput
	default:
		return ExitError
	}
}

// isInvalidInputError catches Cobra's built-in flag and argument errors.
func isInvalidInputError(errMsg string) bool {
	patterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts ",
		"requires at least",
	}
	for _, p := range patterns {
		if strings.Contains(errMsg, p) {
			return true
		}
	}
	return false
}
