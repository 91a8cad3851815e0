// Package cli implements the adpilot command line: planning, running and
// batching content tasks, converting automation workflows, and inspecting
// checkpointed task state.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalLogger is set in PersistentPreRunE and read through GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger initialized by the root command. Before
// PersistentPreRunE runs it is a zero-value logger that discards output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// env carries what every subcommand needs: the parsed global flags and the
// factory that wires collaborators from configuration.
type env struct {
	flags   *GlobalFlags
	factory AppFactory
	info    BuildInfo
}

func newRootCmd(flags *GlobalFlags, info BuildInfo, factory AppFactory) *cobra.Command {
	v := viper.New()
	if factory == nil {
		factory = NewApp
	}
	e := &env{flags: flags, factory: factory, info: info}

	cmd := &cobra.Command{
		Use:   "adpilot",
		Short: "adpilot - AI content and advertising pipeline",
		Long: `adpilot turns a one-line request into a planned, multi-step content task
and runs it: image design, copywriting, campaign copy, video, publishing
and browser automation, each handled by a dedicated agent.

Examples:
  adpilot plan "Create a Christmas t-shirt design and publish it to Printify"
  adpilot run "Write a blog post about winter hiking gear"
  adpilot batch --file requests.txt --workers 4
  adpilot convert workflow.json --output yaml
  adpilot status`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			flags.Output = v.GetString("output")
			flags.Verbose = v.GetBool("verbose")
			flags.Quiet = v.GetBool("quiet")

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", aperrors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	addPlanCommand(cmd, e)
	addRunCommand(cmd, e)
	addResumeCommand(cmd, e)
	addBatchCommand(cmd, e)
	addConvertCommand(cmd, e)
	addStatusCommand(cmd, e)
	addConfigCommand(cmd, e)
	addVersionCommand(cmd, e)

	return cmd
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
// A returned error has already been printed to stderr in the selected
// output format.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info, nil)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		format := flags.Output
		if !IsValidOutputFormat(format) {
			format = OutputText
		}
		tui.NewOutput(cmd.ErrOrStderr(), format).Error(err)
	}
	return err
}
