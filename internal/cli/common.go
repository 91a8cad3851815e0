package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/adpilot/internal/config"
	"github.com/mrz1836/adpilot/internal/tui"
)

func (e *env) output(w io.Writer) tui.Output {
	return tui.NewOutput(w, e.flags.Output)
}

func (e *env) text() bool {
	return e.flags.Output == OutputText
}

// loadConfig reads --config when given and the layered files otherwise,
// then applies the flag overrides.
func (e *env) loadConfig(ctx context.Context) (*config.Config, error) {
	overrides := &config.Config{
		AI: config.AIConfig{Provider: e.flags.Provider, Model: e.flags.Model},
	}
	return config.LoadWithOverrides(ctx, e.flags.ConfigFile, overrides)
}

func (e *env) app(cmd *cobra.Command) (*App, error) {
	ctx := cmd.Context()
	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return e.factory(ctx, cfg, GetLogger())
}
