package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/adpilot/internal/config"
)

func addConfigCommand(root *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the merged configuration as YAML, followed by which credential
variables are set. Credential values are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.loadConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return showConfig(cmd.OutOrStdout(), e, cfg)
		},
	})
	root.AddCommand(cmd)
}

func showConfig(w io.Writer, e *env, cfg *config.Config) error {
	creds := credentialStatus(cfg)
	if e.flags.Output == OutputJSON {
		return e.output(w).Data(map[string]any{"config": cfg, "credentials": creds})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, "\n# credentials")
	for _, name := range slices.Sorted(maps.Keys(creds)) {
		_, _ = fmt.Fprintf(w, "# %-24s %s\n", name, creds[name])
	}
	return nil
}

// credentialStatus reports "set" or "unset" for every credential variable
// the configuration names.
func credentialStatus(cfg *config.Config) map[string]string {
	vars := slices.Collect(maps.Values(cfg.AI.APIKeyEnvVars))
	vars = append(vars,
		cfg.Media.TokenEnvVar,
		cfg.Publishing.Printify.TokenEnvVar,
		cfg.Publishing.Shopify.TokenEnvVar,
		cfg.Publishing.YouTube.TokenEnvVar,
		cfg.Browser.CloudKeyEnvVar,
		cfg.Browser.ServiceTokenEnvVar,
	)

	out := make(map[string]string, len(vars))
	for _, v := range vars {
		if v == "" {
			continue
		}
		out[v] = "unset"
		if os.Getenv(v) != "" {
			out[v] = "set"
		}
	}
	return out
}
