package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

func addVersionCommand(root *cobra.Command, e *env) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !e.text() {
				return e.output(cmd.OutOrStdout()).Data(versionInfo{
					Version:   e.info.Version,
					Commit:    e.info.Commit,
					Date:      e.info.Date,
					GoVersion: runtime.Version(),
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "adpilot %s %s\n", formatVersion(e.info), runtime.Version())
			return err
		},
	})
}
