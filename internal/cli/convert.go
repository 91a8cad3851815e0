package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/adpilot/internal/tui"
	"github.com/mrz1836/adpilot/internal/workflow"
)

// conversion is the json and yaml document printed by convert.
type conversion struct {
	Workflow *workflow.NormalizedWorkflow `json:"workflow"`
	Analysis *workflow.Analysis           `json:"analysis"`
}

func addConvertCommand(root *cobra.Command, e *env) {
	root.AddCommand(&cobra.Command{
		Use:   "convert <workflow-file>",
		Short: "Convert an automation workflow export into normalized steps",
		Long: `Detect the platform of a workflow export (n8n, ComfyUI, Node-RED, Home
Assistant, Make, Activepieces, Windmill, Pipedream) and convert it into
normalized steps with an analysis. Pass '-' to read stdin.

Examples:
  adpilot convert n8n-export.json
  adpilot convert comfy_prompt.json --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			wf, analysis, err := workflow.NewConverter().Convert(data)
			if err != nil {
				return err
			}
			GetLogger().Debug().
				Str("platform", analysis.Platform.String()).
				Int("nodes", analysis.NodeCount).
				Int("steps", analysis.StepCount).
				Msg("workflow converted")

			if !e.text() {
				return e.output(cmd.OutOrStdout()).Data(conversion{Workflow: wf, Analysis: analysis})
			}
			return renderConversion(cmd.OutOrStdout(), wf, analysis)
		},
	})
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- path is a user-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	return data, nil
}

func renderConversion(w io.Writer, wf *workflow.NormalizedWorkflow, a *workflow.Analysis) error {
	styles := tui.NewOutputStyles()
	_, _ = fmt.Fprintln(w, styles.Header.Render(fmt.Sprintf("%s workflow: %d nodes, %d steps", a.Platform, a.NodeCount, a.StepCount)))
	_, _ = fmt.Fprintln(w)

	tbl := tui.NewTable(
		tui.TableColumn{Name: "ID", Width: 24},
		tui.TableColumn{Name: "CATEGORY"},
		tui.TableColumn{Name: "TYPE"},
		tui.TableColumn{Name: "ENABLED"},
		tui.TableColumn{Name: "DESCRIPTION", Width: 40},
	)
	for _, s := range wf.Steps {
		tbl.AddRow(s.ID, s.Category, s.Type, strconv.FormatBool(s.Enabled), s.Description)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w)
	facts := []string{fmt.Sprintf("Complexity: %.1f", a.Complexity)}
	if len(a.Triggers) > 0 {
		facts = append(facts, "Triggers: "+strings.Join(a.Triggers, ", "))
	}
	if wf.Schedule != nil {
		facts = append(facts, fmt.Sprintf("Schedule: %s (next %s)", wf.Schedule.Cron, tui.RelativeTime(wf.Schedule.NextRun)))
	}
	if len(a.Models) > 0 {
		facts = append(facts, "Models: "+strings.Join(a.Models, ", "))
	}
	if len(wf.Outputs) > 0 {
		outs := make([]string, len(wf.Outputs))
		for i, o := range wf.Outputs {
			outs[i] = o.StepID + " (" + o.Category + ")"
		}
		facts = append(facts, "Outputs: "+strings.Join(outs, ", "))
	}
	for _, f := range facts {
		_, _ = fmt.Fprintln(w, styles.Dim.Render(f))
	}
	return nil
}
