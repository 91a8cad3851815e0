package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/adpilot/internal/ctxutil"
	"github.com/mrz1836/adpilot/internal/domain"
	"github.com/mrz1836/adpilot/internal/tui"
)

func addPlanCommand(root *cobra.Command, e *env) {
	root.AddCommand(&cobra.Command{
		Use:   "plan <description>",
		Short: "Show the plan for a request without running it",
		Long: `Plan a request and print the resulting steps, agents and model choices.
Nothing is executed and no task is created.

Examples:
  adpilot plan "Create a Halloween mug design with flux and list it on Printify"
  adpilot plan "Make a 10 second veo commercial for our coffee" --output yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, e, strings.Join(args, " "), cmd.OutOrStdout())
		},
	})
}

func runPlan(cmd *cobra.Command, e *env, description string, w io.Writer) error {
	ctx := cmd.Context()
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	app, err := e.app(cmd)
	if err != nil {
		return err
	}

	plan := app.Planner.Plan(ctx, description)
	if !e.text() {
		return e.output(w).Data(plan)
	}
	return renderPlan(w, plan)
}

func renderPlan(w io.Writer, plan domain.PlanResult) error {
	styles := tui.NewOutputStyles()
	_, _ = fmt.Fprintln(w, styles.Header.Render(plan.Summary))
	if plan.Goal != "" {
		_, _ = fmt.Fprintln(w, styles.Dim.Render("Goal: "+plan.Goal))
	}
	_, _ = fmt.Fprintln(w)

	tbl := tui.NewTable(
		tui.TableColumn{Name: "#", Align: tui.AlignRight},
		tui.TableColumn{Name: "AGENT"},
		tui.TableColumn{Name: "ACTION"},
		tui.TableColumn{Name: "STEP"},
		tui.TableColumn{Name: "AFTER"},
	)
	for _, s := range plan.Steps {
		deps := make([]string, len(s.DependsOn))
		for i, d := range s.DependsOn {
			deps[i] = strconv.Itoa(d)
		}
		tbl.AddRow(strconv.Itoa(s.StepIndex), s.Agent, s.Action, s.Name, strings.Join(deps, ","))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w)
	for _, line := range planFacts(plan) {
		_, _ = fmt.Fprintln(w, styles.Dim.Render(line))
	}
	return nil
}

func planFacts(plan domain.PlanResult) []string {
	facts := []string{"Source: " + string(plan.Source)}
	if len(plan.PublishTo) > 0 {
		facts = append(facts, "Publish to: "+strings.Join(plan.PublishTo, ", "))
	}
	prefs := plan.ModelPreferences
	for _, m := range []struct{ label, name string }{
		{"Image model", prefs.ImageModelName},
		{"Video model", prefs.VideoModelName},
		{"Text model", prefs.TextModelName},
	} {
		if m.name != "" {
			facts = append(facts, m.label+": "+m.name)
		}
	}
	if plan.EstimatedTime != "" {
		facts = append(facts, "Estimated time: "+plan.EstimatedTime)
	}
	if plan.RequiresConfirmation {
		facts = append(facts, "Requires confirmation before publishing")
	}
	return facts
}
