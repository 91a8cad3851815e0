package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/task"
	"github.com/mrz1836/adpilot/internal/tui"
)

type runOptions struct {
	priority   string
	schedule   string
	recurrence string
	dependsOn  []string
}

func addRunCommand(root *cobra.Command, e *env) {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <description>",
		Short: "Plan and execute a content task",
		Long: `Plan a request into steps and execute them in order. Each step is
handled by its agent; a failing step does not stop the steps after it.

A --schedule in the future only plans and saves the task. Run it later
with 'adpilot resume <task-id>'.

Examples:
  adpilot run "Write a blog post about winter hiking gear"
  adpilot run "Create a summer poster with ideogram and post it to Instagram" --priority high
  adpilot run "Weekly product roundup newsletter" --recurrence "0 9 * * MON"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, e, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.priority, "priority", string(constants.PriorityNormal), "task priority (low|normal|high|urgent)")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "", "RFC3339 time to run the task at")
	cmd.Flags().StringVar(&opts.recurrence, "recurrence", "", "cron expression for a recurring task")
	cmd.Flags().StringSliceVar(&opts.dependsOn, "depends-on", nil, "task ids that must complete first")

	root.AddCommand(cmd)
}

func runTask(cmd *cobra.Command, e *env, description string, opts *runOptions) error {
	ctx := cmd.Context()

	create := task.CreateOptions{
		Priority:          constants.Priority(opts.priority),
		DependsOn:         opts.dependsOn,
		RecurrencePattern: opts.recurrence,
	}
	if opts.schedule != "" {
		at, err := time.Parse(time.RFC3339, opts.schedule)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", aperrors.ErrInvalidSchedule, opts.schedule, err)
		}
		at = at.UTC()
		create.ScheduledFor = &at
	}

	app, err := e.app(cmd)
	if err != nil {
		return err
	}
	defer app.FlushMetrics()

	t, err := app.Engine.CreateTask(ctx, description, create)
	if err != nil {
		return err
	}

	out := e.output(cmd.OutOrStdout())
	if t.ScheduledFor != nil && t.ScheduledFor.After(time.Now()) {
		return deferTask(cmd, e, app, t, out)
	}

	if e.text() && !e.flags.Quiet {
		out.Info(fmt.Sprintf("Task %s: %s", t.ID, t.Plan.Summary))
	}
	return executeAndReport(cmd, e, app, t)
}

// deferTask saves a task planned for later without running it.
func deferTask(cmd *cobra.Command, e *env, app *App, t *domain.Task, out tui.Output) error {
	if err := task.Transition(t, constants.TaskStatusScheduled); err != nil {
		return err
	}
	if app.Store != nil {
		if err := app.Store.Save(cmd.Context(), t); err != nil {
			return fmt.Errorf("failed to save scheduled task: %w", err)
		}
	}
	if !e.text() {
		return out.Data(t)
	}
	out.Success(fmt.Sprintf("Task %s scheduled for %s (%s)",
		t.ID, t.ScheduledFor.Format(time.RFC3339), tui.RelativeTime(*t.ScheduledFor)))
	out.Info("Run it with: adpilot resume " + t.ID)
	return nil
}

// executeAndReport runs t with progress lines on stderr and prints the
// outcome. A task that ends failed returns ErrTaskFailed.
func executeAndReport(cmd *cobra.Command, e *env, app *App, t *domain.Task) error {
	var cb task.ProgressCallback
	if e.text() && !e.flags.Quiet {
		cb = newProgressPrinter(cmd.ErrOrStderr(), false).callback()
	}

	result, err := app.Engine.ExecuteTask(cmd.Context(), t, cb)
	if result != nil && result.StartedAt != nil {
		if reportErr := reportTask(cmd.OutOrStdout(), e, result); reportErr != nil && err == nil {
			err = reportErr
		}
	}
	if err != nil {
		return err
	}
	if result.Status == constants.TaskStatusFailed {
		return fmt.Errorf("%w: %s", aperrors.ErrTaskFailed, result.ID)
	}
	return nil
}

func reportTask(w io.Writer, e *env, t *domain.Task) error {
	out := e.output(w)
	if !e.text() {
		return out.Data(t)
	}

	_, _ = fmt.Fprintln(w)
	if t.FinalSummary != "" {
		_, _ = fmt.Fprint(w, tui.RenderMarkdown(t.FinalSummary))
	}
	if len(t.Artifacts) > 0 {
		if err := artifactTable(t.Artifacts).Render(w); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w)
	}

	switch t.Status {
	case constants.TaskStatusCompleted:
		failed := t.CountSteps(constants.StepStatusFailed)
		if failed > 0 {
			out.Warning(fmt.Sprintf("Task %s completed with %d failed step(s)", t.ID, failed))
		} else {
			out.Success(fmt.Sprintf("Task %s completed", t.ID))
		}
	case constants.TaskStatusCancelled:
		out.Warning(fmt.Sprintf("Task %s cancelled at step %d; run it again with 'adpilot resume %s --rerun'", t.ID, t.CurrentStep+1, t.ID))
	default:
		out.Error(fmt.Errorf("%w: %s", aperrors.ErrTaskFailed, t.ID))
	}
	return nil
}

func artifactTable(items []*domain.Artifact) *tui.Table {
	tbl := tui.NewTable(
		tui.TableColumn{Name: "TYPE"},
		tui.TableColumn{Name: "NAME", Width: 32},
		tui.TableColumn{Name: "LOCATION", Width: 60},
	)
	for _, a := range items {
		location := a.FilePath
		if location == "" {
			location = a.URL
		}
		tbl.AddRow(a.Type.String(), a.Name, location)
	}
	return tbl
}
