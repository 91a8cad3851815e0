package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/adpilot/internal/constants"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/task"
)

func addResumeCommand(root *cobra.Command, e *env) {
	var rerun bool
	cmd := &cobra.Command{
		Use:   "resume <task-id>",
		Short: "Execute a saved task",
		Long: `Execute a checkpointed task: a scheduled task, a task whose process
stopped before it finished, or with --rerun a completed, failed or
cancelled task from its first step.

Examples:
  adpilot resume 3f9a1c2e
  adpilot resume 3f9a1c2e --rerun`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return resumeTask(cmd, e, args[0], rerun)
		},
	}
	cmd.Flags().BoolVar(&rerun, "rerun", false, "run a completed, failed or cancelled task again")
	root.AddCommand(cmd)
}

func resumeTask(cmd *cobra.Command, e *env, id string, rerun bool) error {
	app, err := e.app(cmd)
	if err != nil {
		return err
	}
	defer app.FlushMetrics()

	t, err := app.Engine.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	switch {
	case t.Status.IsTerminal() && !rerun:
		return fmt.Errorf("%w: %s is %s", aperrors.ErrTaskAlreadyExecuted, t.ID, t.Status)
	case t.Status.IsTerminal():
		t.Reset()
	case t.Status == constants.TaskStatusScheduled:
		if err := task.Transition(t, constants.TaskStatusReady); err != nil {
			return err
		}
	case t.Status == constants.TaskStatusRunning || t.Status == constants.TaskStatusPaused:
		// Left behind by a process that stopped mid-task.
		t.Reset()
	}

	if e.text() && !e.flags.Quiet {
		e.output(cmd.OutOrStdout()).Info(fmt.Sprintf("Resuming task %s: %s", t.ID, t.Description))
	}
	return executeAndReport(cmd, e, app, t)
}
