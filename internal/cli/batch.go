package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/task"
	"github.com/mrz1836/adpilot/internal/tui"
)

type batchOptions struct {
	file     string
	workers  int
	priority string
}

func addBatchCommand(root *cobra.Command, e *env) {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Plan and execute many tasks with a bounded worker pool",
		Long: `Read one request per line and run them concurrently. Blank lines and
lines starting with '#' are ignored. Each task runs its own steps in order.

Examples:
  adpilot batch --file requests.txt
  cat requests.txt | adpilot batch --file - --workers 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, e, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "file with one request per line ('-' reads stdin)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent tasks (default from engine.batch_workers)")
	cmd.Flags().StringVar(&opts.priority, "priority", string(constants.PriorityNormal), "priority for every task")
	_ = cmd.MarkFlagRequired("file")
	root.AddCommand(cmd)
}

func runBatch(cmd *cobra.Command, e *env, opts *batchOptions) error {
	ctx := cmd.Context()

	descriptions, err := readDescriptions(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}
	if len(descriptions) == 0 {
		return fmt.Errorf("batch file %s: requests %w", opts.file, aperrors.ErrEmptyValue)
	}

	app, err := e.app(cmd)
	if err != nil {
		return err
	}
	defer app.FlushMetrics()

	workers := opts.workers
	if workers <= 0 {
		workers = app.Config.Engine.BatchWorkers
	}

	tasks := make([]*domain.Task, 0, len(descriptions))
	for _, d := range descriptions {
		t, createErr := app.Engine.CreateTask(ctx, d, task.CreateOptions{Priority: constants.Priority(opts.priority)})
		if createErr != nil {
			return fmt.Errorf("failed to create task for %q: %w", domain.Truncate(d, 60), createErr)
		}
		tasks = append(tasks, t)
	}

	var cb task.ProgressCallback
	if e.text() && !e.flags.Quiet {
		cb = newProgressPrinter(cmd.ErrOrStderr(), true).callback()
	}
	runErr := app.Engine.RunBatch(ctx, tasks, workers, cb)

	if err := reportBatch(cmd.OutOrStdout(), e, tasks); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	for _, t := range tasks {
		if t.Status == constants.TaskStatusFailed {
			return fmt.Errorf("%w: %s", aperrors.ErrTaskFailed, t.ID)
		}
	}
	return nil
}

// readDescriptions returns the non-blank, non-comment lines of path.
func readDescriptions(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path) //#nosec G304 -- path is a user-supplied CLI argument
		if err != nil {
			return nil, fmt.Errorf("failed to open batch file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return out, nil
}

func reportBatch(w io.Writer, e *env, tasks []*domain.Task) error {
	if !e.text() {
		return e.output(w).Data(tasks)
	}
	_, _ = fmt.Fprintln(w)
	if err := taskTable(tasks).Render(w); err != nil {
		return err
	}

	counts := make(map[constants.TaskStatus]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	_, _ = fmt.Fprintf(w, "\n%d completed, %d failed, %d cancelled\n",
		counts[constants.TaskStatusCompleted], counts[constants.TaskStatusFailed], counts[constants.TaskStatusCancelled])
	return nil
}

func taskTable(tasks []*domain.Task) *tui.Table {
	tbl := tui.NewTable(
		tui.TableColumn{Name: "ID"},
		tui.TableColumn{Name: "STATUS"},
		tui.TableColumn{Name: "PROGRESS"},
		tui.TableColumn{Name: "CREATED"},
		tui.TableColumn{Name: "DESCRIPTION", Width: 50},
	)
	for _, t := range tasks {
		tbl.AddRow(
			t.ID,
			tui.RenderStatus(t.Status),
			tui.ProgressBar(t.Progress(), 10),
			tui.RelativeTime(t.CreatedAt),
			t.Description,
		)
	}
	return tbl
}
