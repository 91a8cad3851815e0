package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/adpilot/internal/domain"
	"github.com/mrz1836/adpilot/internal/tui"
)

func addStatusCommand(root *cobra.Command, e *env) {
	root.AddCommand(&cobra.Command{
		Use:   "status [task-id]",
		Short: "List saved tasks or show one task",
		Long: `Without arguments, list checkpointed tasks newest first. With a task id,
show its steps, errors and artifacts.

Examples:
  adpilot status
  adpilot status 3f9a1c2e --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.app(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				t, err := app.Store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !e.text() {
					return e.output(w).Data(t)
				}
				return renderTaskDetail(w, t)
			}

			tasks, err := app.Store.List(cmd.Context())
			if err != nil {
				return err
			}
			slices.SortFunc(tasks, func(a, b *domain.Task) int {
				return b.CreatedAt.Compare(a.CreatedAt)
			})
			if !e.text() {
				return e.output(w).Data(tasks)
			}
			if len(tasks) == 0 {
				e.output(w).Info("No tasks yet. Start one with: adpilot run \"<request>\"")
				return nil
			}
			return taskTable(tasks).Render(w)
		},
	})
}

func renderTaskDetail(w io.Writer, t *domain.Task) error {
	styles := tui.NewOutputStyles()
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.Header.Render("Task "+t.ID), tui.RenderStatus(t.Status))
	_, _ = fmt.Fprintln(w, t.Description)
	_, _ = fmt.Fprintln(w, styles.Dim.Render(fmt.Sprintf("priority %s · created %s · %s",
		t.Priority, tui.RelativeTime(t.CreatedAt), tui.ProgressBar(t.Progress(), 10))))
	if t.ScheduledFor != nil {
		_, _ = fmt.Fprintln(w, styles.Dim.Render("scheduled "+tui.RelativeTime(*t.ScheduledFor)))
	}
	if t.Recurring {
		_, _ = fmt.Fprintln(w, styles.Dim.Render("recurs "+t.RecurrencePattern))
	}
	_, _ = fmt.Fprintln(w)

	tbl := tui.NewTable(
		tui.TableColumn{Name: "#", Align: tui.AlignRight},
		tui.TableColumn{Name: "STEP", Width: 32},
		tui.TableColumn{Name: "AGENT"},
		tui.TableColumn{Name: "STATUS"},
		tui.TableColumn{Name: "TIME", Align: tui.AlignRight},
		tui.TableColumn{Name: "DETAIL", Width: 50},
	)
	for i, s := range t.Steps {
		detail := s.Error
		if detail == "" {
			detail = domain.Truncate(s.Output, 50)
		}
		elapsed := ""
		if s.StartedAt != nil && s.CompletedAt != nil {
			elapsed = tui.FormatDuration(s.Duration())
		}
		tbl.AddRow(strconv.Itoa(i+1), s.Name, s.Agent.String(), tui.RenderStatus(s.Status), elapsed, detail)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}

	if len(t.Artifacts) > 0 {
		_, _ = fmt.Fprintln(w)
		if err := artifactTable(t.Artifacts).Render(w); err != nil {
			return err
		}
	}
	if t.Error != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.Error.Render("error: "+t.Error))
	}
	return nil
}
