package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/task"
	"github.com/mrz1836/adpilot/internal/tui"
)

// progressPrinter writes one line per step event. RunBatch calls it from
// several goroutines, so writes are serialized.
type progressPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	withIDs bool
}

func newProgressPrinter(w io.Writer, withIDs bool) *progressPrinter {
	return &progressPrinter{w: w, withIDs: withIDs}
}

func (p *progressPrinter) callback() task.ProgressCallback {
	return func(ev task.ProgressEvent) {
		line := tui.StepLine{
			Index:  ev.StepIndex,
			Total:  ev.TotalSteps,
			Name:   ev.StepName,
			Agent:  ev.Agent.String(),
			Status: eventStatus(ev.Type),
			Detail: ev.Error,
		}
		if p.withIDs {
			line.TaskID = ev.TaskID
		}
		if ev.Type == task.EventStepCompleted && len(ev.Artifacts) > 0 {
			line.Detail = artifactCount(len(ev.Artifacts))
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		_, _ = fmt.Fprintln(p.w, tui.FormatStepLine(line))
	}
}

func eventStatus(t task.EventType) constants.TaskStatus {
	switch t {
	case task.EventStepRunning:
		return constants.TaskStatusRunning
	case task.EventStepCompleted:
		return constants.TaskStatusCompleted
	case task.EventStepFailed:
		return constants.TaskStatusFailed
	}
	return constants.TaskStatusPending
}

func artifactCount(n int) string {
	if n == 1 {
		return "1 artifact"
	}
	return fmt.Sprintf("%d artifacts", n)
}
