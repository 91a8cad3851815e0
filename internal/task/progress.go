package task

import (
	"github.com/mrz1836/adpilot/internal/domain"
)

// EventType names a step progress event.
type EventType string

// Progress event types.
const (
	EventStepRunning   EventType = "running"
	EventStepCompleted EventType = "completed"
	EventStepFailed    EventType = "failed"
)

// ProgressEvent reports a step state change.
type ProgressEvent struct {
	Type       EventType
	TaskID     string
	StepID     string
	StepName   string
	Agent      domain.Agent
	StepIndex  int
	TotalSteps int

	// Progress is the task's completed fraction after the event.
	Progress float64

	// Artifacts is set on completed events.
	Artifacts []*domain.Artifact

	// Error is set on failed events.
	Error string
}

// ProgressCallback receives progress events. Under RunBatch it is called
// from several goroutines and must be safe for concurrent use.
type ProgressCallback func(ProgressEvent)

func (e *Engine) notify(cb ProgressCallback, task *domain.Task, step *domain.Step, typ EventType) {
	if cb == nil {
		return
	}
	ev := ProgressEvent{
		Type:       typ,
		TaskID:     task.ID,
		StepID:     step.ID,
		StepName:   step.Name,
		Agent:      step.Agent,
		StepIndex:  task.CurrentStep,
		TotalSteps: len(task.Steps),
		Progress:   task.Progress(),
		Error:      step.Error,
	}
	if typ == EventStepCompleted {
		ev.Artifacts = step.Artifacts
	}
	cb(ev)
}
