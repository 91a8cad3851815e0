package task

import (
	"fmt"
	"slices"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// ValidTransitions defines all allowed state transitions in the task lifecycle.
//
//	Pending → Planning → Ready → Running → Completed | Failed | Cancelled
//	Ready, Scheduled, Paused → Cancelled
//
// Terminal states have no entry. Task.Reset moves a terminal task back to
// Ready outside this table.
//
//nolint:gochecknoglobals // Exported for testing and read-only lookup table
var ValidTransitions = map[constants.TaskStatus][]constants.TaskStatus{
	constants.TaskStatusPending:   {constants.TaskStatusPlanning, constants.TaskStatusScheduled, constants.TaskStatusCancelled},
	constants.TaskStatusScheduled: {constants.TaskStatusPlanning, constants.TaskStatusReady, constants.TaskStatusCancelled},
	constants.TaskStatusPlanning:  {constants.TaskStatusReady, constants.TaskStatusFailed},
	constants.TaskStatusReady:     {constants.TaskStatusRunning, constants.TaskStatusScheduled, constants.TaskStatusCancelled},
	constants.TaskStatusRunning: {
		constants.TaskStatusCompleted,
		constants.TaskStatusFailed,
		constants.TaskStatusCancelled,
		constants.TaskStatusPaused,
	},
	constants.TaskStatusPaused: {constants.TaskStatusRunning, constants.TaskStatusCancelled},
}

// IsValidTransition checks if a transition from one status to another is allowed.
func IsValidTransition(from, to constants.TaskStatus) bool {
	return slices.Contains(ValidTransitions[from], to)
}

// Transition moves task to status to, or returns ErrInvalidTransition.
func Transition(task *domain.Task, to constants.TaskStatus) error {
	if !IsValidTransition(task.Status, to) {
		return fmt.Errorf("%w: %s -> %s", aperrors.ErrInvalidTransition, task.Status, to)
	}
	task.Status = to
	return nil
}
