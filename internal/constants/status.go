package constants

// TaskStatus represents the state of a task in the adpilot lifecycle.
// Status values use snake_case for JSON serialization compatibility.
type TaskStatus string

// Task status constants define the valid states a task can be in.
//
//	Pending → Planning → Ready (or Scheduled) → Running → Completed | Failed | Cancelled
//	Ready, Scheduled, Paused → Cancelled
const (
	// TaskStatusPending indicates a task exists but has not been planned.
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusScheduled indicates a planned task waiting for its scheduled time.
	TaskStatusScheduled TaskStatus = "scheduled"

	// TaskStatusPlanning indicates the planner is building the task's steps.
	TaskStatusPlanning TaskStatus = "planning"

	// TaskStatusReady indicates the task has steps and can be executed.
	TaskStatusReady TaskStatus = "ready"

	// TaskStatusRunning indicates the engine is executing the task's steps.
	TaskStatusRunning TaskStatus = "running"

	// TaskStatusPaused indicates a caller stopped driving the task.
	TaskStatusPaused TaskStatus = "paused"

	// TaskStatusCompleted indicates every step ran and at least one succeeded.
	TaskStatusCompleted TaskStatus = "completed"

	// TaskStatusFailed indicates every step failed or the step loop itself failed.
	TaskStatusFailed TaskStatus = "failed"

	// TaskStatusCancelled indicates the caller cancelled the task.
	TaskStatusCancelled TaskStatus = "cancelled"
)

// String returns the string representation of the TaskStatus.
// This implements fmt.Stringer for convenient logging and debugging.
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status ends a task's execution pass.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	case TaskStatusPending, TaskStatusScheduled, TaskStatusPlanning,
		TaskStatusReady, TaskStatusRunning, TaskStatusPaused:
		return false
	}
	return false
}

// StepStatus represents the state of a single step.
// Steps share the task vocabulary but only ever reach completed or failed.
type StepStatus = TaskStatus

// Step status constants.
const (
	StepStatusPending   = TaskStatusPending
	StepStatusRunning   = TaskStatusRunning
	StepStatusCompleted = TaskStatusCompleted
	StepStatusFailed    = TaskStatusFailed
)

// Priority is advisory metadata on a task. It does not change execution order.
type Priority string

// Priority constants.
const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// String returns the string representation of the Priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
