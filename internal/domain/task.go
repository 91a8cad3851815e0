// Package domain provides shared domain types for the adpilot task orchestration system.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

import (
	"time"

	"github.com/mrz1836/adpilot/internal/constants"
)

// Task represents one user-requested unit of work: a campaign goal planned into
// ordered steps that run against generation and publishing collaborators.
//
// Example JSON representation:
//
//	{
//	    "id": "3f9c1a2b",
//	    "description": "Create a t-shirt design and post it to our store",
//	    "status": "completed",
//	    "priority": "normal",
//	    "current_step": 1,
//	    "steps": [...],
//	    "context": {"generated_image": "https://..."},
//	    "artifacts": [...],
//	    "publish_to": ["printify", "shopify"],
//	    "created_at": "2026-10-18T10:00:00Z",
//	    "schema_version": "1.0"
//	}
type Task struct {
	// ID is a short unique identifier.
	ID string `json:"id"`

	// Description is the free-text goal the task was created from.
	Description string `json:"description"`

	// Status is the current lifecycle state.
	Status constants.TaskStatus `json:"status"`

	// Priority is advisory only; it never changes execution order.
	Priority constants.Priority `json:"priority"`

	// Plan is the raw planning result, retained for audit and debugging.
	Plan *PlanResult `json:"plan,omitempty"`

	// Steps run strictly in this order.
	Steps []*Step `json:"steps"`

	// CurrentStep is the index of the step being executed.
	CurrentStep int `json:"current_step"`

	// Context is shared by every step of the task. Later steps read keys
	// written by earlier ones (generated_image feeds the video step, and so on).
	Context map[string]any `json:"context"`

	// Artifacts is the flattened list of outputs of every step.
	Artifacts []*Artifact `json:"artifacts"`

	CreatedAt    time.Time  `json:"created_at"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	// DependsOn lists other task ids that must be completed before this
	// task may run.
	DependsOn []string `json:"depends_on,omitempty"`

	// PublishTo is the set of publishing targets detected during planning.
	PublishTo []string `json:"publish_to,omitempty"`

	// Recurring and RecurrencePattern are scheduling metadata for callers.
	Recurring         bool   `json:"recurring,omitempty"`
	RecurrencePattern string `json:"recurrence_pattern,omitempty"`

	FinalSummary string `json:"final_summary,omitempty"`
	Error        string `json:"error,omitempty"`

	// SchemaVersion indicates the version of the Task struct schema.
	SchemaVersion string `json:"schema_version"`
}

// Progress returns the fraction of steps that completed, in [0, 1].
// A task without steps has progress 0.
func (t *Task) Progress() float64 {
	if len(t.Steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range t.Steps {
		if s.Status == constants.StepStatusCompleted {
			done++
		}
	}
	return float64(done) / float64(len(t.Steps))
}

// StepByID finds a step of this task by its id.
func (t *Task) StepByID(id string) (*Step, int, bool) {
	for i, s := range t.Steps {
		if s.ID == id {
			return s, i, true
		}
	}
	return nil, -1, false
}

// CountSteps returns how many steps are in the given status.
func (t *Task) CountSteps(status constants.StepStatus) int {
	n := 0
	for _, s := range t.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Reset returns the task to ready so it can be driven again. Every step goes
// back to pending and previous results, artifacts, and errors are cleared.
// Context is kept, so values produced by the previous run stay visible.
func (t *Task) Reset() {
	for _, s := range t.Steps {
		s.Reset()
	}
	t.Artifacts = nil
	t.CurrentStep = 0
	t.StartedAt = nil
	t.CompletedAt = nil
	t.FinalSummary = ""
	t.Error = ""
	t.Status = constants.TaskStatusReady
}

// SetContext writes a context value, creating the map when needed.
func (t *Task) SetContext(key string, value any) {
	if t.Context == nil {
		t.Context = make(map[string]any)
	}
	t.Context[key] = value
}

// ContextString returns a context value as a string, or "" when the key is
// absent or not a string.
func (t *Task) ContextString(key string) string {
	if t.Context == nil {
		return ""
	}
	s, _ := t.Context[key].(string)
	return s
}

// Step is one unit of execution within a task.
//
// Example JSON representation:
//
//	{
//	    "id": "3f9c1a2b-1",
//	    "name": "Generate Design",
//	    "agent": "designer",
//	    "action": "generate_design",
//	    "status": "completed",
//	    "depends_on": []
//	}
type Step struct {
	// ID has the form {task_id}-{n}.
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Agent selects the executor that handles the step.
	Agent Agent `json:"agent"`

	// Action is a fine-grained instruction for that executor (e.g. "publish_shopify").
	Action string `json:"action"`

	// Status only ever reaches completed or failed.
	Status constants.StepStatus `json:"status"`

	// Result is the typed executor result. It is kept in memory only.
	Result StepResult `json:"-"`

	// Output is a short text summary of Result that survives serialization.
	Output string `json:"output,omitempty"`

	Artifacts []*Artifact `json:"artifacts,omitempty"`

	// Error is set only when Status is failed.
	Error string `json:"error,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// DependsOn holds ids of earlier steps of the same task that must be completed first.
	DependsOn []string `json:"depends_on,omitempty"`
}

// Duration returns how long the step ran, or 0 when it has not finished.
func (s *Step) Duration() time.Duration {
	if s.StartedAt == nil || s.CompletedAt == nil {
		return 0
	}
	return s.CompletedAt.Sub(*s.StartedAt)
}

// Reset returns the step to pending for a fresh run.
func (s *Step) Reset() {
	s.Status = constants.StepStatusPending
	s.Result = nil
	s.Output = ""
	s.Artifacts = nil
	s.Error = ""
	s.StartedAt = nil
	s.CompletedAt = nil
}
