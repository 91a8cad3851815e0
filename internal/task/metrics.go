package task

import (
	"time"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
)

// Metrics collects metrics about task and step execution.
// The Prometheus implementation lives in internal/metrics.
type Metrics interface {
	// TaskStarted is called when a task begins execution.
	TaskStarted(taskID string, steps int)

	// StepExecuted is called after each step finishes or is skipped for an unmet dependency.
	StepExecuted(taskID string, agent domain.Agent, duration time.Duration, success bool)

	// TaskCompleted is called when a task reaches a terminal status.
	TaskCompleted(taskID string, duration time.Duration, status constants.TaskStatus)
}

// NoopMetrics is a no-op implementation of Metrics for default behavior.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Metrics interface.
var _ Metrics = (*NoopMetrics)(nil)

// TaskStarted implements Metrics.
func (NoopMetrics) TaskStarted(string, int) {}

// StepExecuted implements Metrics.
func (NoopMetrics) StepExecuted(string, domain.Agent, time.Duration, bool) {}

// TaskCompleted implements Metrics.
func (NoopMetrics) TaskCompleted(string, time.Duration, constants.TaskStatus) {}
