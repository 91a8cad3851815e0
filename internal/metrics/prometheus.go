// Package metrics provides a Prometheus implementation of task.Metrics.
//
// Collectors live in a private registry so several engines (and tests) can
// coexist in one process. The CLI dumps the registry to a node-exporter
// textfile after a run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
	"github.com/mrz1836/adpilot/internal/task"
)

const namespace = "adpilot"

// Prometheus records task and step metrics.
type Prometheus struct {
	registry *prometheus.Registry

	tasksStarted   prometheus.Counter
	tasksCompleted *prometheus.CounterVec
	taskDuration   prometheus.Histogram
	plannedSteps   prometheus.Histogram
	stepsExecuted  *prometheus.CounterVec
	stepDuration   *prometheus.HistogramVec
}

var _ task.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them in a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		tasksStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_started_total",
			Help:      "Tasks whose execution started.",
		}),
		tasksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_finished_total",
			Help:      "Tasks that reached a terminal status, by status.",
		}, []string{"status"}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Wall time of task execution.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		plannedSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_steps",
			Help:      "Number of planned steps per executed task.",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		}),
		stepsExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_executed_total",
			Help:      "Steps executed, by agent and outcome.",
		}, []string{"agent", "outcome"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Wall time of step execution, by agent.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"agent"}),
	}
	p.registry.MustRegister(
		p.tasksStarted,
		p.tasksCompleted,
		p.taskDuration,
		p.plannedSteps,
		p.stepsExecuted,
		p.stepDuration,
	)
	return p
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// TaskStarted implements task.Metrics.
func (p *Prometheus) TaskStarted(_ string, steps int) {
	p.tasksStarted.Inc()
	p.plannedSteps.Observe(float64(steps))
}

// StepExecuted implements task.Metrics.
func (p *Prometheus) StepExecuted(_ string, agent domain.Agent, d time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	p.stepsExecuted.WithLabelValues(agent.String(), outcome).Inc()
	if d > 0 {
		p.stepDuration.WithLabelValues(agent.String()).Observe(d.Seconds())
	}
}

// TaskCompleted implements task.Metrics.
func (p *Prometheus) TaskCompleted(_ string, d time.Duration, status constants.TaskStatus) {
	p.tasksCompleted.WithLabelValues(status.String()).Inc()
	p.taskDuration.Observe(d.Seconds())
}

// WriteTextfile writes the registry in the Prometheus text format to path,
// creating parent directories as needed.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
