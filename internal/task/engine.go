// Package task provides task lifecycle management for adpilot.
//
// The Engine plans tasks, drives their steps sequentially through the
// executor registry, persists artifacts, reports progress, and checkpoints
// state after every step.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors, internal/executor,
//     internal/planner, internal/clock, internal/ctxutil, std lib
//   - MUST NOT import: internal/cli, internal/ai, internal/publish, internal/browser
package task

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mrz1836/adpilot/internal/clock"
	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/ctxutil"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/executor"
	"github.com/mrz1836/adpilot/internal/planner"
)

// Planner produces a plan for a description. It never fails.
type Planner interface {
	Plan(ctx context.Context, description string) domain.PlanResult
}

// ArtifactPersister saves artifacts. Failures are handled internally.
type ArtifactPersister interface {
	Persist(ctx context.Context, artifact *domain.Artifact, taskID string)
}

// CreateOptions carries the optional task attributes.
type CreateOptions struct {
	Priority     constants.Priority
	ScheduledFor *time.Time

	// DependsOn lists ids of tasks that must be completed before this one runs.
	DependsOn []string

	// RecurrencePattern is a standard five-field cron expression. It is
	// validated and stored; nothing re-runs the task automatically.
	RecurrencePattern string

	// Context seeds the task context, e.g. with a product name.
	Context map[string]any
}

// Engine orchestrates planning and execution of tasks.
type Engine struct {
	planner   Planner
	registry  *executor.Registry
	artifacts ArtifactPersister
	store     Store
	metrics   Metrics
	clock     clock.Clock
	logger    zerolog.Logger

	mu    sync.RWMutex
	tasks []*domain.Task
	byID  map[string]*domain.Task
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStore checkpoints tasks to store after creation and after every step.
func WithStore(store Store) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithArtifactStore persists every artifact a step produces.
func WithArtifactStore(artifacts ArtifactPersister) EngineOption {
	return func(e *Engine) {
		e.artifacts = artifacts
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// NewEngine creates a task engine.
func NewEngine(p Planner, registry *executor.Registry, logger zerolog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		planner:  p,
		registry: registry,
		metrics:  NoopMetrics{},
		clock:    clock.RealClock{},
		logger:   logger,
		byID:     make(map[string]*domain.Task),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateTask plans description into a ready task and registers it.
// Plans whose step dependencies reference unknown, self, or later steps are
// rejected with ErrInvalidPlan.
func (e *Engine) CreateTask(ctx context.Context, description string, opts CreateOptions) (*domain.Task, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, fmt.Errorf("failed to create task: description %w", aperrors.ErrEmptyValue)
	}
	if opts.RecurrencePattern != "" {
		if _, err := cron.ParseStandard(opts.RecurrencePattern); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", aperrors.ErrInvalidRecurrence, opts.RecurrencePattern, err)
		}
	}
	if opts.Priority == "" {
		opts.Priority = constants.PriorityNormal
	}
	if !opts.Priority.IsValid() {
		return nil, fmt.Errorf("%w: %q", aperrors.ErrInvalidPriority, opts.Priority)
	}

	task := &domain.Task{
		ID:                domain.NewShortID(),
		Description:       description,
		Status:            constants.TaskStatusPending,
		Priority:          opts.Priority,
		Context:           make(map[string]any),
		CreatedAt:         e.clock.Now().UTC(),
		ScheduledFor:      opts.ScheduledFor,
		DependsOn:         slices.Clone(opts.DependsOn),
		Recurring:         opts.RecurrencePattern != "",
		RecurrencePattern: opts.RecurrencePattern,
		SchemaVersion:     constants.TaskSchemaVersion,
	}
	for k, v := range opts.Context {
		task.Context[k] = v
	}

	log := e.logger.With().Str("task_id", task.ID).Logger()
	log.Info().Str("priority", string(task.Priority)).Msg("planning new task")

	if err := Transition(task, constants.TaskStatusPlanning); err != nil {
		return nil, err
	}
	plan := e.planner.Plan(ctx, description)

	steps, err := materialize(task.ID, plan.Steps)
	if err != nil {
		log.Warn().Err(err).Msg("plan rejected")
		return nil, err
	}

	task.Plan = &plan
	task.Steps = steps
	task.PublishTo = plan.PublishTo
	for k, v := range plan.ModelPreferences.ContextValues() {
		task.Context[k] = v
	}
	if err := Transition(task, constants.TaskStatusReady); err != nil {
		return nil, err
	}

	e.register(task)
	e.checkpoint(ctx, task)

	log.Info().
		Int("steps", len(task.Steps)).
		Str("plan_source", string(plan.Source)).
		Strs("publish_to", task.PublishTo).
		Msg("task ready")
	return task, nil
}

// materialize converts plan steps to task steps with {task_id}-{n} ids.
func materialize(taskID string, planSteps []domain.PlanStep) ([]*domain.Step, error) {
	indexed := slices.Clone(planSteps)
	for i := range indexed {
		if indexed[i].StepIndex == 0 {
			indexed[i].StepIndex = i + 1
		}
	}
	if err := planner.CheckDependencies(indexed); err != nil {
		return nil, err
	}

	steps := make([]*domain.Step, len(indexed))
	for i, ps := range indexed {
		deps := make([]string, len(ps.DependsOn))
		for j, d := range ps.DependsOn {
			deps[j] = stepID(taskID, d)
		}
		steps[i] = &domain.Step{
			ID:          stepID(taskID, ps.StepIndex),
			Name:        ps.Name,
			Description: ps.Description,
			Agent:       domain.ParseAgent(ps.Agent),
			Action:      ps.Action,
			Status:      constants.StepStatusPending,
			DependsOn:   deps,
		}
	}
	return steps, nil
}

func stepID(taskID string, index int) string {
	return fmt.Sprintf("%s-%d", taskID, index)
}

// ExecuteTask runs every step of task in order and returns the task.
//
// Step failures never stop the loop. The task ends failed only when every
// step failed. Cancelling ctx stops before the next step, leaves the
// remaining steps pending, marks the task cancelled, and returns ctx's error.
// Terminal tasks are rejected with ErrTaskAlreadyExecuted; call Task.Reset
// to run one again.
func (e *Engine) ExecuteTask(ctx context.Context, task *domain.Task, cb ProgressCallback) (result *domain.Task, err error) {
	if task == nil {
		return nil, fmt.Errorf("failed to execute task: task %w", aperrors.ErrEmptyValue)
	}
	if task.Status.IsTerminal() {
		return task, fmt.Errorf("%w: %s is %s", aperrors.ErrTaskAlreadyExecuted, task.ID, task.Status)
	}
	if err := e.checkTaskDependencies(ctx, task); err != nil {
		return task, err
	}
	if err := Transition(task, constants.TaskStatusRunning); err != nil {
		return task, err
	}

	ctx = e.injectLoggerContext(ctx, task.ID)
	log := zerolog.Ctx(ctx)

	start := e.clock.Now()
	startedAt := start.UTC()
	task.StartedAt = &startedAt
	e.metrics.TaskStarted(task.ID, len(task.Steps))
	log.Info().Int("steps", len(task.Steps)).Msg("executing task")

	defer func() {
		if r := recover(); r != nil {
			task.Status = constants.TaskStatusFailed
			task.Error = fmt.Sprintf("step loop panicked: %v", r)
			log.Error().Str("panic", fmt.Sprint(r)).Msg("task execution aborted")
			e.finish(ctx, task, start)
			result, err = task, fmt.Errorf("%w: %s", aperrors.ErrTaskFailed, task.Error)
		}
	}()

	if err := e.runSteps(ctx, task, cb); err != nil {
		task.Status = constants.TaskStatusCancelled
		task.Error = err.Error()
		log.Warn().Err(err).Int("current_step", task.CurrentStep).Msg("task cancelled")
		e.finish(ctx, task, start)
		return task, err
	}

	task.Status = constants.TaskStatusCompleted
	if len(task.Steps) > 0 && task.CountSteps(constants.StepStatusFailed) == len(task.Steps) {
		task.Status = constants.TaskStatusFailed
		task.Error = "every step failed"
	}
	e.finish(ctx, task, start)

	log.Info().
		Str("status", string(task.Status)).
		Int("artifacts", len(task.Artifacts)).
		Dur("duration_ms", e.clock.Now().Sub(start)).
		Msg("task finished")
	return task, nil
}

func (e *Engine) finish(ctx context.Context, task *domain.Task, start time.Time) {
	completedAt := e.clock.Now().UTC()
	task.CompletedAt = &completedAt
	task.FinalSummary = BuildSummary(task)
	e.metrics.TaskCompleted(task.ID, e.clock.Now().Sub(start), task.Status)
	e.checkpoint(ctx, task)
}

// runSteps returns an error only when ctx is cancelled.
func (e *Engine) runSteps(ctx context.Context, task *domain.Task, cb ProgressCallback) error {
	for i, step := range task.Steps {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}
		task.CurrentStep = i

		if missing, ok := unmetDependency(task, i); !ok {
			e.skipStep(ctx, task, step, missing, cb)
		} else {
			e.runStep(ctx, task, step, cb)
		}
		e.checkpoint(ctx, task)
	}
	return nil
}

// unmetDependency reports the first dependency of step i that is not a
// completed earlier step.
func unmetDependency(task *domain.Task, i int) (string, bool) {
	for _, dep := range task.Steps[i].DependsOn {
		s, idx, found := task.StepByID(dep)
		if !found || idx >= i || s.Status != constants.StepStatusCompleted {
			return dep, false
		}
	}
	return "", true
}

func (e *Engine) skipStep(ctx context.Context, task *domain.Task, step *domain.Step, missing string, cb ProgressCallback) {
	now := e.clock.Now().UTC()
	step.Status = constants.StepStatusFailed
	step.Error = fmt.Errorf("%w: %s", aperrors.ErrDependencyNotMet, missing).Error()
	step.CompletedAt = &now

	zerolog.Ctx(ctx).Warn().
		Str("step_id", step.ID).
		Str("dependency", missing).
		Msg("step skipped, dependency not completed")
	e.metrics.StepExecuted(task.ID, step.Agent, 0, false)
	e.notify(cb, task, step, EventStepFailed)
}

func (e *Engine) runStep(ctx context.Context, task *domain.Task, step *domain.Step, cb ProgressCallback) {
	log := zerolog.Ctx(ctx).With().
		Str("step_id", step.ID).
		Str("agent", step.Agent.String()).
		Str("action", step.Action).
		Logger()

	start := e.clock.Now()
	startedAt := start.UTC()
	step.Status = constants.StepStatusRunning
	step.StartedAt = &startedAt
	e.notify(cb, task, step, EventStepRunning)
	log.Info().Msg("executing step")

	res, err := e.dispatch(ctx, task, step)

	completedAt := e.clock.Now().UTC()
	step.CompletedAt = &completedAt
	duration := e.clock.Now().Sub(start)

	if err != nil {
		step.Status = constants.StepStatusFailed
		step.Error = err.Error()
		log.Error().Err(err).Dur("duration_ms", duration).Msg("step failed")
		e.metrics.StepExecuted(task.ID, step.Agent, duration, false)
		e.notify(cb, task, step, EventStepFailed)
		return
	}

	out := res.Output()
	step.Result = res
	step.Output = domain.Summarize(res)
	for _, a := range out.Artifacts {
		if a == nil {
			continue
		}
		step.Artifacts = append(step.Artifacts, a)
		task.Artifacts = append(task.Artifacts, a)
		if e.artifacts != nil {
			e.artifacts.Persist(ctx, a, task.ID)
		}
	}
	for k, v := range out.ContextUpdates {
		task.SetContext(k, v)
	}
	step.Status = constants.StepStatusCompleted

	log.Info().
		Int("artifacts", len(step.Artifacts)).
		Dur("duration_ms", duration).
		Msg("step completed")
	e.metrics.StepExecuted(task.ID, step.Agent, duration, true)
	e.notify(cb, task, step, EventStepCompleted)
}

// dispatch looks up the executor and always returns a non-nil result on success.
// dispatch converts an executor panic into a step error so the loop carries on.
func (e *Engine) dispatch(ctx context.Context, task *domain.Task, step *domain.Step) (res domain.StepResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: %s executor panicked: %v", aperrors.ErrUpstream, step.Agent, r)
		}
	}()

	exec, err := e.registry.Get(step.Agent)
	if err != nil {
		return nil, err
	}
	res, err = exec.Execute(ctx, task, step)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &domain.NoopResult{}
	}
	return res, nil
}

// checkTaskDependencies requires every task in DependsOn to be completed.
func (e *Engine) checkTaskDependencies(ctx context.Context, task *domain.Task) error {
	for _, id := range task.DependsOn {
		dep, err := e.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: task %s: %w", aperrors.ErrDependencyNotMet, id, err)
		}
		if dep.Status != constants.TaskStatusCompleted {
			return fmt.Errorf("%w: task %s is %s", aperrors.ErrDependencyNotMet, id, dep.Status)
		}
	}
	return nil
}

// Tasks returns the tasks created by this engine, oldest first.
func (e *Engine) Tasks() []*domain.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.tasks)
}

// Get returns a task by id from memory, falling back to the store.
func (e *Engine) Get(ctx context.Context, id string) (*domain.Task, error) {
	e.mu.RLock()
	t, ok := e.byID[id]
	e.mu.RUnlock()
	if ok {
		return t, nil
	}
	if e.store != nil {
		return e.store.Get(ctx, id)
	}
	return nil, fmt.Errorf("%w: %s", aperrors.ErrTaskNotFound, id)
}

// Cancel marks a task that is not running and not terminal as cancelled.
// Running tasks are cancelled through the context passed to ExecuteTask.
func (e *Engine) Cancel(ctx context.Context, task *domain.Task) error {
	if task.Status == constants.TaskStatusRunning {
		return fmt.Errorf("%w: task %s is running, cancel its context instead", aperrors.ErrInvalidTransition, task.ID)
	}
	if err := Transition(task, constants.TaskStatusCancelled); err != nil {
		return err
	}
	now := e.clock.Now().UTC()
	task.CompletedAt = &now
	e.checkpoint(ctx, task)
	return nil
}

func (e *Engine) register(task *domain.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.byID[task.ID]; exists {
		return
	}
	e.tasks = append(e.tasks, task)
	e.byID[task.ID] = task
}

// checkpoint saves task when a store is configured. Failures are logged.
func (e *Engine) checkpoint(ctx context.Context, task *domain.Task) {
	if e.store == nil {
		return
	}
	if err := e.store.Save(context.WithoutCancel(ctx), task); err != nil {
		e.logger.Warn().Err(err).Str("task_id", task.ID).Msg("failed to checkpoint task")
	}
}

// injectLoggerContext returns ctx carrying a logger tagged with the task id
// for the step executors.
func (e *Engine) injectLoggerContext(ctx context.Context, taskID string) context.Context {
	logger := e.logger.With().
		Str("task_id", taskID).
		Logger()
	return logger.WithContext(ctx)
}
