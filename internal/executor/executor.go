// Package executor provides the per-agent step executors and the registry the
// task engine dispatches through.
//
// Executors read task.Context and return a domain.StepResult. They never
// mutate the task or the step; the engine applies results.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors, internal/ai,
//     internal/prompts, internal/publish, internal/browser, internal/artifact
//   - MUST NOT import: internal/task, internal/cli
package executor

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mrz1836/adpilot/internal/ai"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// StepExecutor performs the work of one agent.
type StepExecutor interface {
	// Execute runs the step. Errors mark the step failed; they never abort the task.
	Execute(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error)

	// Agent returns the agent this executor handles.
	Agent() domain.Agent
}

// Registry maps agents to their executors.
// It is safe for concurrent read access after initialization.
type Registry struct {
	mu        sync.RWMutex
	executors map[domain.Agent]StepExecutor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[domain.Agent]StepExecutor),
	}
}

// Register adds an executor, replacing any existing one for the same agent.
func (r *Registry) Register(e StepExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[e.Agent()] = e
}

// Get retrieves the executor for agent.
// Returns ErrExecutorNotFound if none is registered.
func (r *Registry) Get(agent domain.Agent) (StepExecutor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.executors[agent]
	if !ok {
		return nil, fmt.Errorf("%w: %s", aperrors.ErrExecutorNotFound, agent)
	}
	return e, nil
}

// Has checks if an executor is registered for agent.
func (r *Registry) Has(agent domain.Agent) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.executors[agent]
	return ok
}

// Agents returns the registered agents, sorted.
func (r *Registry) Agents() []domain.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := make([]domain.Agent, 0, len(r.executors))
	for a := range r.executors {
		agents = append(agents, a)
	}
	slices.Sort(agents)
	return agents
}

// TextModels selects a text generator by the task's text-model preference.
type TextModels struct {
	// Default serves tasks without a preference or with an unavailable one.
	Default ai.TextGenerator

	// Named maps planner text-model names (claude, gpt-4o, llama) to generators.
	Named map[string]ai.TextGenerator
}

// pick returns the generator for task and the model name it serves.
func (m TextModels) pick(task *domain.Task) (ai.TextGenerator, string) {
	if name := task.ContextString(domain.CtxTextModel); name != "" {
		if gen, ok := m.Named[name]; ok && gen != nil {
			return gen, name
		}
	}
	return m.Default, "default"
}

// describe returns the most specific description available for step.
func describe(task *domain.Task, step *domain.Step) string {
	if step.Description != "" {
		return step.Description
	}
	return task.Description
}

// resolveModel maps a planner model name to a hosted model id.
func resolveModel(models map[string]string, name string) string {
	if id, ok := models[name]; ok && id != "" {
		return id
	}
	return name
}
