package executor

import (
	"context"

	"github.com/mrz1836/adpilot/internal/domain"
)

// GenericExecutor completes steps no other executor handles.
type GenericExecutor struct{}

// NewGenericExecutor creates a generic executor.
func NewGenericExecutor() *GenericExecutor { return &GenericExecutor{} }

// Agent implements StepExecutor.
func (*GenericExecutor) Agent() domain.Agent { return domain.AgentGeneric }

// Execute implements StepExecutor.
func (*GenericExecutor) Execute(_ context.Context, _ *domain.Task, step *domain.Step) (domain.StepResult, error) {
	return &domain.NoopResult{
		StepOutput: domain.StepOutput{Message: "no action required for " + step.Name},
	}, nil
}
