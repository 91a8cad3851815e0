package executor

import (
	"context"
	"fmt"

	"github.com/mrz1836/adpilot/internal/ai"
	"github.com/mrz1836/adpilot/internal/ctxutil"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/prompts"
)

// DefaultPlatforms are the networks covered by a campaign copy pack.
//
//nolint:gochecknoglobals // read-only default
var DefaultPlatforms = []string{"Instagram", "TikTok", "X (Twitter)", "LinkedIn", "Facebook"}

// MarketerExecutor writes multi-platform campaign copy in one call.
type MarketerExecutor struct {
	text      TextModels
	platforms []string
}

// NewMarketerExecutor creates a marketer. Empty platforms uses DefaultPlatforms.
func NewMarketerExecutor(text TextModels, platforms []string) *MarketerExecutor {
	if len(platforms) == 0 {
		platforms = DefaultPlatforms
	}
	return &MarketerExecutor{text: text, platforms: platforms}
}

// Agent implements StepExecutor.
func (e *MarketerExecutor) Agent() domain.Agent { return domain.AgentMarketer }

// Execute implements StepExecutor.
func (e *MarketerExecutor) Execute(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	gen, model := e.text.pick(task)
	if gen == nil {
		return nil, fmt.Errorf("%w: no text generator", aperrors.ErrConfiguration)
	}

	prompt, err := prompts.Render(prompts.MarketerCampaign, prompts.MarketerData{
		Description: describe(task, step),
		Platforms:   e.platforms,
	})
	if err != nil {
		return nil, err
	}

	content, err := gen.GenerateText(ctx, ai.NewTextRequest(prompt, ai.WithMaxTokens(2000)))
	if err != nil {
		return nil, err
	}

	copyPack := domain.NewArtifact(domain.ArtifactText, step.Name).
		WithContent(content).
		WithMeta("agent", domain.AgentMarketer.String()).
		WithMeta("platforms", e.platforms).
		WithMeta("model", model)

	return &domain.TextResult{
		StepOutput: domain.StepOutput{
			Artifacts: []*domain.Artifact{copyPack},
			ContextUpdates: map[string]any{
				"marketing_copy":        content,
				domain.CtxLatestContent: content,
			},
			Message: fmt.Sprintf("wrote campaign copy for %d platforms", len(e.platforms)),
		},
		Content: content,
		Action:  "campaign_copy",
	}, nil
}
