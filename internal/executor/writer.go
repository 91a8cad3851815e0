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

//nolint:gochecknoglobals // read-only lookup table
var writerPrompts = map[string]prompts.PromptID{
	"product_description": prompts.WriterProductDescription,
	"video_script":        prompts.WriterVideoScript,
	"blog_post":           prompts.WriterBlogPost,
	"social_post":         prompts.WriterSocialPost,
	"marketing_copy":      prompts.WriterMarketingCopy,
	"generic":             prompts.WriterGeneric,
}

// WriterExecutor generates text from a per-action template.
type WriterExecutor struct {
	text TextModels
}

// NewWriterExecutor creates a writer.
func NewWriterExecutor(text TextModels) *WriterExecutor {
	return &WriterExecutor{text: text}
}

// Agent implements StepExecutor.
func (e *WriterExecutor) Agent() domain.Agent { return domain.AgentWriter }

// Execute implements StepExecutor.
func (e *WriterExecutor) Execute(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	gen, model := e.text.pick(task)
	if gen == nil {
		return nil, fmt.Errorf("%w: no text generator", aperrors.ErrConfiguration)
	}

	action := step.Action
	id, ok := writerPrompts[action]
	if !ok {
		action, id = "generic", prompts.WriterGeneric
	}
	prompt, err := prompts.Render(id, prompts.WriterData{
		Description:    describe(task, step),
		StepName:       step.Name,
		GeneratedImage: task.ContextString(domain.CtxGeneratedImage),
	})
	if err != nil {
		return nil, err
	}

	content, err := gen.GenerateText(ctx, ai.NewTextRequest(prompt))
	if err != nil {
		return nil, err
	}

	text := domain.NewArtifact(domain.ArtifactText, step.Name).
		WithContent(content).
		WithMeta("agent", domain.AgentWriter.String()).
		WithMeta("action", action).
		WithMeta("model", model)

	return &domain.TextResult{
		StepOutput: domain.StepOutput{
			Artifacts: []*domain.Artifact{text},
			ContextUpdates: map[string]any{
				action:                  content,
				domain.CtxLatestContent: content,
			},
			Message: "wrote " + action,
		},
		Content: content,
		Action:  action,
	}, nil
}
