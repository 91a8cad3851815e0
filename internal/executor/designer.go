package executor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/adpilot/internal/ai"
	"github.com/mrz1836/adpilot/internal/ctxutil"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/prompts"
)

// designAction describes the prompt and framing for one designer action.
type designAction struct {
	prompt prompts.PromptID
	aspect string
}

//nolint:gochecknoglobals // read-only lookup table
var designActions = map[string]designAction{
	"generate_design": {prompts.DesignGeneric, "1:1"},
	"thumbnail":       {prompts.DesignThumbnail, "16:9"},
	"social_image":    {prompts.DesignSocialImage, "1:1"},
}

// DesignerExecutor generates images.
type DesignerExecutor struct {
	images ai.ImageGenerator
	runner ai.ModelRunner
	models map[string]string
}

// NewDesignerExecutor creates a designer. images serves tasks without an
// image-model preference; runner serves named models resolved through models.
// Either may be nil.
func NewDesignerExecutor(images ai.ImageGenerator, runner ai.ModelRunner, models map[string]string) *DesignerExecutor {
	return &DesignerExecutor{images: images, runner: runner, models: models}
}

// Agent implements StepExecutor.
func (e *DesignerExecutor) Agent() domain.Agent { return domain.AgentDesigner }

// Execute implements StepExecutor.
func (e *DesignerExecutor) Execute(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	action, ok := designActions[step.Action]
	if !ok {
		action = designActions["generate_design"]
	}
	prompt, err := prompts.Render(action.prompt, prompts.DesignData{
		Description: describe(task, step),
		StepName:    step.Name,
	})
	if err != nil {
		return nil, err
	}

	url, model, err := e.generate(ctx, task, prompt, action.aspect)
	if err != nil {
		return nil, err
	}
	if url == "" {
		return nil, fmt.Errorf("%w: image generation returned no url", aperrors.ErrUpstream)
	}

	zerolog.Ctx(ctx).Info().
		Str("step_id", step.ID).
		Str("model", model).
		Msg("design generated")

	img := domain.NewArtifact(domain.ArtifactImage, step.Name).
		WithURL(url).
		WithMeta("agent", domain.AgentDesigner.String()).
		WithMeta("model", model).
		WithMeta("prompt", prompt)

	return &domain.ImageResult{
		StepOutput: domain.StepOutput{
			Artifacts: []*domain.Artifact{img},
			ContextUpdates: map[string]any{
				domain.CtxGeneratedImage: url,
				domain.CtxDesignPrompt:   prompt,
			},
			Message: "generated design with " + model,
		},
		URL:    url,
		Prompt: prompt,
		Model:  model,
	}, nil
}

func (e *DesignerExecutor) generate(ctx context.Context, task *domain.Task, prompt, aspect string) (string, string, error) {
	if name := task.ContextString(domain.CtxImageModel); name != "" && e.runner != nil {
		urls, err := e.runner.Run(ctx, resolveModel(e.models, name), map[string]any{
			"prompt":        prompt,
			"aspect_ratio":  aspect,
			"output_format": "png",
		})
		if err != nil {
			return "", "", err
		}
		if len(urls) == 0 {
			return "", name, nil
		}
		return urls[0], name, nil
	}

	if e.images == nil {
		return "", "", fmt.Errorf("%w: no image generator", aperrors.ErrConfiguration)
	}
	url, err := e.images.GenerateImage(ctx, &ai.ImageRequest{Prompt: prompt, AspectRatio: aspect})
	if err != nil {
		return "", "", err
	}
	model := "default"
	if m, ok := e.images.(interface{ ImageModelID() string }); ok {
		model = m.ImageModelID()
	}
	return url, model, nil
}
