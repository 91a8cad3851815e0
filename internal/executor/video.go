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

// Video providers selectable through the video_model context key.
const (
	ProviderKenBurns = "kenburns"
	ProviderVeo      = "veo"
	ProviderKling    = "kling"
	ProviderMiniMax  = "minimax"
	ProviderLuma     = "luma"
	ProviderDefault  = "default"
)

// VideoExecutorConfig holds the collaborators of the video executor. Any may be nil.
type VideoExecutorConfig struct {
	// Videos serves tasks without a named provider.
	Videos ai.VideoGenerator

	// Runner serves the hosted named providers.
	Runner ai.ModelRunner

	// Renderer serves the local Ken Burns provider.
	Renderer Renderer

	// Models maps provider names to hosted model ids.
	Models map[string]string

	// AspectRatio of generated clips, e.g. "16:9".
	AspectRatio string
}

// VideoExecutor turns a design or a prompt into a short video.
type VideoExecutor struct {
	cfg VideoExecutorConfig
}

// NewVideoExecutor creates a video executor.
func NewVideoExecutor(cfg VideoExecutorConfig) *VideoExecutor {
	if cfg.AspectRatio == "" {
		cfg.AspectRatio = "16:9"
	}
	return &VideoExecutor{cfg: cfg}
}

// Agent implements StepExecutor.
func (e *VideoExecutor) Agent() domain.Agent { return domain.AgentVideo }

// Execute implements StepExecutor.
func (e *VideoExecutor) Execute(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	provider := task.ContextString(domain.CtxVideoModel)
	if provider == "" {
		provider = ProviderDefault
	}
	image := task.ContextString(domain.CtxGeneratedImage)

	prompt, err := prompts.Render(prompts.VideoMotion, prompts.VideoData{
		Description:  describe(task, step),
		DesignPrompt: task.ContextString(domain.CtxDesignPrompt),
	})
	if err != nil {
		return nil, err
	}

	url, err := e.generate(ctx, task, provider, prompt, image)
	if err != nil {
		return nil, err
	}
	if url == "" {
		return nil, fmt.Errorf("%w: %s returned no video", aperrors.ErrUpstream, provider)
	}

	model := task.ContextString(domain.CtxVideoModelName)
	if model == "" {
		model = provider
	}
	zerolog.Ctx(ctx).Info().
		Str("step_id", step.ID).
		Str("provider", provider).
		Msg("video generated")

	clip := domain.NewArtifact(domain.ArtifactVideo, step.Name).
		WithURL(url).
		WithMeta("agent", domain.AgentVideo.String()).
		WithMeta("provider", provider).
		WithMeta("model", model)
	if image != "" {
		clip.WithMeta("source_image", image)
	}

	return &domain.VideoResult{
		StepOutput: domain.StepOutput{
			Artifacts:      []*domain.Artifact{clip},
			ContextUpdates: map[string]any{domain.CtxGeneratedVideo: url},
			Message:        "rendered video with " + model,
		},
		URL:      url,
		Model:    model,
		Provider: provider,
	}, nil
}

func (e *VideoExecutor) generate(ctx context.Context, task *domain.Task, provider, prompt, image string) (string, error) {
	aspect := e.cfg.AspectRatio

	switch provider {
	case ProviderKenBurns:
		if image == "" {
			return "", fmt.Errorf("%w: %s needs a generated image", aperrors.ErrMissingInput, provider)
		}
		if e.cfg.Renderer == nil {
			return "", fmt.Errorf("%w: no local renderer", aperrors.ErrConfiguration)
		}
		return e.cfg.Renderer.Render(ctx, image, aspect)

	case ProviderVeo:
		return e.runHosted(ctx, provider, map[string]any{
			"prompt":       prompt,
			"aspect_ratio": aspect,
		})

	case ProviderKling:
		if image == "" {
			return "", fmt.Errorf("%w: %s needs a generated image", aperrors.ErrMissingInput, provider)
		}
		return e.runHosted(ctx, provider, map[string]any{
			"prompt":       prompt,
			"start_image":  image,
			"duration":     5,
			"aspect_ratio": aspect,
		})

	case ProviderMiniMax:
		input := map[string]any{"prompt": prompt, "prompt_optimizer": true}
		if first := firstNonEmpty(task.ContextString(domain.CtxFirstFrameImage), image); first != "" {
			input["first_frame_image"] = first
		}
		return e.runHosted(ctx, provider, input)

	case ProviderLuma:
		input := map[string]any{"prompt": prompt, "aspect_ratio": aspect}
		if image != "" {
			input["start_image_url"] = image
		}
		return e.runHosted(ctx, provider, input)
	}

	if e.cfg.Videos == nil {
		return "", fmt.Errorf("%w: no video generator", aperrors.ErrConfiguration)
	}
	return e.cfg.Videos.GenerateVideo(ctx, &ai.VideoRequest{
		Prompt:      prompt,
		ImageURL:    image,
		AspectRatio: aspect,
	})
}

func (e *VideoExecutor) runHosted(ctx context.Context, provider string, input map[string]any) (string, error) {
	if e.cfg.Runner == nil {
		return "", fmt.Errorf("%w: no hosted model runner for %s", aperrors.ErrConfiguration, provider)
	}
	urls, err := e.cfg.Runner.Run(ctx, resolveModel(e.cfg.Models, provider), input)
	if err != nil {
		return "", err
	}
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
