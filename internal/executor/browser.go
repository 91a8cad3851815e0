package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/adpilot/internal/browser"
	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/ctxutil"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

const maxCaption = 280

// Posting methods recorded on browser results.
const (
	MethodAIAgent  = "ai_agent"
	MethodService  = "browser_service"
	MethodLLMAgent = "browser_agent"
)

// BrowserExecutorConfig holds the browser collaborators. Any may be nil.
type BrowserExecutorConfig struct {
	// Social is the hosted AI browser agent tried first for social posts.
	Social browser.Poster

	// Service is the automation service poster tried second.
	Service browser.Poster

	// Agent is the generic agent used last for social posts and for every other goal.
	Agent browser.Agent

	// MaxSteps caps the generic agent's tool loop.
	MaxSteps int
}

// BrowserExecutor drives browser automation for social posting and ad hoc goals.
type BrowserExecutor struct {
	cfg BrowserExecutorConfig
}

// NewBrowserExecutor creates a browser executor.
func NewBrowserExecutor(cfg BrowserExecutorConfig) *BrowserExecutor {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = constants.DefaultBrowserMaxSteps
	}
	return &BrowserExecutor{cfg: cfg}
}

// Agent implements StepExecutor.
func (e *BrowserExecutor) Agent() domain.Agent { return domain.AgentBrowser }

// Execute implements StepExecutor.
func (e *BrowserExecutor) Execute(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if isSocialAction(step.Action) {
		return e.postSocial(ctx, task, step)
	}
	return e.runGoal(ctx, task, step)
}

func sameCollaborator(agent browser.Agent, poster browser.Poster) bool {
	if poster == nil {
		return false
	}
	p, ok := agent.(browser.Poster)
	return ok && p == poster
}

func isSocialAction(action string) bool {
	return strings.HasPrefix(action, "post_") || action == "social_post"
}

// postSocial tries each poster in order and stops at the first success.
func (e *BrowserExecutor) postSocial(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	log := zerolog.Ctx(ctx)
	image := task.ContextString(domain.CtxGeneratedImage)
	caption := domain.Truncate(firstNonEmpty(
		task.ContextString("social_post"),
		task.ContextString(domain.CtxLatestContent),
		task.Description,
	), maxCaption)

	type attempt struct {
		method string
		post   func() (bool, error)
	}
	var attempts []attempt
	if e.cfg.Social != nil {
		attempts = append(attempts, attempt{MethodAIAgent, func() (bool, error) {
			return e.cfg.Social.PostToTwitter(ctx, image, caption)
		}})
	}
	if e.cfg.Service != nil {
		attempts = append(attempts, attempt{MethodService, func() (bool, error) {
			return e.cfg.Service.PostToTwitter(ctx, image, caption)
		}})
	}
	// the hosted agent may serve as both Social and Agent; one attempt is enough
	if e.cfg.Agent != nil && !sameCollaborator(e.cfg.Agent, e.cfg.Social) {
		attempts = append(attempts, attempt{MethodLLMAgent, func() (bool, error) {
			res, err := e.cfg.Agent.Execute(ctx, browser.TwitterGoal(image, caption), e.cfg.MaxSteps)
			if err != nil {
				return false, err
			}
			return res.Success, nil
		}})
	}
	if len(attempts) == 0 {
		return nil, fmt.Errorf("%w: no browser automation", aperrors.ErrConfiguration)
	}

	var errs []error
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := a.post()
		if err == nil && ok {
			post := domain.NewArtifact(domain.ArtifactSocialPost, step.Name).
				WithContent(caption).
				WithMeta("platform", "twitter").
				WithMeta("method", a.method)
			if image != "" {
				post.WithMeta("image_url", image)
			}
			return &domain.BrowserResult{
				StepOutput: domain.StepOutput{
					Artifacts: []*domain.Artifact{post},
					Message:   "posted to twitter via " + a.method,
				},
				Success: true,
				Detail:  "posted to twitter",
				Method:  a.method,
			}, nil
		}
		if err == nil {
			err = fmt.Errorf("%s reported no success", a.method)
		}
		log.Warn().Err(err).Str("method", a.method).Msg("social post attempt failed")
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: every posting method failed: %w", aperrors.ErrUpstream, errors.Join(errs...))
}

func (e *BrowserExecutor) runGoal(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	if e.cfg.Agent == nil {
		return nil, fmt.Errorf("%w: no browser agent", aperrors.ErrConfiguration)
	}
	res, err := e.cfg.Agent.Execute(ctx, describe(task, step), e.cfg.MaxSteps)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("%w: %s", aperrors.ErrBrowserAgent, domain.Truncate(res.Output, 200))
	}

	out := domain.NewArtifact(domain.ArtifactText, step.Name).
		WithContent(res.Output).
		WithMeta("method", MethodLLMAgent).
		WithMeta("steps", res.Steps)

	return &domain.BrowserResult{
		StepOutput: domain.StepOutput{
			Artifacts: []*domain.Artifact{out},
			Message:   fmt.Sprintf("browser goal reached in %d steps", res.Steps),
		},
		Success: true,
		Detail:  res.Output,
		Method:  MethodLLMAgent,
	}, nil
}
