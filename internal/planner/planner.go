// Package planner turns a free-text campaign request into a structured plan.
//
// The primary path asks a text generator for a JSON plan. Any failure on that
// path (no generator, call error, unparsable reply, invalid plan) falls back
// to a deterministic keyword heuristic, so Plan never fails. Explicit model
// preferences are always detected from the request text and fill whatever the
// AI plan left empty.
package planner

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/mrz1836/adpilot/internal/ai"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/jsonutil"
	"github.com/mrz1836/adpilot/internal/prompts"
)

// Planner produces plans for task descriptions.
type Planner struct {
	gen       ai.TextGenerator
	cache     *lru.Cache[string, domain.PlanResult]
	validate  *validator.Validate
	maxTokens int
	logger    zerolog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithGenerator enables the AI planning path.
func WithGenerator(gen ai.TextGenerator) Option {
	return func(p *Planner) {
		p.gen = gen
	}
}

// WithCacheSize caches up to n AI plans keyed by normalized description.
// Zero disables caching.
func WithCacheSize(n int) Option {
	return func(p *Planner) {
		if n <= 0 {
			p.cache = nil
			return
		}
		c, err := lru.New[string, domain.PlanResult](n)
		if err == nil {
			p.cache = c
		}
	}
}

// WithMaxTokens caps the planning reply.
func WithMaxTokens(n int) Option {
	return func(p *Planner) {
		p.maxTokens = n
	}
}

// WithLogger sets the planner logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// New creates a Planner. Without WithGenerator it only uses the heuristic.
func New(opts ...Option) *Planner {
	p := &Planner{
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		maxTokens: 2000,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan returns a plan for description. It never fails.
func (p *Planner) Plan(ctx context.Context, description string) domain.PlanResult {
	detected := DetectModelPreferences(description)

	plan, err := p.planWithAI(ctx, description)
	if err != nil {
		p.logger.Warn().Err(err).Msg("AI planning unavailable, using keyword heuristic")
		plan = Heuristic(description)
	}

	plan.ModelPreferences.FillGaps(detected)
	return plan
}

func (p *Planner) planWithAI(ctx context.Context, description string) (domain.PlanResult, error) {
	if p.gen == nil {
		return domain.PlanResult{}, fmt.Errorf("%w: no text generator", aperrors.ErrConfiguration)
	}

	key := cacheKey(description)
	if p.cache != nil {
		if cached, ok := p.cache.Get(key); ok {
			p.logger.Debug().Msg("plan cache hit")
			return clonePlan(cached), nil
		}
	}

	prompt, err := prompts.Render(prompts.TaskPlan, prompts.PlanData{
		Description: description,
		Agents:      agentNames(),
		ImageModels: ImageModelNames(),
		VideoModels: VideoModelNames(),
		TextModels:  TextModelNames(),
	})
	if err != nil {
		return domain.PlanResult{}, err
	}

	reply, err := p.gen.GenerateText(ctx, ai.NewTextRequest(prompt,
		ai.WithMaxTokens(p.maxTokens),
		ai.WithTemperature(0.2),
	))
	if err != nil {
		return domain.PlanResult{}, err
	}

	plan, ok := jsonutil.DecodeObject[domain.PlanResult](reply)
	if !ok {
		return domain.PlanResult{}, fmt.Errorf("%w: reply contained no JSON plan", aperrors.ErrInvalidPlan)
	}

	normalize(&plan, description)
	if err := p.check(&plan); err != nil {
		return domain.PlanResult{}, err
	}

	if p.cache != nil {
		p.cache.Add(key, clonePlan(plan))
	}
	return plan, nil
}

// check validates struct constraints and dependency ordering.
func (p *Planner) check(plan *domain.PlanResult) error {
	if err := p.validate.Struct(plan); err != nil {
		return fmt.Errorf("%w: %w", aperrors.ErrInvalidPlan, err)
	}
	return CheckDependencies(plan.Steps)
}

// CheckDependencies reports an ErrInvalidPlan when a step index repeats or a
// step depends on itself, a later step, or an index that does not exist.
func CheckDependencies(steps []domain.PlanStep) error {
	seen := make(map[int]bool, len(steps))
	for _, s := range steps {
		if seen[s.StepIndex] {
			return fmt.Errorf("%w: duplicate step_index %d", aperrors.ErrInvalidPlan, s.StepIndex)
		}
		for _, dep := range s.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("%w: step %d depends on %d, which is not an earlier step",
					aperrors.ErrInvalidPlan, s.StepIndex, dep)
			}
		}
		seen[s.StepIndex] = true
	}
	return nil
}

// normalize fills defaults an AI plan may omit.
func normalize(plan *domain.PlanResult, description string) {
	plan.Source = domain.PlanSourceAI
	if plan.Goal == "" {
		plan.Goal = description
	}
	for i := range plan.Steps {
		s := &plan.Steps[i]
		if s.StepIndex == 0 {
			s.StepIndex = i + 1
		}
		s.Agent = domain.ParseAgent(s.Agent).String()
		if s.Description == "" {
			s.Description = description
		}
	}

	targets := append([]string(nil), plan.PublishTo...)
	agents := append([]string(nil), plan.AgentsNeeded...)
	for _, s := range plan.Steps {
		if t, ok := strings.CutPrefix(s.Action, "publish_"); ok {
			targets = append(targets, t)
		}
		agents = append(agents, s.Agent)
	}
	plan.PublishTo = sortedSet(targets)
	plan.AgentsNeeded = orderedSet(agents)
}

func agentNames() []string {
	agents := domain.PlannableAgents()
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.String()
	}
	return names
}

func cacheKey(description string) string {
	return strings.ToLower(strings.Join(strings.Fields(description), " "))
}

func clonePlan(p domain.PlanResult) domain.PlanResult {
	out := p
	out.AgentsNeeded = slices.Clone(p.AgentsNeeded)
	out.PublishTo = slices.Clone(p.PublishTo)
	out.Steps = make([]domain.PlanStep, len(p.Steps))
	for i, s := range p.Steps {
		s.DependsOn = slices.Clone(s.DependsOn)
		out.Steps[i] = s
	}
	return out
}

func sortedSet(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.ToLower(strings.TrimSpace(it))
		if it != "" {
			out = append(out, it)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func orderedSet(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
