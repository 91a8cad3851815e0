package domain

// PlanSource records which planning path produced a plan.
type PlanSource string

// Plan sources.
const (
	PlanSourceAI        PlanSource = "ai"
	PlanSourceHeuristic PlanSource = "heuristic"
)

// Context keys shared between the planner, the engine, and the executors.
const (
	CtxImageModel      = "image_model"
	CtxImageModelName  = "image_model_name"
	CtxVideoModel      = "video_model"
	CtxVideoModelName  = "video_model_name"
	CtxTextModel       = "text_model"
	CtxTextModelName   = "text_model_name"
	CtxGeneratedImage  = "generated_image"
	CtxGeneratedVideo  = "generated_video"
	CtxDesignPrompt    = "design_prompt"
	CtxLatestContent   = "latest_content"
	CtxFirstFrameImage = "first_frame_image"
	CtxProductName     = "product_name"
)

// PlanResult is the structured output of the planner.
type PlanResult struct {
	Summary              string           `json:"summary" yaml:"summary"`
	Goal                 string           `json:"goal" yaml:"goal"`
	AgentsNeeded         []string         `json:"agents_needed" yaml:"agents_needed"`
	PublishTo            []string         `json:"publish_to" yaml:"publish_to"`
	ModelPreferences     ModelPreferences `json:"model_preferences" yaml:"model_preferences"`
	Steps                []PlanStep       `json:"steps" yaml:"steps" validate:"required,min=1,dive"`
	EstimatedTime        string           `json:"estimated_time,omitempty" yaml:"estimated_time,omitempty"`
	RequiresConfirmation bool             `json:"requires_confirmation" yaml:"requires_confirmation"`
	Source               PlanSource       `json:"source,omitempty" yaml:"source,omitempty"`
}

// PlanStep is one step definition inside a plan. DependsOn holds step_index
// values of earlier steps.
type PlanStep struct {
	StepIndex   int    `json:"step_index" yaml:"step_index" validate:"gte=1"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description" yaml:"description"`
	Agent       string `json:"agent" yaml:"agent" validate:"required,oneof=designer writer video publisher browser marketer generic"`
	Action      string `json:"action" yaml:"action"`
	DependsOn   []int  `json:"depends_on" yaml:"depends_on"`
}

// ModelPreferences are explicit model choices detected in, or planned for, a task.
type ModelPreferences struct {
	ImageModel     string `json:"image_model,omitempty" yaml:"image_model,omitempty"`
	ImageModelName string `json:"image_model_name,omitempty" yaml:"image_model_name,omitempty"`
	VideoModel     string `json:"video_model,omitempty" yaml:"video_model,omitempty"`
	VideoModelName string `json:"video_model_name,omitempty" yaml:"video_model_name,omitempty"`
	TextModel      string `json:"text_model,omitempty" yaml:"text_model,omitempty"`
	TextModelName  string `json:"text_model_name,omitempty" yaml:"text_model_name,omitempty"`
}

// FillGaps copies every field of other into p that p leaves empty.
func (p *ModelPreferences) FillGaps(other ModelPreferences) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&p.ImageModel, other.ImageModel)
	fill(&p.ImageModelName, other.ImageModelName)
	fill(&p.VideoModel, other.VideoModel)
	fill(&p.VideoModelName, other.VideoModelName)
	fill(&p.TextModel, other.TextModel)
	fill(&p.TextModelName, other.TextModelName)
}

// IsZero reports whether no preference is set.
func (p ModelPreferences) IsZero() bool {
	return p == ModelPreferences{}
}

// ContextValues returns the non-empty preferences keyed by their task context names.
func (p ModelPreferences) ContextValues() map[string]any {
	out := make(map[string]any)
	set := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	set(CtxImageModel, p.ImageModel)
	set(CtxImageModelName, p.ImageModelName)
	set(CtxVideoModel, p.VideoModel)
	set(CtxVideoModelName, p.VideoModelName)
	set(CtxTextModel, p.TextModel)
	set(CtxTextModelName, p.TextModelName)
	return out
}
