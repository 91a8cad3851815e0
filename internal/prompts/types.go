package prompts

// PromptID identifies a specific prompt template.
type PromptID string

// Prompt identifiers for all AI prompts in adpilot.
const (
	// Planning
	TaskPlan PromptID = "planner/task_plan"

	// Image prompts, one per designer action
	DesignGeneric     PromptID = "designer/generate_design"
	DesignThumbnail   PromptID = "designer/thumbnail"
	DesignSocialImage PromptID = "designer/social_image"

	// Text prompts, one per writer action
	WriterProductDescription PromptID = "writer/product_description"
	WriterVideoScript        PromptID = "writer/video_script"
	WriterBlogPost           PromptID = "writer/blog_post"
	WriterSocialPost         PromptID = "writer/social_post"
	WriterMarketingCopy      PromptID = "writer/marketing_copy"
	WriterGeneric            PromptID = "writer/generic"

	// Multi-platform campaign copy
	MarketerCampaign PromptID = "marketer/campaign"

	// Video motion prompt
	VideoMotion PromptID = "video/motion"

	// Video-hosting description
	YouTubeDescription PromptID = "publisher/youtube_description"
)

// PlanData contains input data for the planning prompt.
type PlanData struct {
	Description string
	Agents      []string
	ImageModels []string
	VideoModels []string
	TextModels  []string
}

// DesignData contains input data for the designer prompts.
type DesignData struct {
	Description string
	StepName    string
}

// WriterData contains input data for the writer prompts.
type WriterData struct {
	Description    string
	StepName       string
	GeneratedImage string
}

// MarketerData contains input data for the campaign copy prompt.
type MarketerData struct {
	Description string
	Platforms   []string
}

// VideoData contains input data for the video motion prompt.
type VideoData struct {
	Description  string
	DesignPrompt string
}

// YouTubeData contains input data for the video description.
type YouTubeData struct {
	ProductName string
	Description string
	Copy        string
	Tags        []string
}
