// Package workflow detects which automation tool produced a workflow
// document and converts its nodes into adpilot's step vocabulary.
//
// Conversion is stateless. Every call parses the document afresh and
// returns a NormalizedWorkflow together with an Analysis; nothing is
// persisted.
//
// Import rules:
//   - CAN import: internal/clock, internal/errors, std lib
//   - MUST NOT import: internal/task, internal/executor, internal/cli
package workflow

import (
	"time"

	"github.com/tidwall/gjson"
)

// Platform tags the tool a workflow document came from.
type Platform string

// Recognized platforms.
const (
	PlatformN8N           Platform = "n8n"
	PlatformComfyUIGraph  Platform = "comfyui_graph"
	PlatformNodeRED       Platform = "node_red"
	PlatformHomeAssistant Platform = "home_assistant"
	PlatformMake          Platform = "make"
	PlatformActivepieces  Platform = "activepieces"
	PlatformWindmill      Platform = "windmill"
	PlatformPipedream     Platform = "pipedream"
	PlatformComfyUI       Platform = "comfyui"
	PlatformUnknown       Platform = "unknown"
)

// String returns the platform tag.
func (p Platform) String() string {
	return string(p)
}

// Kind is the structural role of a source node.
type Kind string

// Node kinds. Only actions become steps.
const (
	KindTrigger Kind = "trigger"
	KindAction  Kind = "action"
	KindLogic   Kind = "logic"
)

// Logic node flavours.
const (
	LogicCondition = "condition"
	LogicLoop      = "loop"
	LogicMerge     = "merge"
)

// Step categories.
const (
	CategoryImage        = "image"
	CategoryVideo        = "video"
	CategoryText         = "text"
	CategoryAudio        = "audio"
	CategoryPublish      = "publish"
	CategorySocial       = "social"
	CategoryEmail        = "email"
	CategoryNotification = "notification"
	CategoryStorage      = "storage"
	CategoryData         = "data"
	CategoryUtility      = "utility"
)

// Step types.
const (
	StepGenerateImage = "generate_image"
	StepGenerateVideo = "generate_video"
	StepGenerateText  = "generate_text"
	StepGenerateAudio = "generate_audio"
	StepPublish       = "publish"
	StepPostSocial    = "post_social"
	StepSendEmail     = "send_email"
	StepNotify        = "notify"
	StepStoreFile     = "store_file"
	StepLoadFile      = "load_file"
	StepLoadModel     = "load_model"
	StepTransform     = "transform"
	StepHTTPRequest   = "http_request"
	StepGeneric       = "generic"
	StepUnknown       = "unknown"
)

// UniversalNode is the platform-neutral view of one source node.
type UniversalNode struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Platform     Platform `json:"platform"`
	OriginalType string   `json:"original_type"`
	Kind         Kind     `json:"kind"`
	Logic        string   `json:"logic,omitempty"`
	Category     string   `json:"category,omitempty"`
	StepType     string   `json:"step_type,omitempty"`
	Intent       string   `json:"intent"`

	// Parameters is the node's configuration object in the source document.
	Parameters gjson.Result `json:"-"`
}

// NormalizedStep is one executable step of a converted workflow.
type NormalizedStep struct {
	ID          string         `json:"id" yaml:"id"`
	Category    string         `json:"category" yaml:"category"`
	Type        string         `json:"type" yaml:"type"`
	Config      map[string]any `json:"config" yaml:"config"`
	Enabled     bool           `json:"enabled" yaml:"enabled"`
	Description string         `json:"description" yaml:"description"`
}

// Schedule is a recurring trigger found in the source document.
type Schedule struct {
	Cron    string    `json:"cron" yaml:"cron"`
	NextRun time.Time `json:"next_run" yaml:"next_run"`
}

// Output names a step whose result leaves the workflow.
type Output struct {
	StepID   string `json:"step_id" yaml:"step_id"`
	Category string `json:"category" yaml:"category"`
}

// NormalizedWorkflow is the converter's output document.
type NormalizedWorkflow struct {
	Steps    []NormalizedStep `json:"steps" yaml:"steps"`
	Schedule *Schedule        `json:"schedule" yaml:"schedule"`
	Outputs  []Output         `json:"outputs" yaml:"outputs"`
	Source   Platform         `json:"source" yaml:"source"`
}

// Analysis summarizes a converted document.
type Analysis struct {
	Platform        Platform        `json:"platform" yaml:"platform"`
	NodeCount       int             `json:"node_count" yaml:"node_count"`
	StepCount       int             `json:"step_count" yaml:"step_count"`
	TriggerCount    int             `json:"trigger_count" yaml:"trigger_count"`
	Triggers        []string        `json:"triggers" yaml:"triggers"`
	HasConditions   bool            `json:"has_conditions" yaml:"has_conditions"`
	HasLoops        bool            `json:"has_loops" yaml:"has_loops"`
	HasAIGeneration bool            `json:"has_ai_generation" yaml:"has_ai_generation"`
	HasDistribution bool            `json:"has_distribution" yaml:"has_distribution"`
	HasAPICalls     bool            `json:"has_api_calls" yaml:"has_api_calls"`
	Prompts         []string        `json:"prompts" yaml:"prompts"`
	Models          []string        `json:"models" yaml:"models"`
	Intents         []string        `json:"intents" yaml:"intents"`
	Complexity      float64         `json:"complexity" yaml:"complexity"`
	Nodes           []UniversalNode `json:"nodes" yaml:"-"`
}
