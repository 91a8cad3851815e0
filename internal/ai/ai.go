// Package ai provides the generation collaborators used by the planner and
// the step executors.
//
// Text generation goes through langchaingo models (OpenAI, Anthropic, Ollama,
// and OpenAI-compatible endpoints). Image and video generation go through a
// hosted prediction API that accepts a model id plus an input map and is
// polled until the prediction settles.
//
// IMPORTANT: This package may import internal/constants, internal/errors and
// internal/domain. It MUST NOT import internal/task, internal/executor, or
// internal/cli.
package ai

import "context"

// TextGenerator generates text from a prompt.
type TextGenerator interface {
	// GenerateText returns the model's reply to req.
	// Errors are wrapped with errors.ErrUpstream.
	GenerateText(ctx context.Context, req *TextRequest) (string, error)
}

// ImageGenerator generates an image and returns its URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req *ImageRequest) (string, error)
}

// VideoGenerator generates a video and returns its URL.
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, req *VideoRequest) (string, error)
}

// ModelRunner runs a named hosted model with a provider-specific input map
// and returns the output URLs.
type ModelRunner interface {
	Run(ctx context.Context, modelID string, input map[string]any) ([]string, error)
}

// ImageRequest describes an image generation call.
type ImageRequest struct {
	Prompt      string
	Width       int
	Height      int
	AspectRatio string
}

// VideoRequest describes a default-provider video generation call.
type VideoRequest struct {
	Prompt      string
	ImageURL    string
	AspectRatio string
	MotionLevel int
}
