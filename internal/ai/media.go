package ai

import (
	"context"
	"fmt"

	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// Default hosted model ids for the default image and video paths.
const (
	DefaultImageModelID = "black-forest-labs/flux-schnell"
	DefaultVideoModelID = "minimax/video-01"
)

// MediaGenerator implements ImageGenerator and VideoGenerator with fixed
// default models on top of a ModelRunner.
type MediaGenerator struct {
	runner       ModelRunner
	imageModelID string
	videoModelID string
}

// NewMediaGenerator creates a MediaGenerator. Empty model ids fall back to the defaults.
func NewMediaGenerator(runner ModelRunner, imageModelID, videoModelID string) *MediaGenerator {
	if imageModelID == "" {
		imageModelID = DefaultImageModelID
	}
	if videoModelID == "" {
		videoModelID = DefaultVideoModelID
	}
	return &MediaGenerator{runner: runner, imageModelID: imageModelID, videoModelID: videoModelID}
}

// ImageModelID returns the model used for default image generation.
func (g *MediaGenerator) ImageModelID() string { return g.imageModelID }

// GenerateImage implements ImageGenerator.
func (g *MediaGenerator) GenerateImage(ctx context.Context, req *ImageRequest) (string, error) {
	input := map[string]any{"prompt": req.Prompt}
	if req.AspectRatio != "" {
		input["aspect_ratio"] = req.AspectRatio
	}
	if req.Width > 0 && req.Height > 0 {
		input["width"] = req.Width
		input["height"] = req.Height
	}
	return g.first(ctx, g.imageModelID, input)
}

// GenerateVideo implements VideoGenerator.
func (g *MediaGenerator) GenerateVideo(ctx context.Context, req *VideoRequest) (string, error) {
	input := map[string]any{"prompt": req.Prompt}
	if req.ImageURL != "" {
		input["first_frame_image"] = req.ImageURL
	}
	if req.AspectRatio != "" {
		input["aspect_ratio"] = req.AspectRatio
	}
	if req.MotionLevel > 0 {
		input["motion_level"] = req.MotionLevel
	}
	return g.first(ctx, g.videoModelID, input)
}

func (g *MediaGenerator) first(ctx context.Context, modelID string, input map[string]any) (string, error) {
	urls, err := g.runner.Run(ctx, modelID, input)
	if err != nil {
		return "", err
	}
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %s returned no output", aperrors.ErrUpstream, modelID)
	}
	return urls[0], nil
}
