package ai

import (
	"time"

	"github.com/mrz1836/adpilot/internal/constants"
)

// TextRequest is one text generation call.
type TextRequest struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// RequestOption is a functional option for configuring a TextRequest.
type RequestOption func(*TextRequest)

// NewTextRequest creates a TextRequest with the given prompt and optional configuration.
// Default values are applied for unspecified options.
//
// Example:
//
//	req := NewTextRequest("Write a tagline for a sun hat",
//	    WithMaxTokens(200),
//	    WithTemperature(0.8),
//	)
func NewTextRequest(prompt string, opts ...RequestOption) *TextRequest {
	req := &TextRequest{
		Prompt:      prompt,
		MaxTokens:   1500,
		Temperature: 0.7,
		Timeout:     constants.DefaultTextTimeout,
	}

	for _, opt := range opts {
		opt(req)
	}

	return req
}

// WithModel overrides the generator's default model for this call.
func WithModel(model string) RequestOption {
	return func(req *TextRequest) {
		req.Model = model
	}
}

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) RequestOption {
	return func(req *TextRequest) {
		req.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) RequestOption {
	return func(req *TextRequest) {
		req.Temperature = t
	}
}

// WithTimeout sets the maximum duration for the call.
// If not specified, defaults to constants.DefaultTextTimeout.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(req *TextRequest) {
		req.Timeout = timeout
	}
}
