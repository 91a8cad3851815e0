package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/mrz1836/adpilot/internal/ctxutil"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// Supported text providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderGroq      = "groq"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// ProviderConfig selects and configures a langchaingo model.
type ProviderConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewModel creates a langchaingo model for the configured provider.
func NewModel(p ProviderConfig) (llms.Model, error) {
	switch strings.ToLower(p.Provider) {
	case ProviderOpenAI:
		return newOpenAI(p, p.BaseURL)
	case ProviderGroq:
		baseURL := groqBaseURL
		if p.BaseURL != "" {
			baseURL = p.BaseURL
		}
		return newOpenAI(p, baseURL)
	case ProviderAnthropic:
		opts := []anthropic.Option{anthropic.WithModel(p.Model)}
		if p.APIKey != "" {
			opts = append(opts, anthropic.WithToken(p.APIKey))
		}
		if p.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(p.BaseURL))
		}
		return anthropic.New(opts...)
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(p.Model)}
		if p.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(p.BaseURL))
		}
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", aperrors.ErrUnsupportedProvider, p.Provider)
	}
}

func newOpenAI(p ProviderConfig, baseURL string) (llms.Model, error) {
	opts := []openai.Option{openai.WithModel(p.Model)}
	if p.APIKey != "" {
		opts = append(opts, openai.WithToken(p.APIKey))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	return openai.New(opts...)
}

// LangChainGenerator implements TextGenerator over a langchaingo model.
type LangChainGenerator struct {
	model  llms.Model
	logger zerolog.Logger
}

// NewLangChainGenerator wraps model.
func NewLangChainGenerator(model llms.Model, logger zerolog.Logger) *LangChainGenerator {
	return &LangChainGenerator{model: model, logger: logger}
}

// GenerateText implements TextGenerator.
func (g *LangChainGenerator) GenerateText(ctx context.Context, req *TextRequest) (string, error) {
	ctx, cancel := ctxutil.WithTimeout(ctx, req.Timeout)
	defer cancel()

	opts := []llms.CallOption{
		llms.WithMaxTokens(req.MaxTokens),
		llms.WithTemperature(req.Temperature),
	}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}

	g.logger.Debug().
		Str("model", req.Model).
		Int("prompt_length", len(req.Prompt)).
		Msg("generating text")

	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, req.Prompt, opts...)
	if err != nil {
		return "", aperrors.Wrap(fmt.Errorf("%w: %w", aperrors.ErrUpstream, err), "text generation")
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%w: text generation returned an empty reply", aperrors.ErrUpstream)
	}
	return out, nil
}
