package config

import (
	"strings"
	"time"

	"github.com/mrz1836/adpilot/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - ai.provider must be a supported provider
//   - ai.timeout, media.timeout and browser.timeout must be positive
//   - media.poll_interval must be between 100ms and 1 minute
//   - engine.batch_workers must be between 1 and 64
//   - planner.cache_size must not be negative
//   - video.ken_burns_seconds must be between 1 and 60
//   - browser.max_steps must be between 1 and 100
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateAIConfig(&cfg.AI); err != nil {
		return err
	}
	if err := validateMediaConfig(&cfg.Media); err != nil {
		return err
	}
	if cfg.Video.KenBurnsSeconds < 1 || cfg.Video.KenBurnsSeconds > 60 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"video.ken_burns_seconds must be between 1 and 60, got %d", cfg.Video.KenBurnsSeconds)
	}
	if err := validateBrowserConfig(&cfg.Browser); err != nil {
		return err
	}
	if cfg.Engine.BatchWorkers < 1 || cfg.Engine.BatchWorkers > 64 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"engine.batch_workers must be between 1 and 64, got %d", cfg.Engine.BatchWorkers)
	}
	if cfg.Planner.CacheSize < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"planner.cache_size cannot be negative, got %d", cfg.Planner.CacheSize)
	}

	return nil
}

func validateAIConfig(cfg *AIConfig) error {
	switch strings.ToLower(cfg.Provider) {
	case "openai", "anthropic", "ollama", "groq":
	default:
		return errors.Wrapf(errors.ErrConfigInvalid,
			"ai.provider must be one of openai, anthropic, ollama, groq, got %q", cfg.Provider)
	}

	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"ai.timeout must be positive, got %s", cfg.Timeout)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"ai.temperature must be between 0 and 2, got %g", cfg.Temperature)
	}

	return nil
}

func validateMediaConfig(cfg *MediaConfig) error {
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"media.timeout must be positive, got %s", cfg.Timeout)
	}

	minPollInterval := 100 * time.Millisecond
	maxPollInterval := time.Minute
	if cfg.PollInterval < minPollInterval || cfg.PollInterval > maxPollInterval {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"media.poll_interval must be between %s and %s, got %s",
			minPollInterval, maxPollInterval, cfg.PollInterval)
	}

	return nil
}

func validateBrowserConfig(cfg *BrowserConfig) error {
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"browser.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.MaxSteps < 1 || cfg.MaxSteps > 100 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"browser.max_steps must be between 1 and 100, got %d", cfg.MaxSteps)
	}
	return nil
}
