package config

import "github.com/mrz1836/adpilot/internal/constants"

// DefaultAPIKeyEnvVars returns the standard key variables per text provider.
func DefaultAPIKeyEnvVars() map[string]string {
	return map[string]string{
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
		"groq":      "GROQ_API_KEY",
	}
}

// DefaultMediaModels maps planner model names to hosted model ids.
func DefaultMediaModels() map[string]string {
	return map[string]string{
		"flux-schnell": "black-forest-labs/flux-schnell",
		"ideogram":     "ideogram-ai/ideogram-v2",
		"dall-e":       "openai/dall-e-3",
		"veo":          "google/veo-3",
		"kling":        "kwaivgi/kling-v2.1",
		"minimax":      "minimax/video-01",
		"luma":         "luma/ray",
	}
}

// DefaultTextModels maps planner text-model names to provider model ids.
func DefaultTextModels() map[string]string {
	return map[string]string{
		"claude": "claude-sonnet-4-5",
		"gpt-4o": "gpt-4o",
		"llama":  "llama-3.3-70b-versatile",
	}
}

// DefaultConfig returns a new Config with default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:      "openai",
			Model:         "gpt-4o-mini",
			APIKeyEnvVars: DefaultAPIKeyEnvVars(),
			Timeout:       constants.DefaultTextTimeout,
			MaxTokens:     1500,
			Temperature:   0.7,
			Models:        DefaultTextModels(),
		},
		Media: MediaConfig{
			BaseURL:      "https://api.replicate.com/v1",
			TokenEnvVar:  "REPLICATE_API_TOKEN",
			ImageModel:   "black-forest-labs/flux-schnell",
			VideoModel:   "minimax/video-01",
			Models:       DefaultMediaModels(),
			PollInterval: constants.DefaultPollInterval,
			Timeout:      constants.DefaultMediaTimeout,
		},
		Video: VideoConfig{
			FFmpegPath:      "ffmpeg",
			KenBurnsSeconds: constants.DefaultKenBurnsSeconds,
			AspectRatio:     "16:9",
		},
		Publishing: PublishingConfig{
			Printify: PrintifyConfig{
				BaseURL:     "https://api.printify.com/v1",
				TokenEnvVar: "PRINTIFY_API_TOKEN",
			},
			Shopify: ShopifyConfig{
				TokenEnvVar: "SHOPIFY_ACCESS_TOKEN",
				APIVersion:  "2024-10",
				Author:      "adpilot",
			},
			YouTube: YouTubeConfig{
				BaseURL:     "https://www.googleapis.com/upload/youtube/v3",
				TokenEnvVar: "YOUTUBE_ACCESS_TOKEN",
				CategoryID:  "22",
				Privacy:     "private",
			},
		},
		Browser: BrowserConfig{
			CloudBaseURL:       "https://api.browser-use.com/api/v1",
			CloudKeyEnvVar:     "BROWSER_USE_API_KEY",
			ServiceTokenEnvVar: "BROWSER_SERVICE_TOKEN",
			MaxSteps:           constants.DefaultBrowserMaxSteps,
			Timeout:            constants.DefaultBrowserTimeout,
			PollInterval:       constants.DefaultPollInterval,
		},
		Artifacts: ArtifactsConfig{
			Enabled:         true,
			DownloadTimeout: constants.DefaultHTTPTimeout,
		},
		Engine: EngineConfig{
			BatchWorkers: constants.DefaultBatchWorkers,
			Checkpoint:   true,
		},
		Planner: PlannerConfig{
			UseAI:     true,
			CacheSize: constants.DefaultPlanCacheSize,
			MaxTokens: 2000,
		},
	}
}

// setDefaults mirrors DefaultConfig onto a Viper instance.
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v viperSetter) {
	d := DefaultConfig()

	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.api_key_env_vars", d.AI.APIKeyEnvVars)
	v.SetDefault("ai.timeout", d.AI.Timeout.String())
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)
	v.SetDefault("ai.temperature", d.AI.Temperature)
	v.SetDefault("ai.models", d.AI.Models)

	v.SetDefault("media.base_url", d.Media.BaseURL)
	v.SetDefault("media.token_env_var", d.Media.TokenEnvVar)
	v.SetDefault("media.image_model", d.Media.ImageModel)
	v.SetDefault("media.video_model", d.Media.VideoModel)
	v.SetDefault("media.models", d.Media.Models)
	v.SetDefault("media.poll_interval", d.Media.PollInterval.String())
	v.SetDefault("media.timeout", d.Media.Timeout.String())

	v.SetDefault("video.ffmpeg_path", d.Video.FFmpegPath)
	v.SetDefault("video.ken_burns_seconds", d.Video.KenBurnsSeconds)
	v.SetDefault("video.aspect_ratio", d.Video.AspectRatio)

	v.SetDefault("publishing.printify.base_url", d.Publishing.Printify.BaseURL)
	v.SetDefault("publishing.printify.token_env_var", d.Publishing.Printify.TokenEnvVar)
	v.SetDefault("publishing.printify.shop_id", "")
	v.SetDefault("publishing.shopify.store_url", "")
	v.SetDefault("publishing.shopify.token_env_var", d.Publishing.Shopify.TokenEnvVar)
	v.SetDefault("publishing.shopify.blog_id", "")
	v.SetDefault("publishing.shopify.api_version", d.Publishing.Shopify.APIVersion)
	v.SetDefault("publishing.shopify.author", d.Publishing.Shopify.Author)
	v.SetDefault("publishing.youtube.base_url", d.Publishing.YouTube.BaseURL)
	v.SetDefault("publishing.youtube.token_env_var", d.Publishing.YouTube.TokenEnvVar)
	v.SetDefault("publishing.youtube.category_id", d.Publishing.YouTube.CategoryID)
	v.SetDefault("publishing.youtube.privacy", d.Publishing.YouTube.Privacy)

	v.SetDefault("browser.cloud_base_url", d.Browser.CloudBaseURL)
	v.SetDefault("browser.cloud_key_env_var", d.Browser.CloudKeyEnvVar)
	v.SetDefault("browser.service_url", "")
	v.SetDefault("browser.service_token_env_var", d.Browser.ServiceTokenEnvVar)
	v.SetDefault("browser.max_steps", d.Browser.MaxSteps)
	v.SetDefault("browser.timeout", d.Browser.Timeout.String())
	v.SetDefault("browser.poll_interval", d.Browser.PollInterval.String())

	v.SetDefault("artifacts.enabled", d.Artifacts.Enabled)
	v.SetDefault("artifacts.root", "")
	v.SetDefault("artifacts.download_timeout", d.Artifacts.DownloadTimeout.String())

	v.SetDefault("engine.batch_workers", d.Engine.BatchWorkers)
	v.SetDefault("engine.checkpoint", d.Engine.Checkpoint)
	v.SetDefault("engine.tasks_dir", "")
	v.SetDefault("engine.metrics_textfile", "")

	v.SetDefault("planner.use_ai", d.Planner.UseAI)
	v.SetDefault("planner.cache_size", d.Planner.CacheSize)
	v.SetDefault("planner.max_tokens", d.Planner.MaxTokens)
}

// viperSetter is the subset of *viper.Viper used by setDefaults.
type viperSetter interface {
	SetDefault(key string, value any)
}
