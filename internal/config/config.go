// Package config provides configuration management for adpilot with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (ADPILOT_* prefix)
//  3. Project config (.adpilot/config.yaml)
//  4. Global config (~/.adpilot/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// Credentials never live in config files. Each integration names the
// environment variable that holds its secret, and the CLI resolves it once
// while wiring clients.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for adpilot.
type Config struct {
	// AI configures the text-generation provider used by the planner, writer,
	// marketer, and the generic browser agent.
	AI AIConfig `yaml:"ai" mapstructure:"ai"`

	// Media configures the hosted prediction API for images and video.
	Media MediaConfig `yaml:"media" mapstructure:"media"`

	// Video configures the local zoom/pan renderer.
	Video VideoConfig `yaml:"video" mapstructure:"video"`

	// Publishing configures the publishing integrations.
	Publishing PublishingConfig `yaml:"publishing" mapstructure:"publishing"`

	// Browser configures browser automation.
	Browser BrowserConfig `yaml:"browser" mapstructure:"browser"`

	// Artifacts configures local artifact persistence.
	Artifacts ArtifactsConfig `yaml:"artifacts" mapstructure:"artifacts"`

	// Engine configures task execution.
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`

	// Planner configures task planning.
	Planner PlannerConfig `yaml:"planner" mapstructure:"planner"`
}

// AIConfig contains settings for text generation.
type AIConfig struct {
	// Provider is one of openai, anthropic, ollama, groq.
	// Default: "openai"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Model is the provider's default model.
	// Default: "gpt-4o-mini"
	Model string `yaml:"model" mapstructure:"model"`

	// BaseURL overrides the provider endpoint (self-hosted or proxy).
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// APIKeyEnvVars maps provider names to the environment variable holding their key.
	// Defaults: {"openai": "OPENAI_API_KEY", "anthropic": "ANTHROPIC_API_KEY", "groq": "GROQ_API_KEY"}
	APIKeyEnvVars map[string]string `yaml:"api_key_env_vars" mapstructure:"api_key_env_vars"`

	// Timeout bounds a single text generation call.
	// Default: 2 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens caps each reply. Default: 1500
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Temperature is the default sampling temperature. Default: 0.7
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`

	// Models maps planner text-model names (claude, gpt-4o, llama) to provider model ids.
	Models map[string]string `yaml:"models" mapstructure:"models"`
}

// MediaConfig contains settings for the hosted prediction API.
type MediaConfig struct {
	// BaseURL is the prediction API root.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// TokenEnvVar names the environment variable holding the API token.
	// Default: "REPLICATE_API_TOKEN"
	TokenEnvVar string `yaml:"token_env_var" mapstructure:"token_env_var"`

	// ImageModel is the hosted model used for default image generation.
	ImageModel string `yaml:"image_model" mapstructure:"image_model"`

	// VideoModel is the hosted model used for default video generation.
	VideoModel string `yaml:"video_model" mapstructure:"video_model"`

	// Models maps planner model names (flux-schnell, veo, kling, ...) to hosted model ids.
	Models map[string]string `yaml:"models" mapstructure:"models"`

	// PollInterval is the interval between prediction status checks. Default: 3s
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// Timeout bounds one prediction including polling. Default: 15 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// VideoConfig contains settings for the local renderer and video defaults.
type VideoConfig struct {
	// FFmpegPath is the ffmpeg binary. Default: "ffmpeg"
	FFmpegPath string `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`

	// KenBurnsSeconds is the clip length of a local zoom/pan render. Default: 6
	KenBurnsSeconds int `yaml:"ken_burns_seconds" mapstructure:"ken_burns_seconds"`

	// AspectRatio is passed to hosted providers. Default: "16:9"
	AspectRatio string `yaml:"aspect_ratio" mapstructure:"aspect_ratio"`
}

// PublishingConfig groups the publishing integrations. An integration is
// enabled when its credential environment variable is set.
type PublishingConfig struct {
	Printify PrintifyConfig `yaml:"printify" mapstructure:"printify"`
	Shopify  ShopifyConfig  `yaml:"shopify" mapstructure:"shopify"`
	YouTube  YouTubeConfig  `yaml:"youtube" mapstructure:"youtube"`
}

// PrintifyConfig configures the print-on-demand integration.
type PrintifyConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TokenEnvVar string `yaml:"token_env_var" mapstructure:"token_env_var"`
	ShopID      string `yaml:"shop_id" mapstructure:"shop_id"`
}

// ShopifyConfig configures the storefront integration.
type ShopifyConfig struct {
	StoreURL    string `yaml:"store_url" mapstructure:"store_url"`
	TokenEnvVar string `yaml:"token_env_var" mapstructure:"token_env_var"`
	BlogID      string `yaml:"blog_id" mapstructure:"blog_id"`
	APIVersion  string `yaml:"api_version" mapstructure:"api_version"`
	Author      string `yaml:"author" mapstructure:"author"`
}

// YouTubeConfig configures the video-hosting integration.
type YouTubeConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TokenEnvVar string `yaml:"token_env_var" mapstructure:"token_env_var"`
	CategoryID  string `yaml:"category_id" mapstructure:"category_id"`
	Privacy     string `yaml:"privacy" mapstructure:"privacy"`
}

// BrowserConfig contains settings for browser automation.
type BrowserConfig struct {
	// CloudBaseURL is the hosted AI browser agent API.
	CloudBaseURL string `yaml:"cloud_base_url" mapstructure:"cloud_base_url"`

	// CloudKeyEnvVar names the variable holding the hosted agent key.
	CloudKeyEnvVar string `yaml:"cloud_key_env_var" mapstructure:"cloud_key_env_var"`

	// ServiceURL is the self-hosted automation service. Empty disables it.
	ServiceURL string `yaml:"service_url" mapstructure:"service_url"`

	// ServiceTokenEnvVar names the variable holding the service token.
	ServiceTokenEnvVar string `yaml:"service_token_env_var" mapstructure:"service_token_env_var"`

	// MaxSteps caps the generic agent's tool-use loop. Default: 15
	MaxSteps int `yaml:"max_steps" mapstructure:"max_steps"`

	// Timeout bounds one browser run. Default: 10 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// PollInterval is the hosted agent status interval. Default: 3s
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
}

// ArtifactsConfig contains settings for artifact persistence.
type ArtifactsConfig struct {
	// Enabled turns persistence on. Default: true
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Root is the artifact directory. Empty means ~/.adpilot/artifacts.
	Root string `yaml:"root" mapstructure:"root"`

	// DownloadTimeout bounds one media download. Default: 60s
	DownloadTimeout time.Duration `yaml:"download_timeout" mapstructure:"download_timeout"`
}

// EngineConfig contains settings for task execution.
type EngineConfig struct {
	// BatchWorkers is the size of the batch worker pool. Default: 3
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`

	// Checkpoint saves task state after every step. Default: true
	Checkpoint bool `yaml:"checkpoint" mapstructure:"checkpoint"`

	// TasksDir is the checkpoint directory. Empty means ~/.adpilot/tasks.
	TasksDir string `yaml:"tasks_dir" mapstructure:"tasks_dir"`

	// MetricsTextfile, when set, receives Prometheus metrics after each run
	// in the node_exporter textfile format.
	MetricsTextfile string `yaml:"metrics_textfile" mapstructure:"metrics_textfile"`
}

// PlannerConfig contains settings for task planning.
type PlannerConfig struct {
	// UseAI enables the AI planning path. Default: true
	UseAI bool `yaml:"use_ai" mapstructure:"use_ai"`

	// CacheSize is the number of cached plans; 0 disables the cache. Default: 128
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`

	// MaxTokens caps the planning reply. Default: 2000
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}
