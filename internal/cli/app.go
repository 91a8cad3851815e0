package cli

import (
	"context"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/tmc/langchaingo/llms"

	"github.com/mrz1836/adpilot/internal/ai"
	"github.com/mrz1836/adpilot/internal/artifact"
	"github.com/mrz1836/adpilot/internal/browser"
	"github.com/mrz1836/adpilot/internal/config"
	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/executor"
	"github.com/mrz1836/adpilot/internal/logging"
	"github.com/mrz1836/adpilot/internal/metrics"
	"github.com/mrz1836/adpilot/internal/planner"
	"github.com/mrz1836/adpilot/internal/publish"
	"github.com/mrz1836/adpilot/internal/task"
)

// App holds the collaborators commands work with.
type App struct {
	Config  *config.Config
	Planner task.Planner
	Engine  *task.Engine
	Store   task.Store
	Metrics *metrics.Prometheus
	Logger  zerolog.Logger
}

// AppFactory builds an App from configuration. Tests substitute fakes.
type AppFactory func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error)

// FlushMetrics writes the textfile metrics when a path is configured.
func (a *App) FlushMetrics() {
	if a.Metrics == nil || a.Config == nil || a.Config.Engine.MetricsTextfile == "" {
		return
	}
	if err := a.Metrics.WriteTextfile(a.Config.Engine.MetricsTextfile); err != nil {
		a.Logger.Warn().Err(err).Str("path", a.Config.Engine.MetricsTextfile).Msg("failed to write metrics textfile")
	}
}

// NewApp wires the production collaborators. Integrations whose credential
// variable is unset stay unwired; their steps fail with ErrConfiguration
// while the rest of the task proceeds.
func NewApp(_ context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	text, defaultModel := newTextModels(cfg.AI, logger)
	runner, media := newMediaClients(cfg.Media, logger)

	fs := afero.NewOsFs()
	fetcher := artifact.NewFetcher(fs, resty.New().SetTimeout(cfg.Artifacts.DownloadTimeout))

	renderDir, err := config.ResolveHome("", constants.RenderDir)
	if err != nil {
		return nil, err
	}

	registry := executor.NewRegistry()
	designer := executor.NewDesignerExecutor(nil, nil, cfg.Media.Models)
	video := executor.VideoExecutorConfig{
		Renderer:    executor.NewKenBurns(cfg.Video.FFmpegPath, cfg.Video.KenBurnsSeconds, renderDir, fetcher),
		Models:      cfg.Media.Models,
		AspectRatio: cfg.Video.AspectRatio,
	}
	if runner != nil {
		designer = executor.NewDesignerExecutor(media, runner, cfg.Media.Models)
		video.Videos = media
		video.Runner = runner
	}
	registry.Register(designer)
	registry.Register(executor.NewWriterExecutor(text))
	registry.Register(executor.NewMarketerExecutor(text, nil))
	registry.Register(executor.NewVideoExecutor(video))
	registry.Register(executor.NewPublisherExecutor(newPublisherConfig(cfg.Publishing, fetcher, logger)))
	registry.Register(executor.NewBrowserExecutor(newBrowserConfig(cfg.Browser, defaultModel, logger)))
	registry.Register(executor.NewGenericExecutor())

	planOpts := []planner.Option{
		planner.WithCacheSize(cfg.Planner.CacheSize),
		planner.WithMaxTokens(cfg.Planner.MaxTokens),
		planner.WithLogger(logger),
	}
	if cfg.Planner.UseAI && text.Default != nil {
		planOpts = append(planOpts, planner.WithGenerator(text.Default))
	}
	p := planner.New(planOpts...)

	prom := metrics.NewPrometheus()
	engineOpts := []task.EngineOption{task.WithMetrics(prom)}

	tasksRoot, err := config.TasksRoot(cfg)
	if err != nil {
		return nil, err
	}
	store, err := task.NewFileStore(tasksRoot)
	if err != nil {
		return nil, err
	}
	if cfg.Engine.Checkpoint {
		engineOpts = append(engineOpts, task.WithStore(store))
	}

	if cfg.Artifacts.Enabled {
		root, rootErr := config.ArtifactsRoot(cfg)
		if rootErr != nil {
			return nil, rootErr
		}
		engineOpts = append(engineOpts, task.WithArtifactStore(
			artifact.NewStore(fs, root, artifact.WithFetcher(fetcher), artifact.WithLogger(logger)),
		))
	}

	return &App{
		Config:  cfg,
		Planner: p,
		Engine:  task.NewEngine(p, registry, logger, engineOpts...),
		Store:   store,
		Metrics: prom,
		Logger:  logger,
	}, nil
}

// newTextModels builds the default generator plus one generator per named
// planner text model whose provider has a key. The default llms.Model is
// returned for the browser agent.
func newTextModels(cfg config.AIConfig, logger zerolog.Logger) (executor.TextModels, llms.Model) {
	models := executor.TextModels{Named: map[string]ai.TextGenerator{}}

	defaultModel, err := newModel(cfg, cfg.Provider, cfg.Model)
	if err != nil {
		logger.Debug().Err(err).Str("provider", cfg.Provider).Msg("text generation disabled")
	} else if defaultModel != nil {
		models.Default = ai.NewLangChainGenerator(defaultModel, logger)
	}

	for name, modelID := range cfg.Models {
		provider := providerForModel(name, cfg.Provider)
		m, err := newModel(cfg, provider, modelID)
		if err != nil || m == nil {
			logger.Debug().Str("model", name).Str("provider", provider).Msg("named text model unavailable")
			continue
		}
		models.Named[name] = ai.NewLangChainGenerator(m, logger)
	}
	return models, defaultModel
}

// newModel returns nil without error when the provider needs a key that is
// not set.
func newModel(cfg config.AIConfig, provider, modelID string) (llms.Model, error) {
	key := ""
	if envVar := cfg.APIKeyEnvVars[provider]; envVar != "" {
		key = os.Getenv(envVar)
		if key == "" {
			return nil, nil //nolint:nilnil // unset credential disables the provider
		}
	}
	baseURL := ""
	if provider == cfg.Provider {
		baseURL = cfg.BaseURL
	}
	return ai.NewModel(ai.ProviderConfig{Provider: provider, Model: modelID, APIKey: key, BaseURL: baseURL})
}

// providerForModel maps a planner text-model name to the provider serving it.
func providerForModel(name, fallback string) string {
	switch n := strings.ToLower(name); {
	case strings.Contains(n, "claude"):
		return ai.ProviderAnthropic
	case strings.HasPrefix(n, "gpt"), strings.HasPrefix(n, "o1"), strings.HasPrefix(n, "o3"):
		return ai.ProviderOpenAI
	case strings.Contains(n, "llama"), strings.Contains(n, "mixtral"):
		return ai.ProviderGroq
	default:
		return fallback
	}
}

func newMediaClients(cfg config.MediaConfig, logger zerolog.Logger) (ai.ModelRunner, *ai.MediaGenerator) {
	token := os.Getenv(cfg.TokenEnvVar)
	if token == "" {
		logger.Debug().Str("env", cfg.TokenEnvVar).Msg("media generation disabled")
		return nil, nil
	}
	client := ai.NewPredictionClient(cfg.BaseURL, token, logger,
		ai.WithPollInterval(cfg.PollInterval),
		ai.WithMediaTimeout(cfg.Timeout),
	)
	return client, ai.NewMediaGenerator(client, cfg.ImageModel, cfg.VideoModel)
}

func newPublisherConfig(cfg config.PublishingConfig, fetcher *artifact.Fetcher, logger zerolog.Logger) executor.PublisherExecutorConfig {
	out := executor.PublisherExecutorConfig{
		Fetcher: fetcher,
		Author:  cfg.Shopify.Author,
		Privacy: cfg.YouTube.Privacy,
	}
	if token := os.Getenv(cfg.Printify.TokenEnvVar); token != "" && cfg.Printify.ShopID != "" {
		out.Uploader = publish.NewPrintify(cfg.Printify.BaseURL, token, cfg.Printify.ShopID)
	}
	if token := os.Getenv(cfg.Shopify.TokenEnvVar); token != "" && cfg.Shopify.StoreURL != "" {
		out.Storefront = publish.NewShopify(cfg.Shopify.StoreURL, token, cfg.Shopify.BlogID, cfg.Shopify.APIVersion)
	}
	if token := os.Getenv(cfg.YouTube.TokenEnvVar); token != "" {
		out.VideoHost = publish.NewYouTube(cfg.YouTube.BaseURL, token, cfg.YouTube.CategoryID, logger)
	}
	logger.Debug().
		Bool("printify", out.Uploader != nil).
		Bool("shopify", out.Storefront != nil).
		Bool("youtube", out.VideoHost != nil).
		Str("shopify_store", logging.SafeURL(cfg.Shopify.StoreURL)).
		Msg("publishing integrations")
	return out
}

func newBrowserConfig(cfg config.BrowserConfig, model llms.Model, logger zerolog.Logger) executor.BrowserExecutorConfig {
	out := executor.BrowserExecutorConfig{MaxSteps: cfg.MaxSteps}

	var cloud *browser.CloudAgent
	if key := os.Getenv(cfg.CloudKeyEnvVar); key != "" {
		cloud = browser.NewCloudAgent(cfg.CloudBaseURL, key, cfg.PollInterval, cfg.Timeout, logger)
		out.Social = cloud
	}
	if cfg.ServiceURL != "" {
		service := browser.NewServiceClient(cfg.ServiceURL, os.Getenv(cfg.ServiceTokenEnvVar))
		out.Service = service
		if model != nil {
			out.Agent = browser.NewLLMAgent(model, service, logger)
		}
	}
	if out.Agent == nil && cloud != nil {
		out.Agent = cloud
	}
	return out
}
