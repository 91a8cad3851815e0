package executor

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/mrz1836/adpilot/internal/artifact"
	"github.com/mrz1836/adpilot/internal/ctxutil"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/prompts"
	"github.com/mrz1836/adpilot/internal/publish"
)

const maxVideoTitle = 100

// PublisherExecutorConfig holds the publishing integrations. Unset
// integrations make their steps fail with ErrConfiguration.
type PublisherExecutorConfig struct {
	Uploader   publish.ImageUploader
	Storefront publish.Storefront
	VideoHost  publish.VideoHost
	Fetcher    *artifact.Fetcher

	// Author signs storefront blog articles.
	Author string

	// Privacy of uploaded commercials (private, unlisted, public).
	Privacy string
}

// PublisherExecutor pushes artifacts to e-commerce and video-hosting targets.
type PublisherExecutor struct {
	cfg PublisherExecutorConfig
}

// NewPublisherExecutor creates a publisher.
func NewPublisherExecutor(cfg PublisherExecutorConfig) *PublisherExecutor {
	if cfg.Fetcher == nil {
		cfg.Fetcher = artifact.NewFetcher(afero.NewOsFs(), nil)
	}
	return &PublisherExecutor{cfg: cfg}
}

// Agent implements StepExecutor.
func (e *PublisherExecutor) Agent() domain.Agent { return domain.AgentPublisher }

// Execute implements StepExecutor.
func (e *PublisherExecutor) Execute(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	switch target := publishTarget(step); target {
	case publish.TargetPrintify:
		return e.printify(ctx, task, step)
	case publish.TargetShopify:
		return e.shopify(ctx, task, step)
	case publish.TargetYouTube:
		return e.youtube(ctx, task, step)
	default:
		return nil, fmt.Errorf("%w: no publishing target for step %q", aperrors.ErrConfiguration, step.Name)
	}
}

// publishTarget reads the target from a publish_<target> action, falling
// back to keywords in the step text.
func publishTarget(step *domain.Step) string {
	if t, ok := strings.CutPrefix(step.Action, "publish_"); ok {
		return t
	}
	text := strings.ToLower(step.Name + " " + step.Description)
	switch {
	case strings.Contains(text, "printify"):
		return publish.TargetPrintify
	case strings.Contains(text, "youtube"):
		return publish.TargetYouTube
	case strings.Contains(text, "shop") || strings.Contains(text, "store") || strings.Contains(text, "blog"):
		return publish.TargetShopify
	}
	return ""
}

func (e *PublisherExecutor) printify(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	if e.cfg.Uploader == nil {
		return nil, fmt.Errorf("%w: printify", aperrors.ErrConfiguration)
	}
	image := task.ContextString(domain.CtxGeneratedImage)
	if image == "" {
		return nil, fmt.Errorf("%w: printify upload needs a generated image", aperrors.ErrMissingInput)
	}
	data, err := e.fetcher().Fetch(ctx, image)
	if err != nil {
		return nil, err
	}

	up, err := e.cfg.Uploader.UploadImage(ctx, data, publish.Filename(productName(task), ".png"))
	if err != nil {
		return nil, err
	}

	receipt := domain.NewArtifact(domain.ArtifactUpload, step.Name).
		WithURL(up.PreviewURL).
		WithMeta("platform", publish.TargetPrintify).
		WithMeta("remote_id", up.ID).
		WithMeta("file_name", up.FileName)

	return &domain.PublishResult{
		StepOutput: domain.StepOutput{
			Artifacts:      []*domain.Artifact{receipt},
			ContextUpdates: map[string]any{"printify_image_id": up.ID},
			Message:        "uploaded design to printify",
		},
		Platform: publish.TargetPrintify,
		RemoteID: up.ID,
		URL:      up.PreviewURL,
	}, nil
}

func (e *PublisherExecutor) shopify(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	if e.cfg.Storefront == nil {
		return nil, fmt.Errorf("%w: shopify", aperrors.ErrConfiguration)
	}

	text := strings.ToLower(step.Name + " " + step.Description)
	image := task.ContextString(domain.CtxGeneratedImage)
	name := productName(task)

	var (
		pub  *publish.Published
		kind domain.ArtifactType
		err  error
	)
	if strings.Contains(text, "blog") || strings.Contains(text, "article") {
		body := firstNonEmpty(task.ContextString("blog_post"), task.ContextString(domain.CtxLatestContent), task.Description)
		kind = domain.ArtifactBlog
		pub, err = e.cfg.Storefront.CreateBlogPost(ctx, &publish.BlogPost{
			Title:    titleFrom(body, name),
			BodyHTML: toHTML(body),
			Author:   e.cfg.Author,
			Tags:     tagsFor(name),
			ImageURL: image,
		})
	} else {
		body := firstNonEmpty(task.ContextString("product_description"), task.ContextString(domain.CtxLatestContent), task.Description)
		var images []string
		if image != "" {
			images = []string{image}
		}
		kind = domain.ArtifactProduct
		pub, err = e.cfg.Storefront.CreateProduct(ctx, &publish.Product{
			Title:       name,
			BodyHTML:    toHTML(body),
			ProductType: "Merchandise",
			Tags:        tagsFor(name),
			ImageURLs:   images,
		})
	}
	if err != nil {
		return nil, err
	}

	receipt := domain.NewArtifact(kind, step.Name).
		WithURL(pub.URL).
		WithMeta("platform", publish.TargetShopify).
		WithMeta("remote_id", pub.ID)

	return &domain.PublishResult{
		StepOutput: domain.StepOutput{
			Artifacts: []*domain.Artifact{receipt},
			Message:   fmt.Sprintf("published %s to shopify", kind),
		},
		Platform: publish.TargetShopify,
		RemoteID: pub.ID,
		URL:      pub.URL,
	}, nil
}

func (e *PublisherExecutor) youtube(ctx context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	if e.cfg.VideoHost == nil {
		return nil, fmt.Errorf("%w: youtube", aperrors.ErrConfiguration)
	}
	videoRef := task.ContextString(domain.CtxGeneratedVideo)
	if videoRef == "" {
		return nil, fmt.Errorf("%w: youtube upload needs a generated video", aperrors.ErrMissingInput)
	}
	video, err := e.fetcher().Fetch(ctx, videoRef)
	if err != nil {
		return nil, err
	}

	var thumbnail []byte
	if image := task.ContextString(domain.CtxGeneratedImage); image != "" {
		if thumbnail, err = e.fetcher().Fetch(ctx, image); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("thumbnail unavailable, uploading without it")
			thumbnail = nil
		}
	}

	name := productName(task)
	tags := tagsFor(name)
	description, err := prompts.Render(prompts.YouTubeDescription, prompts.YouTubeData{
		ProductName: name,
		Description: task.Description,
		Copy:        firstNonEmpty(task.ContextString("video_script"), task.ContextString(domain.CtxLatestContent)),
		Tags:        tags,
	})
	if err != nil {
		return nil, err
	}

	pub, err := e.cfg.VideoHost.UploadCommercial(ctx, &publish.Commercial{
		Video:       video,
		ProductName: name,
		Title:       domain.Truncate(name+" | Commercial", maxVideoTitle),
		Description: description,
		Tags:        tags,
		Privacy:     e.cfg.Privacy,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		return nil, err
	}

	receipt := domain.NewArtifact(domain.ArtifactUpload, step.Name).
		WithURL(pub.URL).
		WithMeta("platform", publish.TargetYouTube).
		WithMeta("remote_id", pub.ID)

	return &domain.PublishResult{
		StepOutput: domain.StepOutput{
			Artifacts:      []*domain.Artifact{receipt},
			ContextUpdates: map[string]any{"youtube_url": pub.URL},
			Message:        "uploaded commercial to youtube",
		},
		Platform: publish.TargetYouTube,
		RemoteID: pub.ID,
		URL:      pub.URL,
	}, nil
}

func (e *PublisherExecutor) fetcher() *artifact.Fetcher {
	return e.cfg.Fetcher
}

// productName prefers an explicit product name in the context.
func productName(task *domain.Task) string {
	if name := task.ContextString(domain.CtxProductName); name != "" {
		return name
	}
	return domain.Truncate(strings.TrimSpace(task.Description), 60)
}

// titleFrom uses a leading markdown heading as the title.
func titleFrom(body, fallback string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	if title, ok := strings.CutPrefix(first, "#"); ok {
		return strings.TrimSpace(strings.TrimLeft(title, "#"))
	}
	return fallback
}

// toHTML wraps plain text paragraphs in <p> tags.
func toHTML(body string) string {
	var b strings.Builder
	for _, para := range strings.Split(strings.TrimSpace(body), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "# ") {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		b.WriteString("</p>\n")
	}
	return b.String()
}

// tagsFor derives up to five tags from a product name.
func tagsFor(name string) []string {
	var tags []string
	for _, part := range strings.Split(slug.Make(name), "-") {
		if len(part) > 3 && len(tags) < 5 {
			tags = append(tags, part)
		}
	}
	return tags
}
