package executor

import (
	"context"
	"sync"

	"github.com/mrz1836/adpilot/internal/ai"
	"github.com/mrz1836/adpilot/internal/browser"
	"github.com/mrz1836/adpilot/internal/domain"
	"github.com/mrz1836/adpilot/internal/publish"
)

type fakeImages struct {
	url  string
	err  error
	last *ai.ImageRequest
}

func (f *fakeImages) GenerateImage(_ context.Context, req *ai.ImageRequest) (string, error) {
	f.last = req
	return f.url, f.err
}

type fakeVideos struct {
	url  string
	err  error
	last *ai.VideoRequest
}

func (f *fakeVideos) GenerateVideo(_ context.Context, req *ai.VideoRequest) (string, error) {
	f.last = req
	return f.url, f.err
}

type runCall struct {
	modelID string
	input   map[string]any
}

type fakeRunner struct {
	mu    sync.Mutex
	urls  []string
	err   error
	calls []runCall
}

func (f *fakeRunner) Run(_ context.Context, modelID string, input map[string]any) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, runCall{modelID: modelID, input: input})
	return f.urls, f.err
}

type fakeText struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeText) GenerateText(_ context.Context, req *ai.TextRequest) (string, error) {
	f.prompts = append(f.prompts, req.Prompt)
	return f.reply, f.err
}

type fakeRenderer struct {
	path  string
	err   error
	image string
}

func (f *fakeRenderer) Render(_ context.Context, imageRef, _ string) (string, error) {
	f.image = imageRef
	return f.path, f.err
}

type fakeUploader struct {
	data     []byte
	filename string
}

func (f *fakeUploader) UploadImage(_ context.Context, data []byte, filename string) (*publish.Upload, error) {
	f.data, f.filename = data, filename
	return &publish.Upload{ID: "up-1", FileName: filename, PreviewURL: "https://printify.example/up-1.png"}, nil
}

type fakeStorefront struct {
	post    *publish.BlogPost
	product *publish.Product
}

func (f *fakeStorefront) CreateBlogPost(_ context.Context, post *publish.BlogPost) (*publish.Published, error) {
	f.post = post
	return &publish.Published{ID: "blog-1", URL: "https://shop.example/blogs/news/1"}, nil
}

func (f *fakeStorefront) CreateProduct(_ context.Context, product *publish.Product) (*publish.Published, error) {
	f.product = product
	return &publish.Published{ID: "prod-1", URL: "https://shop.example/products/1"}, nil
}

type fakeVideoHost struct {
	video *publish.Commercial
}

func (f *fakeVideoHost) UploadCommercial(_ context.Context, video *publish.Commercial) (*publish.Published, error) {
	f.video = video
	return &publish.Published{ID: "yt-1", URL: "https://youtu.be/yt-1"}, nil
}

type fakePoster struct {
	ok    bool
	err   error
	calls int
}

func (f *fakePoster) PostToTwitter(context.Context, string, string) (bool, error) {
	f.calls++
	return f.ok, f.err
}

type fakeAgent struct {
	res   *browser.Result
	err   error
	goals []string
}

func (f *fakeAgent) Execute(_ context.Context, goal string, _ int) (*browser.Result, error) {
	f.goals = append(f.goals, goal)
	return f.res, f.err
}

func newTask(ctx map[string]any) *domain.Task {
	return &domain.Task{
		ID:          "task0001",
		Description: "Summer beach hat campaign",
		Context:     ctx,
	}
}

func newStep(agent domain.Agent, action string) *domain.Step {
	return &domain.Step{
		ID:     "task0001-1",
		Name:   "Step",
		Agent:  agent,
		Action: action,
	}
}
