package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/adpilot/internal/ai"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(NewGenericExecutor())
	r.Register(NewWriterExecutor(TextModels{}))

	assert.True(t, r.Has(domain.AgentGeneric))
	assert.False(t, r.Has(domain.AgentVideo))
	assert.Equal(t, []domain.Agent{domain.AgentGeneric, domain.AgentWriter}, r.Agents())

	e, err := r.Get(domain.AgentWriter)
	require.NoError(t, err)
	assert.Equal(t, domain.AgentWriter, e.Agent())

	_, err = r.Get(domain.AgentVideo)
	require.ErrorIs(t, err, aperrors.ErrExecutorNotFound)
}

func TestDesigner_DefaultGenerator(t *testing.T) {
	images := &fakeImages{url: "https://x/img.png"}
	e := NewDesignerExecutor(images, nil, nil)

	res, err := e.Execute(context.Background(), newTask(nil), newStep(domain.AgentDesigner, "generate_design"))
	require.NoError(t, err)

	img, ok := res.(*domain.ImageResult)
	require.True(t, ok)
	assert.Equal(t, "https://x/img.png", img.URL)
	require.Len(t, img.Artifacts, 1)
	assert.Equal(t, domain.ArtifactImage, img.Artifacts[0].Type)
	assert.Equal(t, "https://x/img.png", img.Artifacts[0].URL)
	assert.Equal(t, "https://x/img.png", img.ContextUpdates[domain.CtxGeneratedImage])
	assert.Equal(t, img.Prompt, img.ContextUpdates[domain.CtxDesignPrompt])
	assert.Equal(t, "1:1", images.last.AspectRatio)
}

func TestDesigner_NamedModel(t *testing.T) {
	runner := &fakeRunner{urls: []string{"https://x/ideogram.png"}}
	e := NewDesignerExecutor(&fakeImages{url: "unused"}, runner, map[string]string{"ideogram": "ideogram-ai/ideogram-v2"})
	task := newTask(map[string]any{domain.CtxImageModel: "ideogram"})

	res, err := e.Execute(context.Background(), task, newStep(domain.AgentDesigner, "thumbnail"))
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "ideogram-ai/ideogram-v2", runner.calls[0].modelID)
	assert.Equal(t, "16:9", runner.calls[0].input["aspect_ratio"])
	assert.Equal(t, "ideogram", res.(*domain.ImageResult).Model)
}

func TestDesigner_Errors(t *testing.T) {
	_, err := NewDesignerExecutor(nil, nil, nil).Execute(context.Background(), newTask(nil), newStep(domain.AgentDesigner, ""))
	require.ErrorIs(t, err, aperrors.ErrConfiguration)

	_, err = NewDesignerExecutor(&fakeImages{}, nil, nil).Execute(context.Background(), newTask(nil), newStep(domain.AgentDesigner, ""))
	require.ErrorIs(t, err, aperrors.ErrUpstream)

	boom := errors.New("boom")
	_, err = NewDesignerExecutor(&fakeImages{err: boom}, nil, nil).Execute(context.Background(), newTask(nil), newStep(domain.AgentDesigner, ""))
	require.ErrorIs(t, err, boom)
}

func TestWriter(t *testing.T) {
	text := &fakeText{reply: "Stay cool this summer."}
	e := NewWriterExecutor(TextModels{Default: text})
	task := newTask(map[string]any{domain.CtxGeneratedImage: "https://x/img.png"})

	res, err := e.Execute(context.Background(), task, newStep(domain.AgentWriter, "social_post"))
	require.NoError(t, err)

	out := res.(*domain.TextResult)
	assert.Equal(t, "social_post", out.Action)
	assert.Equal(t, "Stay cool this summer.", out.ContextUpdates["social_post"])
	assert.Equal(t, "Stay cool this summer.", out.ContextUpdates[domain.CtxLatestContent])
	require.Len(t, text.prompts, 1)
	assert.Contains(t, text.prompts[0], "https://x/img.png")
}

func TestWriter_UnknownActionUsesGeneric(t *testing.T) {
	text := &fakeText{reply: "done"}
	res, err := NewWriterExecutor(TextModels{Default: text}).
		Execute(context.Background(), newTask(nil), newStep(domain.AgentWriter, "haiku"))
	require.NoError(t, err)
	assert.Equal(t, "generic", res.(*domain.TextResult).Action)
	assert.Contains(t, res.Output().ContextUpdates, "generic")
}

func TestWriter_TextModelPreference(t *testing.T) {
	def := &fakeText{reply: "default"}
	claude := &fakeText{reply: "claude"}
	e := NewWriterExecutor(TextModels{Default: def, Named: map[string]ai.TextGenerator{"claude": claude}})

	res, err := e.Execute(context.Background(), newTask(map[string]any{domain.CtxTextModel: "claude"}), newStep(domain.AgentWriter, "blog_post"))
	require.NoError(t, err)
	assert.Equal(t, "claude", res.(*domain.TextResult).Content)
	assert.Empty(t, def.prompts)
}

func TestWriter_NoGenerator(t *testing.T) {
	_, err := NewWriterExecutor(TextModels{}).Execute(context.Background(), newTask(nil), newStep(domain.AgentWriter, "blog_post"))
	require.ErrorIs(t, err, aperrors.ErrConfiguration)
}

func TestMarketer(t *testing.T) {
	text := &fakeText{reply: "## Instagram\nSun's out."}
	e := NewMarketerExecutor(TextModels{Default: text}, []string{"Instagram"})

	res, err := e.Execute(context.Background(), newTask(nil), newStep(domain.AgentMarketer, "campaign_copy"))
	require.NoError(t, err)

	out := res.(*domain.TextResult)
	assert.Equal(t, "campaign_copy", out.Action)
	assert.Equal(t, "## Instagram\nSun's out.", out.ContextUpdates["marketing_copy"])
	assert.Contains(t, text.prompts[0], "A post for Instagram")
}

func TestGeneric(t *testing.T) {
	res, err := NewGenericExecutor().Execute(context.Background(), newTask(nil), newStep(domain.AgentGeneric, "dance"))
	require.NoError(t, err)
	assert.Equal(t, domain.ResultNoop, res.Kind())
	assert.Empty(t, res.Output().Artifacts)
}

func TestExecutors_RespectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDesignerExecutor(&fakeImages{url: "x"}, nil, nil).Execute(ctx, newTask(nil), newStep(domain.AgentDesigner, ""))
	require.ErrorIs(t, err, context.Canceled)
}
