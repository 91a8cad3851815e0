package prompts

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_EveryPromptEmbedded(t *testing.T) {
	want := []PromptID{
		TaskPlan,
		DesignGeneric, DesignThumbnail, DesignSocialImage,
		WriterProductDescription, WriterVideoScript, WriterBlogPost,
		WriterSocialPost, WriterMarketingCopy, WriterGeneric,
		MarketerCampaign, VideoMotion, YouTubeDescription,
	}
	assert.ElementsMatch(t, want, List(), "common fragments are not standalone prompts")
}

func TestRender_TaskPlan(t *testing.T) {
	out, err := Render(TaskPlan, PlanData{
		Description: "Launch a summer hat",
		Agents:      []string{"designer", "writer"},
		ImageModels: []string{"flux-schnell", "ideogram"},
		VideoModels: []string{"kenburns"},
		TextModels:  []string{"claude"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Launch a summer hat")
	assert.Contains(t, out, "- designer\n- writer")
	assert.Contains(t, out, "Image: flux-schnell, ideogram")
	assert.Contains(t, out, `"step_index": 1`)
}

func TestRender_WriterImageNote(t *testing.T) {
	with, err := Render(WriterBlogPost, WriterData{Description: "hats", GeneratedImage: "https://x/img.png"})
	require.NoError(t, err)
	assert.Contains(t, with, "https://x/img.png")
	assert.Contains(t, with, "brand voice")

	without, err := Render(WriterBlogPost, WriterData{Description: "hats"})
	require.NoError(t, err)
	assert.NotContains(t, without, "already been generated")
}

func TestRender_MarketerPlatforms(t *testing.T) {
	out, err := Render(MarketerCampaign, MarketerData{Description: "hats", Platforms: []string{"Instagram", "TikTok"}})
	require.NoError(t, err)
	assert.Contains(t, out, "- A post for Instagram")
	assert.Contains(t, out, "- A post for TikTok")
	assert.Contains(t, out, "email subject line")
}

func TestRender_YouTubeDescription(t *testing.T) {
	out, err := Render(YouTubeDescription, YouTubeData{ProductName: "Sun Hat", Description: "d", Tags: []string{"summer", "hats"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Sun Hat"))
	assert.Contains(t, out, "#summer #hats")
}

func TestRender_Errors(t *testing.T) {
	_, err := Render("nope/missing", nil)
	require.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = Render(TaskPlan, WriterData{})
	require.ErrorIs(t, err, ErrInvalidData)

	_, err = Render(VideoMotion, "x")
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestParseAll_SharedFragments(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/common/sign_off.tmpl": {Data: []byte("Thanks, {{.}}")},
		"templates/writer/note.tmpl":     {Data: []byte(`Hi. {{template "common/sign_off" "team"}}`)},
		"templates/writer/README.md":     {Data: []byte("ignored")},
	}

	all, err := parseAll(fsys)
	require.NoError(t, err)
	require.Len(t, all, 1)

	var b strings.Builder
	require.NoError(t, all["writer/note"].ExecuteTemplate(&b, "writer/note", nil))
	assert.Equal(t, "Hi. Thanks, team", b.String())
}

func TestParseAll_BadTemplate(t *testing.T) {
	fsys := fstest.MapFS{"templates/writer/bad.tmpl": {Data: []byte("{{.Oops")}}

	_, err := parseAll(fsys)
	assert.ErrorContains(t, err, "templates/writer/bad.tmpl")
}
