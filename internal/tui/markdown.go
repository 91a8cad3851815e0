package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownWidth is the word-wrap width of rendered summaries.
const MarkdownWidth = 80

//nolint:gochecknoglobals // renderer is expensive to build and safe to reuse
var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

func renderer() *glamour.TermRenderer {
	markdownRendererOnce.Do(func() {
		style := glamour.WithAutoStyle()
		if !HasColorSupport() {
			style = glamour.WithStandardStyle("notty")
		}
		r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(MarkdownWidth))
		if err == nil {
			markdownRenderer = r
		}
	})
	return markdownRenderer
}

// RenderMarkdown renders a task summary for the terminal. When rendering
// is unavailable the markdown source is returned unchanged.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if r := renderer(); r != nil {
		if out, err := r.Render(md); err == nil {
			return out
		}
	}
	return md
}
