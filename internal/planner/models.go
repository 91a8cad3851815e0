package planner

import (
	"regexp"
	"strings"

	"github.com/mrz1836/adpilot/internal/domain"
)

// modelRule maps a model keyword pattern to a planner model name and its
// display name.
type modelRule struct {
	pattern *regexp.Regexp
	name    string
	display string
}

// Rules are checked in order; the first match per category wins.
//
//nolint:gochecknoglobals // read-only lookup tables
var (
	imageRules = []modelRule{
		{regexp.MustCompile(`\bflux\b`), "flux-schnell", "FLUX Schnell"},
		{regexp.MustCompile(`\bideogram\b`), "ideogram", "Ideogram"},
		{regexp.MustCompile(`\bdall[-·]?e\b`), "dall-e", "DALL-E 3"},
	}
	videoRules = []modelRule{
		{regexp.MustCompile(`\bken ?burns\b|\bfree video\b|\blocal video\b`), "kenburns", "Ken Burns (local)"},
		{regexp.MustCompile(`\bveo\b`), "veo", "Google Veo"},
		{regexp.MustCompile(`\bkling\b`), "kling", "Kling"},
		{regexp.MustCompile(`\bminimax\b|\bhailuo\b`), "minimax", "MiniMax Hailuo"},
		{regexp.MustCompile(`\bluma\b|\bdream machine\b`), "luma", "Luma Dream Machine"},
	}
	textRules = []modelRule{
		{regexp.MustCompile(`\bclaude\b`), "claude", "Claude"},
		{regexp.MustCompile(`\bgpt-?4o\b|\bchatgpt\b`), "gpt-4o", "GPT-4o"},
		{regexp.MustCompile(`\bllama\b`), "llama", "Llama"},
	}
)

// DetectModelPreferences scans description for named-model keywords.
func DetectModelPreferences(description string) domain.ModelPreferences {
	text := strings.ToLower(description)
	var prefs domain.ModelPreferences
	prefs.ImageModel, prefs.ImageModelName = firstMatch(imageRules, text)
	prefs.VideoModel, prefs.VideoModelName = firstMatch(videoRules, text)
	prefs.TextModel, prefs.TextModelName = firstMatch(textRules, text)
	return prefs
}

// ImageModelNames lists the image model names the planner may select.
func ImageModelNames() []string { return names(imageRules) }

// VideoModelNames lists the video model names the planner may select.
func VideoModelNames() []string { return names(videoRules) }

// TextModelNames lists the text model names the planner may select.
func TextModelNames() []string { return names(textRules) }

func firstMatch(rules []modelRule, text string) (string, string) {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.name, r.display
		}
	}
	return "", ""
}

func names(rules []modelRule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.name
	}
	return out
}
