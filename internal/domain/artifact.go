package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrz1836/adpilot/internal/constants"
)

// ArtifactType classifies a step output.
type ArtifactType string

// Artifact type constants.
const (
	ArtifactImage      ArtifactType = "image"
	ArtifactVideo      ArtifactType = "video"
	ArtifactText       ArtifactType = "text"
	ArtifactFile       ArtifactType = "file"
	ArtifactProduct    ArtifactType = "product"
	ArtifactBlog       ArtifactType = "blog"
	ArtifactSocialPost ArtifactType = "social_post"
	ArtifactUpload     ArtifactType = "upload"
)

// String returns the string representation of the ArtifactType.
func (t ArtifactType) String() string {
	return string(t)
}

// Artifact is one concrete output of a step.
//
// URL holds externally hosted media, Content holds inline text; both may be
// set. Artifacts are immutable once created except for FilePath, which the
// artifact store fills in after persisting a local copy.
type Artifact struct {
	ID        string         `json:"id"`
	Type      ArtifactType   `json:"type"`
	Name      string         `json:"name"`
	URL       string         `json:"url,omitempty"`
	Content   string         `json:"content,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	FilePath  string         `json:"file_path,omitempty"`
}

// NewArtifact creates an artifact with a fresh short id and creation time.
func NewArtifact(typ ArtifactType, name string) *Artifact {
	return &Artifact{
		ID:        NewShortID(),
		Type:      typ,
		Name:      name,
		Metadata:  make(map[string]any),
		CreatedAt: time.Now().UTC(),
	}
}

// WithURL sets the URL and returns the artifact for chaining during construction.
func (a *Artifact) WithURL(url string) *Artifact {
	a.URL = url
	return a
}

// WithContent sets the inline content and returns the artifact.
func (a *Artifact) WithContent(content string) *Artifact {
	a.Content = content
	return a
}

// WithMeta adds one metadata entry and returns the artifact.
func (a *Artifact) WithMeta(key string, value any) *Artifact {
	if a.Metadata == nil {
		a.Metadata = make(map[string]any)
	}
	a.Metadata[key] = value
	return a
}

// DisplayContent returns Content cut to the display limit.
func (a *Artifact) DisplayContent() string {
	return Truncate(a.Content, constants.ArtifactDisplayLimit)
}

// MarshalJSON encodes the artifact with Content truncated for display.
// The in-memory value keeps the full text.
func (a *Artifact) MarshalJSON() ([]byte, error) {
	type alias Artifact
	view := alias(*a)
	view.Content = a.DisplayContent()
	return json.Marshal(view)
}

// Truncate cuts s to limit characters and appends "..." when anything was dropped.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// NewShortID returns a short random identifier used for tasks and artifacts.
func NewShortID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:constants.ShortIDLength]
}
