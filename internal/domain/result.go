package domain

// ResultKind discriminates StepResult variants.
type ResultKind string

// Result kinds.
const (
	ResultImage   ResultKind = "image"
	ResultVideo   ResultKind = "video"
	ResultText    ResultKind = "text"
	ResultPublish ResultKind = "publish"
	ResultBrowser ResultKind = "browser"
	ResultNoop    ResultKind = "noop"
)

// StepResult is what a step executor returns on success. The engine applies
// the embedded StepOutput to the step and task; executors never touch them.
type StepResult interface {
	Kind() ResultKind
	Output() *StepOutput
}

// StepOutput is the part every result variant shares.
type StepOutput struct {
	Artifacts      []*Artifact
	ContextUpdates map[string]any
	Message        string
}

// Output returns the shared part of a result.
func (o *StepOutput) Output() *StepOutput { return o }

// ImageResult is returned by the designer.
type ImageResult struct {
	StepOutput
	URL    string
	Prompt string
	Model  string
}

// Kind implements StepResult.
func (*ImageResult) Kind() ResultKind { return ResultImage }

// VideoResult is returned by the video executor.
type VideoResult struct {
	StepOutput
	URL      string
	Model    string
	Provider string
}

// Kind implements StepResult.
func (*VideoResult) Kind() ResultKind { return ResultVideo }

// TextResult is returned by the writer and the marketer.
type TextResult struct {
	StepOutput
	Content string
	Action  string
}

// Kind implements StepResult.
func (*TextResult) Kind() ResultKind { return ResultText }

// PublishResult is returned by the publisher.
type PublishResult struct {
	StepOutput
	Platform string
	RemoteID string
	URL      string
}

// Kind implements StepResult.
func (*PublishResult) Kind() ResultKind { return ResultPublish }

// BrowserResult is returned by the browser executor.
type BrowserResult struct {
	StepOutput
	Success bool
	Detail  string
	Method  string
}

// Kind implements StepResult.
func (*BrowserResult) Kind() ResultKind { return ResultBrowser }

// NoopResult is returned by the generic executor.
type NoopResult struct {
	StepOutput
}

// Kind implements StepResult.
func (*NoopResult) Kind() ResultKind { return ResultNoop }

// Summarize renders a one-line description of r for Step.Output.
func Summarize(r StepResult) string {
	if r == nil {
		return ""
	}
	switch v := r.(type) {
	case *ImageResult:
		return "image: " + v.URL
	case *VideoResult:
		return "video: " + v.URL
	case *TextResult:
		return Truncate(v.Content, 200)
	case *PublishResult:
		if v.URL != "" {
			return v.Platform + ": " + v.URL
		}
		return v.Platform + ": " + v.RemoteID
	case *BrowserResult:
		return v.Method + ": " + v.Detail
	}
	return r.Output().Message
}
