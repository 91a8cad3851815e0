// Package browser provides the browser-automation collaborators used by the
// browser executor: a hosted AI browser agent, a lower-level automation
// service that exposes page primitives, and a generic agent that drives those
// primitives through an LLM tool-use loop.
package browser

import "context"

// Poster publishes an image with a caption to a social network.
type Poster interface {
	PostToTwitter(ctx context.Context, imageURL, caption string) (bool, error)
}

// Agent pursues a free-text goal in a browser.
type Agent interface {
	Execute(ctx context.Context, goal string, maxSteps int) (*Result, error)
}

// Result is the outcome of an agent run.
type Result struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Steps   int    `json:"steps"`
}

// Session drives a single browser session through page primitives.
type Session interface {
	Navigate(ctx context.Context, url string) (string, error)
	Click(ctx context.Context, selector string) (string, error)
	Type(ctx context.Context, selector, text string) (string, error)
	Upload(ctx context.Context, selector, fileURL string) (string, error)
	ReadPage(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// SessionOpener starts browser sessions.
type SessionOpener interface {
	Open(ctx context.Context) (Session, error)
}

// TwitterGoal is the free-text goal used to post an image with a caption to X.
func TwitterGoal(imageURL, caption string) string {
	return "Log in to https://x.com with the saved session, start a new post, attach the image at " +
		imageURL + ", enter the caption below exactly, and publish it.\n\nCaption:\n" + caption
}
