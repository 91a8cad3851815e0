package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mrz1836/adpilot/internal/constants"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// ServiceClient talks to a self-hosted browser automation service. It posts
// to social networks through scripted flows and exposes page primitives for
// the LLM agent.
type ServiceClient struct {
	http *resty.Client
}

// NewServiceClient creates a ServiceClient for the service at baseURL.
func NewServiceClient(baseURL, token string) *ServiceClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(constants.DefaultBrowserTimeout).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &ServiceClient{http: c}
}

type serviceReply struct {
	Success   bool   `json:"success"`
	Output    string `json:"output"`
	SessionID string `json:"session_id"`
	Error     string `json:"error"`
}

func (s *ServiceClient) post(ctx context.Context, path string, body any) (*serviceReply, error) {
	var out serviceReply
	resp, err := s.http.R().SetContext(ctx).SetBody(body).SetResult(&out).Post(path)
	if err != nil {
		return nil, fmt.Errorf("%w: browser service %s: %w", aperrors.ErrUpstream, path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: browser service %s: status %d", aperrors.ErrUpstream, path, resp.StatusCode())
	}
	if out.Error != "" {
		return &out, fmt.Errorf("%w: browser service %s: %s", aperrors.ErrUpstream, path, out.Error)
	}
	return &out, nil
}

// PostToTwitter implements Poster through the service's scripted flow.
func (s *ServiceClient) PostToTwitter(ctx context.Context, imageURL, caption string) (bool, error) {
	out, err := s.post(ctx, "/social/twitter/post", map[string]string{
		"image_url": imageURL,
		"caption":   caption,
	})
	if err != nil {
		return false, err
	}
	return out.Success, nil
}

// Open implements SessionOpener.
func (s *ServiceClient) Open(ctx context.Context) (Session, error) {
	out, err := s.post(ctx, "/sessions", map[string]any{"headless": true})
	if err != nil {
		return nil, err
	}
	if out.SessionID == "" {
		return nil, fmt.Errorf("%w: browser service returned no session id", aperrors.ErrUpstream)
	}
	return &serviceSession{client: s, id: out.SessionID}, nil
}

type serviceSession struct {
	client *ServiceClient
	id     string
}

func (s *serviceSession) do(ctx context.Context, action string, body map[string]string) (string, error) {
	out, err := s.client.post(ctx, "/sessions/"+s.id+"/"+action, body)
	if err != nil {
		return "", err
	}
	return out.Output, nil
}

func (s *serviceSession) Navigate(ctx context.Context, url string) (string, error) {
	return s.do(ctx, "navigate", map[string]string{"url": url})
}

func (s *serviceSession) Click(ctx context.Context, selector string) (string, error) {
	return s.do(ctx, "click", map[string]string{"selector": selector})
}

func (s *serviceSession) Type(ctx context.Context, selector, text string) (string, error) {
	return s.do(ctx, "type", map[string]string{"selector": selector, "text": text})
}

func (s *serviceSession) Upload(ctx context.Context, selector, fileURL string) (string, error) {
	return s.do(ctx, "upload", map[string]string{"selector": selector, "file_url": fileURL})
}

func (s *serviceSession) ReadPage(ctx context.Context) (string, error) {
	return s.do(ctx, "content", nil)
}

func (s *serviceSession) Close(ctx context.Context) error {
	resp, err := s.client.http.R().SetContext(ctx).Delete("/sessions/" + s.id)
	if err != nil {
		return fmt.Errorf("%w: close browser session: %w", aperrors.ErrUpstream, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: close browser session: status %d", aperrors.ErrUpstream, resp.StatusCode())
	}
	return nil
}
