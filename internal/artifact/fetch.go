// Package artifact persists step artifacts and fetches the media they reference.
package artifact

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/afero"

	"github.com/mrz1836/adpilot/internal/constants"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// Fetcher loads media referenced either by an http(s) URL or by a local path.
type Fetcher struct {
	fs     afero.Fs
	client *resty.Client
}

// NewFetcher creates a Fetcher. A nil client gets a resty client with the
// default download timeout.
func NewFetcher(fs afero.Fs, client *resty.Client) *Fetcher {
	if client == nil {
		client = resty.New().SetTimeout(constants.DefaultHTTPTimeout)
	}
	return &Fetcher{fs: fs, client: client}
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch returns the bytes behind ref. Remote references must answer 200.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("fetch: reference %w", aperrors.ErrEmptyValue)
	}
	if !IsRemote(ref) {
		data, err := afero.ReadFile(f.fs, strings.TrimPrefix(ref, "file://"))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", ref, err)
		}
		return data, nil
	}

	resp, err := f.client.R().SetContext(ctx).Get(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %w", aperrors.ErrUpstream, ref, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: download %s: status %d", aperrors.ErrUpstream, ref, resp.StatusCode())
	}
	return resp.Body(), nil
}
