package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/ctxutil"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// DefaultPredictionBaseURL is the hosted prediction API used when none is configured.
const DefaultPredictionBaseURL = "https://api.replicate.com/v1"

// Prediction states.
const (
	predictionStarting   = "starting"
	predictionProcessing = "processing"
	predictionSucceeded  = "succeeded"
	predictionFailed     = "failed"
	predictionCanceled   = "canceled"
)

// prediction is the API's view of one model run.
type prediction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output any    `json:"output"`
	Error  any    `json:"error"`
}

func (p *prediction) settled() bool {
	switch p.Status {
	case predictionSucceeded, predictionFailed, predictionCanceled:
		return true
	}
	return false
}

// PredictionClient runs hosted models through a prediction API and polls
// each prediction until it settles. It implements ModelRunner.
type PredictionClient struct {
	http         *resty.Client
	pollInterval time.Duration
	timeout      time.Duration
	logger       zerolog.Logger
}

// PredictionOption configures a PredictionClient.
type PredictionOption func(*PredictionClient)

// WithPollInterval sets the interval between status checks.
func WithPollInterval(d time.Duration) PredictionOption {
	return func(c *PredictionClient) {
		c.pollInterval = d
	}
}

// WithMediaTimeout bounds one prediction including polling.
func WithMediaTimeout(d time.Duration) PredictionOption {
	return func(c *PredictionClient) {
		c.timeout = d
	}
}

// NewPredictionClient creates a client for the prediction API at baseURL.
func NewPredictionClient(baseURL, token string, logger zerolog.Logger, opts ...PredictionOption) *PredictionClient {
	if baseURL == "" {
		baseURL = DefaultPredictionBaseURL
	}
	c := &PredictionClient{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(constants.DefaultHTTPTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetAuthToken(token),
		pollInterval: constants.DefaultPollInterval,
		timeout:      constants.DefaultMediaTimeout,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run implements ModelRunner. modelID has the form "owner/name".
func (c *PredictionClient) Run(ctx context.Context, modelID string, input map[string]any) ([]string, error) {
	ctx, cancel := ctxutil.WithTimeout(ctx, c.timeout)
	defer cancel()

	var created prediction
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"input": input}).
		SetResult(&created).
		Post("/models/" + modelID + "/predictions")
	if err != nil {
		return nil, fmt.Errorf("%w: create prediction for %s: %w", aperrors.ErrUpstream, modelID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: create prediction for %s: status %d: %s",
			aperrors.ErrUpstream, modelID, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	c.logger.Debug().
		Str("model", modelID).
		Str("prediction_id", created.ID).
		Str("status", created.Status).
		Msg("prediction created")

	final := &created
	if !created.settled() {
		final, err = c.wait(ctx, created.ID)
		if err != nil {
			return nil, err
		}
	}

	if final.Status != predictionSucceeded {
		return nil, fmt.Errorf("%w: %s %s: %v", aperrors.ErrPredictionFailed, modelID, final.Status, final.Error)
	}

	urls := outputURLs(final.Output)
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s returned no output", aperrors.ErrUpstream, modelID)
	}
	return urls, nil
}

// wait polls a prediction until it settles or ctx ends.
func (c *PredictionClient) wait(ctx context.Context, id string) (*prediction, error) {
	var current prediction
	backoff := retry.NewConstant(c.pollInterval)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var p prediction
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&p).
			Get("/predictions/" + id)
		if err != nil {
			if isRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		if resp.StatusCode() >= http.StatusInternalServerError || resp.StatusCode() == http.StatusTooManyRequests {
			return retry.RetryableError(fmt.Errorf("poll status %d", resp.StatusCode()))
		}
		if resp.IsError() {
			return fmt.Errorf("poll status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
		}
		current = p
		if !p.settled() {
			return retry.RetryableError(fmt.Errorf("prediction %s still %s", id, p.Status))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: wait for prediction %s: %w", aperrors.ErrUpstream, id, err)
	}
	return &current, nil
}

// outputURLs normalizes a prediction output, which is either a single URL or a list of them.
func outputURLs(out any) []string {
	switch v := out.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		urls := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				urls = append(urls, s)
			}
		}
		return urls
	}
	return nil
}

// isRetryable reports whether a transport error while polling is transient.
// Context errors are never retried.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "unsupported protocol") || strings.Contains(errStr, "no such host") {
		return false
	}
	return true
}
