package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/ctxutil"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// DefaultCloudBaseURL is the hosted browser agent API root.
const DefaultCloudBaseURL = "https://api.browser-use.com/api/v1"

type cloudTask struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output string `json:"output"`
	Steps  []any  `json:"steps"`
}

func (t *cloudTask) settled() bool {
	switch t.Status {
	case "finished", "failed", "stopped":
		return true
	}
	return false
}

// CloudAgent runs goals on a hosted AI browser agent and polls until they
// settle. It is both a Poster and an Agent.
type CloudAgent struct {
	http         *resty.Client
	pollInterval time.Duration
	timeout      time.Duration
	logger       zerolog.Logger
}

// NewCloudAgent creates a CloudAgent.
func NewCloudAgent(baseURL, apiKey string, pollInterval, timeout time.Duration, logger zerolog.Logger) *CloudAgent {
	if baseURL == "" {
		baseURL = DefaultCloudBaseURL
	}
	if pollInterval <= 0 {
		pollInterval = constants.DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = constants.DefaultBrowserTimeout
	}
	return &CloudAgent{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(constants.DefaultHTTPTimeout).
			SetHeader("Content-Type", "application/json").
			SetAuthToken(apiKey),
		pollInterval: pollInterval,
		timeout:      timeout,
		logger:       logger,
	}
}

// PostToTwitter implements Poster.
func (c *CloudAgent) PostToTwitter(ctx context.Context, imageURL, caption string) (bool, error) {
	res, err := c.Execute(ctx, TwitterGoal(imageURL, caption), constants.DefaultBrowserMaxSteps)
	if err != nil {
		return false, err
	}
	return res.Success, nil
}

// Execute implements Agent.
func (c *CloudAgent) Execute(ctx context.Context, goal string, maxSteps int) (*Result, error) {
	ctx, cancel := ctxutil.WithTimeout(ctx, c.timeout)
	defer cancel()

	var created cloudTask
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"task": goal, "max_agent_steps": maxSteps}).
		SetResult(&created).
		Post("/run-task")
	if err != nil {
		return nil, fmt.Errorf("%w: start browser task: %w", aperrors.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: start browser task: status %d", aperrors.ErrUpstream, resp.StatusCode())
	}

	c.logger.Debug().Str("browser_task_id", created.ID).Msg("browser task started")

	var current cloudTask
	err = retry.Do(ctx, retry.NewConstant(c.pollInterval), func(ctx context.Context) error {
		var t cloudTask
		resp, err := c.http.R().SetContext(ctx).SetResult(&t).Get("/task/" + created.ID)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.IsError() {
			return fmt.Errorf("poll browser task: status %d", resp.StatusCode())
		}
		current = t
		if !t.settled() {
			return retry.RetryableError(fmt.Errorf("browser task %s still %s", created.ID, t.Status))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: wait for browser task %s: %w", aperrors.ErrUpstream, created.ID, err)
	}

	return &Result{
		Success: current.Status == "finished",
		Output:  current.Output,
		Steps:   len(current.Steps),
	}, nil
}
