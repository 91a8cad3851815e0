package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

func newPredictionServer(t *testing.T, pollsBeforeDone int32, final map[string]any) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /models/black-forest-labs/flux-schnell/predictions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a sun hat", body["input"]["prompt"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p1","status":"starting"}`))
	})
	mux.HandleFunc("GET /predictions/p1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if polls.Add(1) <= pollsBeforeDone {
			_, _ = w.Write([]byte(`{"id":"p1","status":"processing"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(final)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &polls
}

func TestPredictionClient_PollsUntilSucceeded(t *testing.T) {
	srv, polls := newPredictionServer(t, 2, map[string]any{
		"id":     "p1",
		"status": "succeeded",
		"output": []string{"https://cdn/img.png"},
	})

	client := NewPredictionClient(srv.URL, "test-token", zerolog.Nop(), WithPollInterval(5*time.Millisecond))
	urls, err := client.Run(context.Background(), "black-forest-labs/flux-schnell", map[string]any{"prompt": "a sun hat"})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/img.png"}, urls)
	assert.Equal(t, int32(3), polls.Load())
}

func TestPredictionClient_FailedPrediction(t *testing.T) {
	srv, _ := newPredictionServer(t, 0, map[string]any{
		"id":     "p1",
		"status": "failed",
		"error":  "NSFW content detected",
	})

	client := NewPredictionClient(srv.URL, "test-token", zerolog.Nop(), WithPollInterval(time.Millisecond))
	_, err := client.Run(context.Background(), "black-forest-labs/flux-schnell", map[string]any{"prompt": "a sun hat"})

	require.Error(t, err)
	assert.ErrorIs(t, err, aperrors.ErrPredictionFailed)
	assert.Contains(t, err.Error(), "NSFW")
}

func TestPredictionClient_CreateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid token"}`))
	}))
	defer srv.Close()

	client := NewPredictionClient(srv.URL, "bad", zerolog.Nop())
	_, err := client.Run(context.Background(), "owner/model", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, aperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "401")
}

func TestPredictionClient_TimesOutWhilePolling(t *testing.T) {
	srv, _ := newPredictionServer(t, 1<<30, nil)

	client := NewPredictionClient(srv.URL, "test-token", zerolog.Nop(),
		WithPollInterval(5*time.Millisecond),
		WithMediaTimeout(50*time.Millisecond),
	)
	_, err := client.Run(context.Background(), "black-forest-labs/flux-schnell", map[string]any{"prompt": "a sun hat"})

	require.Error(t, err)
	assert.ErrorIs(t, err, aperrors.ErrUpstream)
}

func TestOutputURLs(t *testing.T) {
	assert.Equal(t, []string{"u"}, outputURLs("u"))
	assert.Equal(t, []string{"a", "b"}, outputURLs([]any{"a", 1, "b", ""}))
	assert.Nil(t, outputURLs(""))
	assert.Nil(t, outputURLs(map[string]any{}))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, isRetryable(nil))
	assert.False(t, isRetryable(context.Canceled))
	assert.False(t, isRetryable(context.DeadlineExceeded))
	assert.True(t, isRetryable(assert.AnError))
}
