package ctxutil_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/adpilot/internal/ctxutil"
)

func TestCanceled(t *testing.T) {
	require.NoError(t, ctxutil.Canceled(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, ctxutil.Canceled(ctx), context.Canceled)

	expired, cancelExpired := context.WithTimeout(context.Background(), 0)
	defer cancelExpired()
	<-expired.Done()
	require.ErrorIs(t, ctxutil.Canceled(expired), context.DeadlineExceeded)
}

func TestWithTimeout(t *testing.T) {
	t.Run("zero leaves context unbounded", func(t *testing.T) {
		parent := context.Background()
		ctx, cancel := ctxutil.WithTimeout(parent, 0)
		defer cancel()

		_, hasDeadline := ctx.Deadline()
		assert.False(t, hasDeadline)
		assert.Equal(t, parent, ctx)
	})

	t.Run("positive duration sets deadline", func(t *testing.T) {
		ctx, cancel := ctxutil.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
	})

	t.Run("cancel releases context", func(t *testing.T) {
		ctx, cancel := ctxutil.WithTimeout(context.Background(), time.Hour)
		cancel()
		require.ErrorIs(t, ctx.Err(), context.Canceled)
	})
}
