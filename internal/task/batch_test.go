package task

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

func TestEngine_RunBatch(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	ctx := context.Background()

	var tasks []*domain.Task
	for _, desc := range []string{"one", "two", "three", "four"} {
		task, err := f.engine.CreateTask(ctx, desc, CreateOptions{})
		require.NoError(t, err)
		tasks = append(tasks, task)
	}

	var (
		mu     sync.Mutex
		events int
	)
	err := f.engine.RunBatch(ctx, tasks, 2, func(ProgressEvent) {
		mu.Lock()
		events++
		mu.Unlock()
	})
	require.NoError(t, err)

	for _, task := range tasks {
		assert.Equal(t, constants.TaskStatusCompleted, task.Status, task.Description)
	}
	assert.Len(t, f.designer.Calls(), 4)
	assert.Equal(t, 4*6, events)
}

func TestEngine_RunBatch_CollectsErrors(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	ctx := context.Background()

	ok, err := f.engine.CreateTask(ctx, "ok", CreateOptions{})
	require.NoError(t, err)
	done, err := f.engine.CreateTask(ctx, "done", CreateOptions{})
	require.NoError(t, err)
	_, err = f.engine.ExecuteTask(ctx, done, nil)
	require.NoError(t, err)

	err = f.engine.RunBatch(ctx, []*domain.Task{ok, done, nil}, 0, nil)
	require.ErrorIs(t, err, aperrors.ErrTaskAlreadyExecuted)
	require.ErrorIs(t, err, aperrors.ErrEmptyValue)
	assert.Contains(t, err.Error(), "task <nil>")
	assert.Equal(t, constants.TaskStatusCompleted, ok.Status)
}
