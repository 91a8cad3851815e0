package task

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

func newStoredTask(id string, created time.Time) *domain.Task {
	return &domain.Task{
		ID:          id,
		Description: "Create a t-shirt design",
		Status:      constants.TaskStatusCompleted,
		Priority:    constants.PriorityNormal,
		CreatedAt:   created,
		Context:     map[string]any{domain.CtxGeneratedImage: "https://x/img.png"},
		Steps: []*domain.Step{
			{ID: id + "-1", Name: "Generate Design", Agent: domain.AgentDesigner, Status: constants.StepStatusCompleted, Output: "image: https://x/img.png"},
		},
		Artifacts: []*domain.Artifact{domain.NewArtifact(domain.ArtifactImage, "design").WithURL("https://x/img.png")},
	}
}

func TestFileStore_SaveGet(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	task := newStoredTask("abc12345", time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, task))

	info, err := os.Stat(store.taskFilePath("abc12345"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
	_, err = os.Stat(store.taskFilePath("abc12345") + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := store.Get(ctx, "abc12345")
	require.NoError(t, err)
	assert.Equal(t, task.Description, got.Description)
	assert.Equal(t, constants.TaskSchemaVersion, got.SchemaVersion)
	assert.Equal(t, "https://x/img.png", got.ContextString(domain.CtxGeneratedImage))
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "image: https://x/img.png", got.Steps[0].Output)
	assert.Nil(t, got.Steps[0].Result)
	require.Len(t, got.Artifacts, 1)
	assert.Equal(t, "https://x/img.png", got.Artifacts[0].URL)
}

func TestFileStore_GetErrors(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "missing1")
	require.ErrorIs(t, err, aperrors.ErrTaskNotFound)

	_, err = store.Get(ctx, "../etc")
	require.ErrorIs(t, err, aperrors.ErrPathTraversal)

	_, err = store.Get(ctx, "")
	require.ErrorIs(t, err, aperrors.ErrEmptyValue)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "corrupt1"), dirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(root, "corrupt1", constants.TaskFileName), []byte("{not json"), filePerm))
	_, err = store.Get(ctx, "corrupt1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted state file")
}

func TestFileStore_List(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	empty, err := NewFileStore(filepath.Join(root, "nothing-here"))
	require.NoError(t, err)
	tasks, err := empty.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, newStoredTask("older001", base)))
	require.NoError(t, store.Save(ctx, newStoredTask("newer001", base.Add(time.Hour))))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "no-state"), dirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), filePerm))

	tasks, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "newer001", tasks[0].ID)
	assert.Equal(t, "older001", tasks[1].ID)
}

func TestFileStore_Delete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newStoredTask("gone0001", time.Now())))
	require.NoError(t, store.Delete(ctx, "gone0001"))

	_, err = store.Get(ctx, "gone0001")
	require.ErrorIs(t, err, aperrors.ErrTaskNotFound)

	err = store.Delete(ctx, "gone0001")
	require.ErrorIs(t, err, aperrors.ErrTaskNotFound)
}

func TestFileStore_Cancelled(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Save(ctx, newStoredTask("abc12345", time.Now())), context.Canceled)
	_, err = store.Get(ctx, "abc12345")
	require.ErrorIs(t, err, context.Canceled)
	_, err = store.List(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_ConcurrentSaves(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task := newStoredTask("shared01", time.Now())
			task.CurrentStep = i
			assert.NoError(t, store.Save(ctx, task))
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "shared01")
	require.NoError(t, err)
	assert.Equal(t, "shared01", got.ID)
}

func TestNewFileStore_DefaultRoot(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	store, err := NewFileStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), constants.AppHome, constants.TasksDir), store.root)
}
