// This file implements the storage layer for task state files,
// with atomic writes and file locking.

package task

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/ctxutil"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/flock"
)

// LockTimeout is the maximum duration to wait for acquiring a file lock.
const LockTimeout = 5 * time.Second

// Directory and file permission constants.
const (
	dirPerm  = 0o750 // Secure directory permissions
	filePerm = 0o600 // Secure file permissions
)

// validTaskIDRegex matches ids that are safe to use as directory names.
var validTaskIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// Store defines the interface for task checkpointing.
type Store interface {
	// Save creates or replaces the task's state file (atomic write).
	Save(ctx context.Context, task *domain.Task) error

	// Get retrieves a task by ID.
	// Returns ErrTaskNotFound if the task doesn't exist.
	Get(ctx context.Context, taskID string) (*domain.Task, error)

	// List returns all checkpointed tasks, sorted by creation time (newest first).
	List(ctx context.Context) ([]*domain.Task, error)

	// Delete removes a task's state.
	Delete(ctx context.Context, taskID string) error
}

// FileStore implements Store using the local filesystem, one directory per task.
type FileStore struct {
	root string // Usually ~/.adpilot/tasks
}

// NewFileStore creates a FileStore rooted at root.
// If root is empty, uses the default ~/.adpilot/tasks directory.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, constants.AppHome, constants.TasksDir)
	}
	return &FileStore{root: root}, nil
}

// Save writes the task state atomically under an exclusive lock.
func (s *FileStore) Save(ctx context.Context, task *domain.Task) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("failed to save task: task %w", aperrors.ErrEmptyValue)
	}
	if err := validateID(task.ID); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	if err := os.MkdirAll(s.taskDir(task.ID), dirPerm); err != nil {
		return fmt.Errorf("failed to save task '%s': %w", task.ID, err)
	}

	lockFile, err := s.acquireLock(ctx, task.ID)
	if err != nil {
		return fmt.Errorf("failed to save task '%s': %w", task.ID, err)
	}
	defer func() { _ = lockFile.Release() }()

	task.SchemaVersion = constants.TaskSchemaVersion
	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to save task '%s': %w", task.ID, err)
	}

	if err := atomicWrite(s.taskFilePath(task.ID), data); err != nil {
		return fmt.Errorf("failed to save task '%s': %w", task.ID, err)
	}
	return nil
}

// Get retrieves a task by ID.
func (s *FileStore) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := validateID(taskID); err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if _, err := os.Stat(s.taskDir(taskID)); os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to get task '%s': %w", taskID, aperrors.ErrTaskNotFound)
	}

	lockFile, err := s.acquireLock(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task '%s': %w", taskID, err)
	}
	defer func() { _ = lockFile.Release() }()

	data, err := os.ReadFile(s.taskFilePath(taskID)) //#nosec G304 -- path is validated and constructed from trusted base
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to get task '%s': %w", taskID, aperrors.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("failed to read task '%s': %w", taskID, err)
	}

	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to parse task '%s': corrupted state file: %w", taskID, err)
	}
	return &task, nil
}

// List returns all tasks, sorted by creation time (newest first).
// Directories without a readable state file are skipped.
func (s *FileStore) List(ctx context.Context) ([]*domain.Task, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return []*domain.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !validTaskIDRegex.MatchString(entry.Name()) {
			continue
		}
		if err := ctxutil.Canceled(ctx); err != nil {
			return nil, err
		}
		task, err := s.Get(ctx, entry.Name())
		if err != nil {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// Delete removes a task's directory.
func (s *FileStore) Delete(ctx context.Context, taskID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := validateID(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	taskDir := s.taskDir(taskID)
	if _, err := os.Stat(taskDir); os.IsNotExist(err) {
		return fmt.Errorf("failed to delete task '%s': %w", taskID, aperrors.ErrTaskNotFound)
	}

	lockFile, err := s.acquireLock(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task '%s': %w", taskID, err)
	}
	// Release lock before removal since lock file is inside task directory
	_ = lockFile.Release()

	if err := os.RemoveAll(taskDir); err != nil {
		return fmt.Errorf("failed to delete task '%s': %w", taskID, err)
	}
	return nil
}

func validateID(taskID string) error {
	if taskID == "" {
		return fmt.Errorf("task ID %w", aperrors.ErrEmptyValue)
	}
	if !validTaskIDRegex.MatchString(taskID) {
		return fmt.Errorf("task ID %q: %w", taskID, aperrors.ErrPathTraversal)
	}
	return nil
}

func (s *FileStore) taskDir(taskID string) string {
	return filepath.Join(s.root, taskID)
}

func (s *FileStore) taskFilePath(taskID string) string {
	return filepath.Join(s.taskDir(taskID), constants.TaskFileName)
}

func (s *FileStore) lockFilePath(taskID string) string {
	return filepath.Join(s.taskDir(taskID), constants.TaskFileName+".lock")
}

// acquireLock takes the task's exclusive checkpoint lock.
func (s *FileStore) acquireLock(ctx context.Context, taskID string) (*flock.Lock, error) {
	return flock.Acquire(ctx, s.lockFilePath(taskID), LockTimeout)
}

// atomicWrite writes data to a file atomically using write-then-rename.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
