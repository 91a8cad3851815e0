package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Store writes artifacts under {root}/{task_id}/.
type Store struct {
	fs      afero.Fs
	root    string
	fetcher *Fetcher
	logger  zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithFetcher replaces the fetcher used for media downloads.
func WithFetcher(f *Fetcher) Option {
	return func(s *Store) {
		s.fetcher = f
	}
}

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store on fs rooted at root.
func NewStore(fs afero.Fs, root string, opts ...Option) *Store {
	s := &Store{
		fs:     fs,
		root:   root,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = NewFetcher(fs, nil)
	}
	return s
}

// Root returns the directory artifacts are written under.
func (s *Store) Root() string {
	return s.root
}

// Persist saves a local copy of the artifact and a JSON sidecar. Failures are
// logged and never returned; FilePath is set only when the payload was written.
func (s *Store) Persist(ctx context.Context, a *domain.Artifact, taskID string) {
	if a == nil {
		return
	}
	log := s.logger.With().Str("task_id", taskID).Str("artifact_id", a.ID).Logger()

	dir, err := s.taskDir(taskID)
	if err != nil {
		log.Warn().Err(err).Msg("skipping artifact persistence")
		return
	}
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		log.Warn().Err(err).Msg("failed to create artifact directory")
		return
	}

	path, err := s.writePayload(ctx, dir, a)
	if err != nil {
		log.Warn().Err(err).Str("type", string(a.Type)).Msg("failed to persist artifact payload")
	}

	sidecar := *a
	sidecar.FilePath = path
	data, err := json.MarshalIndent(&sidecar, "", "  ")
	if err == nil {
		err = atomicWrite(s.fs, filepath.Join(dir, a.ID+constants.SidecarExt), data)
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to write artifact sidecar")
	}

	if path != "" {
		a.FilePath = path
		log.Debug().Str("path", path).Msg("artifact persisted")
	}
}

// writePayload returns the written path, or "" when the artifact carries no
// persistable payload.
func (s *Store) writePayload(ctx context.Context, dir string, a *domain.Artifact) (string, error) {
	switch {
	case (a.Type == domain.ArtifactImage || a.Type == domain.ArtifactVideo) && a.URL != "":
		data, err := s.fetcher.Fetch(ctx, a.URL)
		if err != nil {
			return "", err
		}
		ext := ".png"
		if a.Type == domain.ArtifactVideo {
			ext = ".mp4"
		}
		s.logger.Debug().
			Str("artifact_id", a.ID).
			Str("detected_type", mimetype.Detect(data).String()).
			Int("bytes", len(data)).
			Msg("downloaded artifact media")
		path := filepath.Join(dir, a.ID+ext)
		if err := atomicWrite(s.fs, path, data); err != nil {
			return "", err
		}
		return path, nil

	case a.Type == domain.ArtifactText && a.Content != "":
		path := filepath.Join(dir, a.ID+".txt")
		if err := atomicWrite(s.fs, path, []byte(a.Content)); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", nil
}

func (s *Store) taskDir(taskID string) (string, error) {
	if taskID == "" {
		return "", fmt.Errorf("task id %w", aperrors.ErrEmptyValue)
	}
	if taskID != filepath.Base(taskID) || taskID == "." || taskID == ".." {
		return "", fmt.Errorf("task id %q: %w", taskID, aperrors.ErrPathTraversal)
	}
	return filepath.Join(s.root, taskID), nil
}

// atomicWrite writes data to path using write-then-rename.
func atomicWrite(fs afero.Fs, path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
