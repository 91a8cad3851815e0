// Package constants provides centralized constant values used throughout adpilot.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// File names used for state persistence.
const (
	// TaskFileName is the name of the JSON file that stores a checkpointed task.
	TaskFileName = "task.json"

	// SidecarExt is the extension of the JSON sidecar written next to every artifact.
	SidecarExt = ".json"
)

// Directory names and paths used for organizing data.
const (
	// AppHome is the hidden directory name where adpilot stores all its data.
	// This directory is created in the user's home directory.
	AppHome = ".adpilot"

	// TasksDir is the directory name where checkpointed task state is stored.
	TasksDir = "tasks"

	// ArtifactsDir is the directory name where step artifacts are persisted.
	ArtifactsDir = "artifacts"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// RenderDir is the scratch directory for locally rendered media.
	RenderDir = "render"
)

// Timeout configurations for collaborator calls.
const (
	// DefaultTextTimeout bounds a single text-generation call.
	DefaultTextTimeout = 2 * time.Minute

	// DefaultHTTPTimeout bounds ordinary publishing and download calls.
	DefaultHTTPTimeout = 60 * time.Second

	// DefaultMediaTimeout bounds a media prediction including polling.
	// Video generation routinely takes several minutes.
	DefaultMediaTimeout = 15 * time.Minute

	// DefaultPollInterval is the interval between prediction status checks.
	DefaultPollInterval = 3 * time.Second

	// DefaultBrowserTimeout bounds one browser-automation run.
	DefaultBrowserTimeout = 10 * time.Minute
)

// Engine and planner defaults.
const (
	// DefaultBatchWorkers is the default size of the batch worker pool.
	DefaultBatchWorkers = 3

	// DefaultBrowserMaxSteps caps the generic browser agent's tool-use loop.
	DefaultBrowserMaxSteps = 15

	// DefaultPlanCacheSize is the number of plans kept in the planner cache.
	DefaultPlanCacheSize = 128

	// DefaultKenBurnsSeconds is the length of a locally rendered zoom/pan clip.
	DefaultKenBurnsSeconds = 6

	// ArtifactDisplayLimit is the number of characters of artifact text kept in
	// any serialized or display view.
	ArtifactDisplayLimit = 500

	// ShortIDLength is the length of generated task and artifact ids.
	ShortIDLength = 8
)

// Schema version constants for data migration support.
const (
	// TaskSchemaVersion is the current version of the task JSON schema.
	TaskSchemaVersion = "1.0"
)
