// Package errors provides centralized error handling for adpilot.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrConfiguration indicates a required collaborator or integration is not configured.
	// Step executors return it instead of an ad hoc error payload so the engine records
	// the step as failed through its single catch site.
	ErrConfiguration = errors.New("integration not configured")

	// ErrUpstream indicates a generation or publishing collaborator failed or
	// returned an unexpected response.
	ErrUpstream = errors.New("upstream collaborator failed")

	// ErrMissingInput indicates a step could not find a value it needs in the task context.
	ErrMissingInput = errors.New("required input missing")

	// ErrDependencyNotMet indicates a step's declared dependency had not completed.
	ErrDependencyNotMet = errors.New("step dependency not completed")

	// ErrInvalidPlan indicates a plan whose steps reference unknown, self, or later steps.
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrTaskAlreadyExecuted indicates ExecuteTask was called on a terminal task
	// without resetting it first.
	ErrTaskAlreadyExecuted = errors.New("task already executed")

	// ErrTaskNotFound indicates that a specific task was not found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskExists indicates an attempt to create a task that already exists.
	ErrTaskExists = errors.New("task already exists")

	// ErrExecutorNotFound indicates no executor is registered for the given agent.
	ErrExecutorNotFound = errors.New("executor not found for agent")

	// ErrInvalidTransition indicates an attempt to make an invalid state transition.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigNotFound indicates that the configuration file was not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidWorkflow indicates a workflow document that is not valid JSON.
	ErrInvalidWorkflow = errors.New("invalid workflow document")

	// ErrInvalidRecurrence indicates a recurrence pattern that is not a valid cron expression.
	ErrInvalidRecurrence = errors.New("invalid recurrence pattern")

	// ErrInvalidSchedule indicates a schedule time that is not RFC3339.
	ErrInvalidSchedule = errors.New("invalid schedule time")

	// ErrInvalidPriority indicates a task priority outside low, normal, high, urgent.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrLockTimeout indicates a task file lock could not be acquired in time.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrPathTraversal indicates an attempt to use path traversal in a filename.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrUnsupportedProvider indicates an unknown text-generation provider name.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrPredictionFailed indicates a media prediction finished in a failed state.
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrBrowserAgent indicates the generic browser agent could not reach its goal.
	ErrBrowserAgent = errors.New("browser agent failed")

	// ErrRenderFailed indicates the local media renderer failed.
	ErrRenderFailed = errors.New("local render failed")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrJSONErrorOutput = errors.New("error output as JSON")

	// ErrTaskFailed indicates a CLI-run task ended in the failed state.
	ErrTaskFailed = errors.New("task failed")
)

// Is reports whether any error in err's chain matches target.
// It re-exports the standard library function so callers importing this
// package under its usual alias do not also need the stdlib package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
