package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	{
		err: ErrConfiguration,
		info: ErrorInfo{
			Message: "A required integration is not configured.",
			Action:  "Set the credentials named in your config (see 'adpilot config show').",
		},
	},
	{
		err: ErrUpstream,
		info: ErrorInfo{
			Message: "An external generation or publishing service failed.",
			Action:  "Check the service status and your quota, then re-run the task.",
		},
	},
	{
		err: ErrMissingInput,
		info: ErrorInfo{
			Message: "A step needed output from an earlier step that was not produced.",
			Action:  "Check the earlier steps in the task summary for failures.",
		},
	},
	{
		err: ErrDependencyNotMet,
		info: ErrorInfo{
			Message: "A step was skipped because a step it depends on did not complete.",
			Action:  "Fix the failing dependency and re-run the task.",
		},
	},
	{
		err: ErrInvalidPlan,
		info: ErrorInfo{
			Message: "The generated plan has inconsistent step dependencies.",
			Action:  "Rephrase the task description and try again.",
		},
	},
	{
		err: ErrTaskAlreadyExecuted,
		info: ErrorInfo{
			Message: "This task has already run.",
			Action:  "Run 'adpilot resume <task-id> --rerun' to run it again.",
		},
	},
	{
		err: ErrTaskNotFound,
		info: ErrorInfo{
			Message: "The requested task does not exist.",
			Action:  "Run 'adpilot status' to list known tasks.",
		},
	},
	{
		err: ErrConfigInvalid,
		info: ErrorInfo{
			Message: "The configuration contains an invalid value.",
			Action:  "Review ~/.adpilot/config.yaml and .adpilot/config.yaml.",
		},
	},
	{
		err: ErrInvalidWorkflow,
		info: ErrorInfo{
			Message: "The workflow file is not valid JSON.",
			Action:  "Export the workflow again from the source tool.",
		},
	},
	{
		err: ErrInvalidRecurrence,
		info: ErrorInfo{
			Message: "The recurrence pattern is not a valid cron expression.",
			Action:  "Use a five-field cron expression such as '0 9 * * 1'.",
		},
	},
	{
		err: ErrInvalidSchedule,
		info: ErrorInfo{
			Message: "The schedule time could not be parsed.",
			Action:  "Pass an RFC3339 time such as 2026-12-01T09:00:00Z.",
		},
	},
	{
		err: ErrInvalidPriority,
		info: ErrorInfo{
			Message: "The task priority is not recognized.",
			Action:  "Use one of low, normal, high, urgent.",
		},
	},
	{
		err: ErrTaskFailed,
		info: ErrorInfo{
			Message: "The task finished with every step failed.",
			Action:  "Run 'adpilot status <task-id>' to see each step's error.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Another adpilot process is writing this task.",
			Action:  "Wait for it to finish, then try again.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup, then falls back to errors.Is() traversal
// for wrapped errors. Unknown errors keep their original message.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested action.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
