// Package tui renders adpilot's terminal output: styled status lines,
// tables, markdown summaries and machine-readable encodings.
//
// Colors use lipgloss AdaptiveColor for light and dark terminals. Every
// status is shown as icon, color and text so output stays readable when
// colors are disabled through NO_COLOR or TERM=dumb.
//
// Import rules:
//   - CAN import: internal/constants, internal/errors, internal/clock, std lib
//   - MUST NOT import: domain, task or service packages
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/adpilot/internal/constants"
)

//nolint:gochecknoglobals // shared palette
var (
	// ColorPrimary marks running work and headings.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess marks completed tasks and steps.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning marks scheduled or paused work.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError marks failures.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted marks secondary text and cancelled work.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	StyleBold = lipgloss.NewStyle().Bold(true)
	StyleDim  = lipgloss.NewStyle().Faint(true)
)

// OutputStyles holds the message styles used by TTYOutput.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
}

// NewOutputStyles creates the message styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
	}
}

// CheckNoColor switches lipgloss to plain ASCII when colors are unwanted.
// Call it at the start of commands that print styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport follows https://no-color.org: NO_COLOR set to any value,
// including empty, disables color. So does TERM=dumb.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// StatusColor returns the color of a task or step status.
func StatusColor(status constants.TaskStatus) lipgloss.AdaptiveColor {
	switch status {
	case constants.TaskStatusCompleted:
		return ColorSuccess
	case constants.TaskStatusFailed:
		return ColorError
	case constants.TaskStatusScheduled, constants.TaskStatusPaused:
		return ColorWarning
	case constants.TaskStatusCancelled:
		return ColorMuted
	default:
		return ColorPrimary
	}
}

// StatusIcon returns the icon shown next to a task or step status.
func StatusIcon(status constants.TaskStatus) string {
	switch status {
	case constants.TaskStatusPending, constants.TaskStatusReady:
		return "○"
	case constants.TaskStatusScheduled:
		return "◷"
	case constants.TaskStatusPlanning:
		return "…"
	case constants.TaskStatusRunning:
		return "●"
	case constants.TaskStatusPaused:
		return "‖"
	case constants.TaskStatusCompleted:
		return "✓"
	case constants.TaskStatusFailed:
		return "✗"
	case constants.TaskStatusCancelled:
		return "⊘"
	default:
		return "?"
	}
}

// RenderStatus renders icon and status text in the status color.
func RenderStatus(status constants.TaskStatus) string {
	return lipgloss.NewStyle().
		Foreground(StatusColor(status)).
		Render(StatusIcon(status) + " " + string(status))
}
