package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/adpilot/internal/constants"
)

// StepLine describes one progress update of a running task.
type StepLine struct {
	TaskID string
	Index  int // zero-based
	Total  int
	Name   string
	Agent  string
	Status constants.TaskStatus

	// Detail is the error of a failed step or a short artifact note.
	Detail string
}

// FormatStepLine renders a progress update, for example:
//
//	[2/4] ✓ Write Blog Post (writer) · 1 artifact
func FormatStepLine(l StepLine) string {
	counter := StyleDim.Render(fmt.Sprintf("[%d/%d]", l.Index+1, l.Total))
	status := lipgloss.NewStyle().Foreground(StatusColor(l.Status)).Render(StatusIcon(l.Status))

	var b strings.Builder
	if l.TaskID != "" {
		b.WriteString(StyleDim.Render(l.TaskID) + " ")
	}
	b.WriteString(counter + " " + status + " " + l.Name)
	if l.Agent != "" {
		b.WriteString(StyleDim.Render(" (" + l.Agent + ")"))
	}
	if l.Detail != "" {
		detailStyle := StyleDim
		if l.Status == constants.TaskStatusFailed {
			detailStyle = lipgloss.NewStyle().Foreground(ColorError)
		}
		b.WriteString(" · " + detailStyle.Render(l.Detail))
	}
	return b.String()
}

// ProgressBar renders fraction in [0, 1] as a fixed-width bar.
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		width = 20
	}
	fraction = max(0, min(1, fraction))
	filled := int(fraction * float64(width))
	bar := lipgloss.NewStyle().Foreground(ColorSuccess).Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, fraction*100)
}
