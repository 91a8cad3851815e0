package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/adpilot/internal/clock"
	"github.com/mrz1836/adpilot/internal/constants"
)

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "✓", StatusIcon(constants.TaskStatusCompleted))
	assert.Equal(t, "✗", StatusIcon(constants.TaskStatusFailed))
	assert.Equal(t, "●", StatusIcon(constants.TaskStatusRunning))
	assert.Equal(t, "◷", StatusIcon(constants.TaskStatusScheduled))
	assert.Equal(t, "?", StatusIcon(constants.TaskStatus("bogus")))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, StatusColor(constants.TaskStatusCompleted))
	assert.Equal(t, ColorError, StatusColor(constants.TaskStatusFailed))
	assert.Equal(t, ColorMuted, StatusColor(constants.TaskStatusCancelled))
	assert.Equal(t, ColorPrimary, StatusColor(constants.TaskStatusReady))
}

func TestHasColorSupport(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	assert.False(t, HasColorSupport(), "an empty NO_COLOR still disables color")
}

func TestRelativeTimeWith(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c := clock.Fixed{T: now}

	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-1 * time.Minute), "1 minute ago"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-3 * time.Hour), "3 hours ago"},
		{now.Add(-48 * time.Hour), "2 days ago"},
		{now.Add(-21 * 24 * time.Hour), "3 weeks ago"},
		{now.Add(2 * time.Hour), "in 2 hours"},
		{now.Add(30 * time.Second), "in less than a minute"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, RelativeTimeWith(tc.at, c))
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "-", FormatDuration(0))
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "4.2s", FormatDuration(4200*time.Millisecond))
	assert.Equal(t, "2m5s", FormatDuration(125*time.Second))
}

func TestFormatStepLine(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	CheckNoColor()

	line := FormatStepLine(StepLine{
		Index:  1,
		Total:  4,
		Name:   "Write Blog Post",
		Agent:  "writer",
		Status: constants.TaskStatusFailed,
		Detail: "model overloaded",
	})
	assert.Equal(t, "[2/4] ✗ Write Blog Post (writer) · model overloaded", line)

	line = FormatStepLine(StepLine{TaskID: "ab12", Total: 1, Name: "Design", Status: constants.TaskStatusCompleted})
	assert.Equal(t, "ab12 [1/1] ✓ Design", line)
}

func TestProgressBar(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	CheckNoColor()

	assert.Equal(t, "█████░░░░░  50%", ProgressBar(0.5, 10))
	assert.Equal(t, "██████████ 100%", ProgressBar(1.5, 10))
	assert.Equal(t, "░░░░░░░░░░   0%", ProgressBar(-1, 10))
}

func TestRenderMarkdown(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Empty(t, RenderMarkdown("  "))

	out := RenderMarkdown("# Summary\n\n- Design T-Shirt: done\n")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Design T-Shirt: done")
}
