package task

import (
	"fmt"
	"strings"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
)

// BuildSummary renders the Markdown final summary of a task.
func BuildSummary(task *domain.Task) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", domain.Truncate(task.Description, 80))
	fmt.Fprintf(&b, "**Status:** %s\n", task.Status)
	fmt.Fprintf(&b, "**Steps:** %d/%d completed, %d failed\n",
		task.CountSteps(constants.StepStatusCompleted),
		len(task.Steps),
		task.CountSteps(constants.StepStatusFailed))
	if len(task.PublishTo) > 0 {
		fmt.Fprintf(&b, "**Published to:** %s\n", strings.Join(task.PublishTo, ", "))
	}

	b.WriteString("\n### Artifacts\n")
	if len(task.Artifacts) == 0 {
		b.WriteString("None\n")
	}
	var order []domain.ArtifactType
	byType := make(map[domain.ArtifactType][]*domain.Artifact)
	for _, a := range task.Artifacts {
		if _, seen := byType[a.Type]; !seen {
			order = append(order, a.Type)
		}
		byType[a.Type] = append(byType[a.Type], a)
	}
	for _, typ := range order {
		items := byType[typ]
		fmt.Fprintf(&b, "- **%s** (%d): %s\n", typ, len(items), artifactRefs(items))
	}

	var issues []string
	for _, s := range task.Steps {
		if s.Status == constants.StepStatusFailed {
			issues = append(issues, fmt.Sprintf("- %s: %s", s.Name, firstLine(s.Error)))
		}
	}
	if len(issues) > 0 {
		b.WriteString("\n### Issues\n")
		b.WriteString(strings.Join(issues, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func artifactRefs(items []*domain.Artifact) string {
	refs := make([]string, 0, len(items))
	for _, a := range items {
		switch {
		case a.URL != "":
			refs = append(refs, a.URL)
		case a.FilePath != "":
			refs = append(refs, a.FilePath)
		default:
			refs = append(refs, a.Name)
		}
	}
	return strings.Join(refs, ", ")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
