// Package prompts holds the text/template prompts sent to text and image
// models. Templates are embedded at compile time; shared fragments live in
// templates/common.
package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrTemplateNotFound indicates the requested template doesn't exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateExecution indicates a failure during template execution.
	ErrTemplateExecution = errors.New("template execution failed")

	// ErrInvalidData indicates data of the wrong type for a prompt.
	ErrInvalidData = errors.New("invalid data type for template")
)

// String returns the prompt id.
func (id PromptID) String() string { return string(id) }

// Render executes prompt id with data, which must be the data type the
// prompt expects:
//
//	prompt, err := prompts.Render(prompts.WriterBlogPost, prompts.WriterData{
//	    Description: "Summer sun hat launch",
//	    StepName:    "Write Blog Post",
//	})
func Render(id PromptID, data any) (string, error) {
	t, err := lookup(id)
	if err != nil {
		return "", err
	}
	if err := checkData(id, data); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, id.String(), data); err != nil {
		return "", errors.Join(ErrTemplateExecution, fmt.Errorf("prompt %s: %w", id, err))
	}
	return buf.String(), nil
}

// List returns every prompt id, sorted.
func List() []PromptID {
	all, err := loadTemplates()
	if err != nil {
		return nil
	}
	ids := make([]PromptID, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func checkData(id PromptID, data any) error {
	var ok bool
	switch id {
	case TaskPlan:
		_, ok = data.(PlanData)
	case DesignGeneric, DesignThumbnail, DesignSocialImage:
		_, ok = data.(DesignData)
	case WriterProductDescription, WriterVideoScript, WriterBlogPost,
		WriterSocialPost, WriterMarketingCopy, WriterGeneric:
		_, ok = data.(WriterData)
	case MarketerCampaign:
		_, ok = data.(MarketerData)
	case VideoMotion:
		_, ok = data.(VideoData)
	case YouTubeDescription:
		_, ok = data.(YouTubeData)
	default:
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: %s got %T", ErrInvalidData, id, data)
	}
	return nil
}
