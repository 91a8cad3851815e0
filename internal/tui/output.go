package tui

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Output writes command results in one of the supported formats.
type Output interface {
	Success(msg string)
	Error(err error)
	Warning(msg string)
	Info(msg string)

	// Data writes a structured result.
	Data(v any) error
}

// NewOutput returns the Output for format. Unknown formats fall back to text.
func NewOutput(w io.Writer, format string) Output {
	switch format {
	case FormatJSON:
		return NewJSONOutput(w)
	case FormatYAML:
		return NewYAMLOutput(w)
	default:
		return NewTTYOutput(w)
	}
}

// TTYOutput writes styled, human-oriented output.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a TTYOutput. It honors NO_COLOR.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()
	return &TTYOutput{w: w, styles: NewOutputStyles()}
}

// Success prints a ✓ line.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints a ✗ line and, for known errors, a suggested next action.
func (o *TTYOutput) Error(err error) {
	_, action := aperrors.Actionable(err)
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+err.Error()))
	if action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning prints a ⚠ line.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints an informational line.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// Data prints v as indented JSON.
func (o *TTYOutput) Data(v any) error {
	return encodeJSON(o.w, v)
}

// JSONOutput writes one JSON document per message.
type JSONOutput struct {
	w io.Writer
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// Success writes {"type":"success",...}.
func (o *JSONOutput) Success(msg string) { o.message("success", msg, "") }

// Error writes {"type":"error",...} with the suggested action when known.
func (o *JSONOutput) Error(err error) {
	_, action := aperrors.Actionable(err)
	o.message("error", err.Error(), action)
}

// Warning writes {"type":"warning",...}.
func (o *JSONOutput) Warning(msg string) { o.message("warning", msg, "") }

// Info writes {"type":"info",...}.
func (o *JSONOutput) Info(msg string) { o.message("info", msg, "") }

// Data writes v as indented JSON.
func (o *JSONOutput) Data(v any) error {
	return encodeJSON(o.w, v)
}

func (o *JSONOutput) message(typ, msg, action string) {
	//nolint:errchkjson // interface methods have no error return
	_ = json.NewEncoder(o.w).Encode(jsonMessage{Type: typ, Message: msg, Action: action})
}

// YAMLOutput writes results as YAML. Messages go out as YAML comments so
// the document stays parseable.
type YAMLOutput struct {
	w io.Writer
}

// NewYAMLOutput creates a YAMLOutput.
func NewYAMLOutput(w io.Writer) *YAMLOutput {
	return &YAMLOutput{w: w}
}

// Success writes a comment line.
func (o *YAMLOutput) Success(msg string) { _, _ = fmt.Fprintf(o.w, "# %s\n", msg) }

// Error writes a comment line.
func (o *YAMLOutput) Error(err error) {
	_, _ = fmt.Fprintf(o.w, "# error: %s\n", err.Error())
}

// Warning writes a comment line.
func (o *YAMLOutput) Warning(msg string) { _, _ = fmt.Fprintf(o.w, "# warning: %s\n", msg) }

// Info writes a comment line.
func (o *YAMLOutput) Info(msg string) { _, _ = fmt.Fprintf(o.w, "# %s\n", msg) }

// Data writes v as YAML using its JSON field names.
func (o *YAMLOutput) Data(v any) error {
	return EncodeYAML(o.w, v)
}

// EncodeYAML writes v as YAML. Values are first round-tripped through
// encoding/json so struct json tags and MarshalJSON methods decide the keys.
func EncodeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
