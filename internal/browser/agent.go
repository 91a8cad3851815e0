package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

const agentSystemPrompt = `You control a web browser to accomplish a marketing task.
Use the tools one at a time. Read the page before interacting with it.
Call "done" as soon as the goal is reached or cannot be reached.`

// page length handed back to the model per tool call
const maxObservation = 4000

// LLMAgent is a generic browser agent: an LLM chooses page primitives through
// tool calls until it reports completion or runs out of steps.
type LLMAgent struct {
	model  llms.Model
	opener SessionOpener
	logger zerolog.Logger
}

// NewLLMAgent creates an LLMAgent.
func NewLLMAgent(model llms.Model, opener SessionOpener, logger zerolog.Logger) *LLMAgent {
	return &LLMAgent{model: model, opener: opener, logger: logger}
}

type toolArgs struct {
	URL      string `json:"url"`
	Selector string `json:"selector"`
	Text     string `json:"text"`
	FileURL  string `json:"file_url"`
	Success  bool   `json:"success"`
	Summary  string `json:"summary"`
}

func agentTools() []llms.Tool {
	fn := func(name, desc string, props map[string]any, required ...string) llms.Tool {
		return llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        name,
				Description: desc,
				Parameters: map[string]any{
					"type":       "object",
					"properties": props,
					"required":   required,
				},
			},
		}
	}
	str := map[string]any{"type": "string"}
	return []llms.Tool{
		fn("navigate", "Open a URL in the current tab.", map[string]any{"url": str}, "url"),
		fn("click", "Click the element matching a CSS selector.", map[string]any{"selector": str}, "selector"),
		fn("type", "Type text into the element matching a CSS selector.", map[string]any{"selector": str, "text": str}, "selector", "text"),
		fn("upload", "Attach a file from a URL to a file input.", map[string]any{"selector": str, "file_url": str}, "selector", "file_url"),
		fn("read_page", "Return the visible text and interactive elements of the page.", map[string]any{}),
		fn("done", "Finish the task.", map[string]any{"success": map[string]any{"type": "boolean"}, "summary": str}, "success", "summary"),
	}
}

// Execute implements Agent.
func (a *LLMAgent) Execute(ctx context.Context, goal string, maxSteps int) (*Result, error) {
	if a.model == nil || a.opener == nil {
		return nil, fmt.Errorf("%w: browser agent", aperrors.ErrConfiguration)
	}
	if maxSteps <= 0 {
		maxSteps = constants.DefaultBrowserMaxSteps
	}

	session, err := a.opener.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := session.Close(context.WithoutCancel(ctx)); cerr != nil {
			a.logger.Warn().Err(cerr).Msg("failed to close browser session")
		}
	}()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, agentSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, goal),
	}
	tools := agentTools()

	for step := 1; step <= maxSteps; step++ {
		resp, err := a.model.GenerateContent(ctx, messages, llms.WithTools(tools))
		if err != nil {
			return nil, fmt.Errorf("%w: browser agent step %d: %w", aperrors.ErrUpstream, step, err)
		}
		if resp == nil || len(resp.Choices) == 0 {
			return nil, fmt.Errorf("%w: browser agent step %d: empty response", aperrors.ErrUpstream, step)
		}
		choice := resp.Choices[0]
		if len(choice.ToolCalls) == 0 {
			// A plain reply without tool use ends the run with the model's words as output.
			return &Result{Success: false, Output: choice.Content, Steps: step}, nil
		}

		call := choice.ToolCalls[0]
		if call.FunctionCall == nil {
			return nil, fmt.Errorf("%w: browser agent step %d: tool call without function", aperrors.ErrBrowserAgent, step)
		}
		var args toolArgs
		if call.FunctionCall.Arguments != "" {
			if err := json.Unmarshal([]byte(call.FunctionCall.Arguments), &args); err != nil {
				return nil, fmt.Errorf("%w: browser agent step %d: bad arguments: %w", aperrors.ErrBrowserAgent, step, err)
			}
		}

		name := call.FunctionCall.Name
		a.logger.Debug().Int("step", step).Str("tool", name).Msg("browser agent action")

		if name == "done" {
			return &Result{Success: args.Success, Output: args.Summary, Steps: step}, nil
		}

		observation, toolErr := a.invoke(ctx, session, name, args)
		if toolErr != nil {
			observation = "error: " + toolErr.Error()
		}
		observation = domain.Truncate(observation, maxObservation)

		messages = append(messages,
			llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: []llms.ContentPart{call}},
			llms.MessageContent{Role: llms.ChatMessageTypeTool, Parts: []llms.ContentPart{
				llms.ToolCallResponse{ToolCallID: call.ID, Name: name, Content: observation},
			}},
		)
	}

	return nil, fmt.Errorf("%w: gave up after %d steps", aperrors.ErrBrowserAgent, maxSteps)
}

func (a *LLMAgent) invoke(ctx context.Context, s Session, name string, args toolArgs) (string, error) {
	switch name {
	case "navigate":
		return s.Navigate(ctx, args.URL)
	case "click":
		return s.Click(ctx, args.Selector)
	case "type":
		return s.Type(ctx, args.Selector, args.Text)
	case "upload":
		return s.Upload(ctx, args.Selector, args.FileURL)
	case "read_page":
		return s.ReadPage(ctx)
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}
