package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/mrz1836/adpilot/internal/clock"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

const n8nFixture = `{
  "name": "Weekly promo",
  "nodes": [
    {"id": "a", "name": "Every Monday", "type": "n8n-nodes-base.scheduleTrigger",
     "parameters": {"rule": {"interval": [{"field": "cronExpression", "expression": "0 9 * * 1"}]}}},
    {"id": "b", "name": "Write Copy", "type": "@n8n/n8n-nodes-langchain.openAi",
     "parameters": {"prompt": "Write a tagline for summer hats", "modelId": {"__rl": true, "value": "gpt-4o"}}},
    {"id": "c", "name": "Has Copy?", "type": "n8n-nodes-base.if", "parameters": {}},
    {"id": "d", "name": "Post", "type": "n8n-nodes-base.twitter", "parameters": {"text": "Summer hats are here"}},
    {"id": "e", "name": "Call API", "type": "n8n-nodes-base.httpRequest", "parameters": {"url": "https://api.example.com"}, "disabled": true}
  ],
  "connections": {}
}`

const comfyGraphFixture = `{
  "last_node_id": 4,
  "nodes": [
    {"id": 1, "type": "CheckpointLoaderSimple", "widgets_values": ["sdxl.safetensors"]},
    {"id": 2, "type": "CLIPTextEncode", "widgets_values": ["a straw beach hat"]},
    {"id": 3, "type": "KSampler", "title": "Sample"},
    {"id": 4, "type": "SaveImage"}
  ],
  "links": [[1, 1, 0, 3, 0, "MODEL"]]
}`

const nodeREDFixture = `[
  {"id": "t1", "type": "tab", "label": "Flow 1"},
  {"id": "n1", "type": "inject", "z": "t1", "name": "weekly", "crontab": "00 09 * * 1"},
  {"id": "n2", "type": "http request", "z": "t1", "url": "http://x"},
  {"id": "n3", "type": "switch", "z": "t1"},
  {"id": "n4", "type": "debug", "z": "t1", "d": true}
]`

const homeAssistantFixture = `{
  "alias": "Morning promo",
  "triggers": [{"trigger": "time", "at": "08:30:00"}],
  "conditions": [{"condition": "state", "entity_id": "input_boolean.promo", "state": "on"}],
  "actions": [
    {"action": "tts.speak", "data": {"message": "Summer sale starts today"}},
    {"action": "notify.mobile_app", "data": {"message": "Sale live"}},
    {"delay": "00:00:05"}
  ]
}`

const makeFixture = `{
  "name": "Scenario",
  "flow": [
    {"id": 1, "module": "google-sheets:watchRows", "mapper": {}},
    {"id": 2, "module": "openai-gpt-3:CreateImage", "mapper": {"prompt": "hat on a beach", "model": "dall-e-3"}},
    {"id": 3, "module": "builtin:BasicRouter", "routes": [
      {"flow": [{"id": 4, "module": "instagram-business:CreatePostPhoto", "mapper": {"caption": "x"}}]},
      {"flow": [{"id": 5, "module": "http:ActionSendData", "mapper": {"url": "https://x"}}]}
    ]}
  ],
  "metadata": {}
}`

const activepiecesFixture = `{
  "displayName": "Promo flow",
  "version": "1",
  "trigger": {
    "name": "trigger", "type": "PIECE_TRIGGER", "displayName": "Every week",
    "settings": {"pieceName": "@activepieces/piece-schedule", "input": {"cronExpression": "0 10 * * 2"}},
    "nextAction": {
      "name": "step_1", "type": "PIECE", "displayName": "Ask GPT",
      "settings": {"pieceName": "@activepieces/piece-openai", "input": {"prompt": "Write a promo", "model": "gpt-4o-mini"}},
      "nextAction": {
        "name": "step_2", "type": "LOOP_ON_ITEMS", "displayName": "Each channel", "settings": {"items": "{{x}}"},
        "firstLoopAction": {
          "name": "step_3", "type": "PIECE", "displayName": "Send to Slack",
          "settings": {"pieceName": "@activepieces/piece-slack", "input": {"text": "promo"}}
        },
        "nextAction": {"name": "step_4", "type": "CODE", "displayName": "Format", "settings": {"input": {}}}
      }
    }
  }
}`

const windmillFixture = `{
  "summary": "promo",
  "value": {"modules": [
    {"id": "a", "summary": "Generate copy", "value": {"type": "script", "path": "hub/1234/openai/create_completion",
      "input_transforms": {"prompt": {"type": "static", "value": "Write a promo"}}}},
    {"id": "b", "value": {"type": "forloopflow", "modules": [
      {"id": "c", "value": {"type": "rawscript", "language": "deno", "content": "export async function main() {}", "input_transforms": {}}}
    ]}},
    {"id": "d", "value": {"type": "branchone", "default": [], "branches": [
      {"modules": [{"id": "e", "value": {"type": "script", "path": "hub/99/slack/send_message", "input_transforms": {}}}]}
    ]}}
  ]}
}`

const pipedreamFixture = `{
  "steps": [
    {"namespace": "generate", "key": "openai-chat", "props": {"message": "Write a tweet", "model": "gpt-4"}},
    {"namespace": "post", "app": "twitter", "props": {"text": "hi"}}
  ]
}`

const comfyPromptFixture = `{
  "3": {"class_type": "KSampler", "inputs": {"seed": 1}},
  "4": {"class_type": "CheckpointLoaderSimple", "inputs": {"ckpt_name": "sdxl.safetensors"}},
  "6": {"class_type": "CLIPTextEncode", "inputs": {"text": "a straw hat", "clip": ["4", 1]}},
  "9": {"class_type": "SaveImage", "inputs": {"filename_prefix": "hat"}, "_meta": {"title": "Save"}}
}`

var testNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func convertFixture(t *testing.T, doc string) (*NormalizedWorkflow, *Analysis) {
	t.Helper()
	wf, analysis, err := NewConverter(WithClock(clock.Fixed{T: testNow})).Convert([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, wf)
	require.NotNil(t, analysis)
	return wf, analysis
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Platform
	}{
		{"n8n", n8nFixture, PlatformN8N},
		{"comfyui graph", comfyGraphFixture, PlatformComfyUIGraph},
		{"node-red", nodeREDFixture, PlatformNodeRED},
		{"home assistant", homeAssistantFixture, PlatformHomeAssistant},
		{"make", makeFixture, PlatformMake},
		{"make modules", `{"flow": {"modules": [{"module": "http:ActionSendData"}]}}`, PlatformMake},
		{"activepieces", activepiecesFixture, PlatformActivepieces},
		{"windmill", windmillFixture, PlatformWindmill},
		{"pipedream", pipedreamFixture, PlatformPipedream},
		{"comfyui prompt", comfyPromptFixture, PlatformComfyUI},
		{"empty object", `{}`, PlatformUnknown},
		{"plain array", `[1, 2, 3]`, PlatformUnknown},
		{"nodes without prefix or links", `{"nodes": [{"type": "custom"}]}`, PlatformUnknown},
		{"alias without actions", `{"alias": "x", "triggers": []}`, PlatformUnknown},
		{"steps without props", `{"steps": [{"name": "a"}]}`, PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(gjson.Parse(tt.doc)))
		})
	}
}

func TestConvert_Fixtures(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		platform  Platform
		nodes     int
		steps     int
		triggers  int
		cron      string
		condition bool
		loop      bool
	}{
		{"n8n", n8nFixture, PlatformN8N, 5, 3, 1, "0 9 * * 1", true, false},
		{"comfyui graph", comfyGraphFixture, PlatformComfyUIGraph, 4, 4, 0, "", false, false},
		{"node-red", nodeREDFixture, PlatformNodeRED, 4, 2, 1, "00 09 * * 1", true, false},
		{"home assistant", homeAssistantFixture, PlatformHomeAssistant, 5, 3, 1, "30 8 * * *", true, false},
		{"make", makeFixture, PlatformMake, 5, 3, 1, "", true, false},
		{"activepieces", activepiecesFixture, PlatformActivepieces, 5, 3, 1, "0 10 * * 2", false, true},
		{"windmill", windmillFixture, PlatformWindmill, 5, 3, 0, "", true, true},
		{"pipedream", pipedreamFixture, PlatformPipedream, 2, 2, 0, "", false, false},
		{"comfyui prompt", comfyPromptFixture, PlatformComfyUI, 4, 4, 0, "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, analysis := convertFixture(t, tt.doc)

			assert.Equal(t, tt.platform, wf.Source)
			assert.Equal(t, tt.platform, analysis.Platform)
			assert.Equal(t, tt.nodes, analysis.NodeCount)
			assert.Len(t, analysis.Nodes, tt.nodes)
			assert.Len(t, wf.Steps, tt.steps)
			assert.Equal(t, tt.steps, analysis.StepCount)
			assert.Equal(t, tt.triggers, analysis.TriggerCount)
			assert.Equal(t, tt.condition, analysis.HasConditions)
			assert.Equal(t, tt.loop, analysis.HasLoops)

			for i, s := range wf.Steps {
				assert.Equal(t, fmt.Sprintf("step_%d", i+1), s.ID)
				assert.NotEmpty(t, s.Category, s.Description)
				assert.NotEmpty(t, s.Type, s.Description)
				assert.NotEmpty(t, s.Description)
			}

			if tt.cron == "" {
				assert.Nil(t, wf.Schedule)
			} else {
				require.NotNil(t, wf.Schedule)
				assert.Equal(t, tt.cron, wf.Schedule.Cron)
				assert.True(t, wf.Schedule.NextRun.After(testNow))
			}
			assert.InDelta(t, complexity(analysis), analysis.Complexity, 1e-9)
			assert.LessOrEqual(t, analysis.Complexity, 1.0)
		})
	}
}

func TestConvert_ActivepiecesLongChain(t *testing.T) {
	const actions = 40
	var next map[string]any
	for i := actions; i >= 1; i-- {
		a := map[string]any{
			"name":        fmt.Sprintf("step_%d", i),
			"type":        "CODE",
			"displayName": fmt.Sprintf("Code %d", i),
			"settings":    map[string]any{"input": map[string]any{}},
		}
		if next != nil {
			a["nextAction"] = next
		}
		next = a
	}
	doc, err := json.Marshal(map[string]any{
		"displayName": "Long flow",
		"version":     "1",
		"trigger": map[string]any{
			"name": "trigger", "type": "EMPTY", "displayName": "Start",
			"settings":   map[string]any{},
			"nextAction": next,
		},
	})
	require.NoError(t, err)

	wf, analysis := convertFixture(t, string(doc))
	assert.Equal(t, PlatformActivepieces, wf.Source)
	assert.Equal(t, actions+1, analysis.NodeCount)
	require.Len(t, wf.Steps, actions)
	assert.Equal(t, "Code 40", wf.Steps[actions-1].Description)
}

func TestConvert_N8NDetails(t *testing.T) {
	wf, analysis := convertFixture(t, n8nFixture)

	require.Len(t, wf.Steps, 3)
	ai := wf.Steps[0]
	assert.Equal(t, CategoryText, ai.Category)
	assert.Equal(t, StepGenerateText, ai.Type)
	assert.Equal(t, "Write Copy", ai.Description)
	assert.Equal(t, "Write a tagline for summer hats", ai.Config["prompt"])
	assert.Equal(t, "gpt-4o", ai.Config["model"])
	assert.Equal(t, "b", ai.Config["source_id"])
	assert.True(t, ai.Enabled)

	assert.Equal(t, CategorySocial, wf.Steps[1].Category)
	assert.False(t, wf.Steps[2].Enabled)

	assert.Equal(t, []Output{{StepID: "step_2", Category: CategorySocial}}, wf.Outputs)

	assert.Equal(t, []string{"Every Monday"}, analysis.Triggers)
	assert.True(t, analysis.HasAIGeneration)
	assert.True(t, analysis.HasDistribution)
	assert.True(t, analysis.HasAPICalls)
	assert.Equal(t, []string{"gpt-4o"}, analysis.Models)
	assert.Contains(t, analysis.Prompts, "Write a tagline for summer hats")
	assert.Contains(t, analysis.Intents, IntentTextGeneration)
	// 0.3*5/50 + condition + AI + API
	assert.InDelta(t, 0.43, analysis.Complexity, 1e-9)
}

func TestConvert_ExtractsFromNestedPlatforms(t *testing.T) {
	t.Run("home assistant data", func(t *testing.T) {
		wf, analysis := convertFixture(t, homeAssistantFixture)
		assert.Equal(t, StepGenerateAudio, wf.Steps[0].Type)
		assert.Equal(t, "Summer sale starts today", wf.Steps[0].Config["prompt"])
		assert.Equal(t, CategoryNotification, wf.Steps[1].Category)
		assert.Equal(t, []string{"Summer sale starts today", "Sale live"}, analysis.Prompts)
	})

	t.Run("make routes", func(t *testing.T) {
		wf, analysis := convertFixture(t, makeFixture)
		assert.Equal(t, StepGenerateImage, wf.Steps[0].Type)
		assert.Equal(t, "dall-e-3", wf.Steps[0].Config["model"])
		assert.Equal(t, StepPostSocial, wf.Steps[1].Type)
		assert.Equal(t, StepHTTPRequest, wf.Steps[2].Type)
		assert.Equal(t, []string{"google-sheets:watchRows"}, analysis.Triggers)
	})

	t.Run("windmill input transforms", func(t *testing.T) {
		wf, _ := convertFixture(t, windmillFixture)
		assert.Equal(t, "hub:openai", wf.Steps[0].Config["source_type"])
		assert.Equal(t, "Write a promo", wf.Steps[0].Config["prompt"])
		assert.Equal(t, StepTransform, wf.Steps[1].Type)
		assert.Equal(t, StepNotify, wf.Steps[2].Type)
	})

	t.Run("comfyui inputs", func(t *testing.T) {
		wf, analysis := convertFixture(t, comfyPromptFixture)
		assert.Equal(t, "3", wf.Steps[0].Config["source_id"])
		assert.Equal(t, StepGenerateImage, wf.Steps[0].Type)
		assert.Equal(t, "Save", wf.Steps[3].Description)
		assert.Equal(t, []string{"sdxl.safetensors"}, analysis.Models)
		assert.Equal(t, []string{"a straw hat"}, analysis.Prompts)
		assert.True(t, analysis.HasAIGeneration)
	})
}

func TestConvert_HTTPRequestNode(t *testing.T) {
	doc := `{"nodes":[{"type":"n8n-nodes-base.httpRequest","parameters":{"url":"http://x"}}], "connections":{}}`

	wf, analysis, err := Convert([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, PlatformN8N, wf.Source)
	require.Len(t, wf.Steps, 1)
	assert.Equal(t, CategoryUtility, wf.Steps[0].Category)
	assert.Equal(t, StepHTTPRequest, wf.Steps[0].Type)
	assert.Equal(t, "n8n-nodes-base.httpRequest", wf.Steps[0].Description)
	assert.Equal(t, 1, analysis.NodeCount)
	assert.True(t, analysis.HasAPICalls)
}

func TestConvert_Unknown(t *testing.T) {
	wf, analysis, err := Convert([]byte(`{"title": "x", "tasks": [{"do": "thing"}, "raw"]}`))
	require.NoError(t, err)

	assert.Equal(t, PlatformUnknown, wf.Source)
	require.Len(t, wf.Steps, 2)
	assert.Equal(t, "Unknown Step", wf.Steps[0].Description)
	assert.Equal(t, StepUnknown, wf.Steps[0].Type)
	assert.Equal(t, CategoryUtility, wf.Steps[0].Category)
	assert.Equal(t, map[string]any{"do": "thing"}, wf.Steps[0].Config)
	assert.Equal(t, map[string]any{"value": "raw"}, wf.Steps[1].Config)
	assert.Equal(t, 2, analysis.NodeCount)
	assert.Empty(t, analysis.Nodes)

	wf, analysis, err = Convert([]byte(`{"foo": 1}`))
	require.NoError(t, err)
	assert.Empty(t, wf.Steps)
	assert.Zero(t, analysis.NodeCount)
}

func TestConvert_InvalidJSON(t *testing.T) {
	_, _, err := Convert([]byte(`{"nodes": [`))
	require.ErrorIs(t, err, aperrors.ErrInvalidWorkflow)
}

func TestNormalizedWorkflow_JSONShape(t *testing.T) {
	wf, _, err := Convert([]byte(`{"foo": 1}`))
	require.NoError(t, err)

	data, err := json.Marshal(wf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"steps":[],"schedule":null,"outputs":[],"source":"unknown"}`, string(data))
}

func TestComplexity(t *testing.T) {
	tests := []struct {
		name string
		a    Analysis
		want float64
	}{
		{"empty", Analysis{}, 0},
		{"ten nodes", Analysis{NodeCount: 10}, 0.06},
		{"node count capped", Analysis{NodeCount: 500}, 0.3},
		{"every flag", Analysis{
			NodeCount: 50, HasConditions: true, HasLoops: true,
			HasAIGeneration: true, HasAPICalls: true, TriggerCount: 2,
		}, 1.0},
		{"single trigger adds nothing", Analysis{TriggerCount: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, complexity(&tt.a), 1e-9)
		})
	}
}

func TestLookupRuleAndClassify(t *testing.T) {
	tests := []struct {
		platform Platform
		nodeType string
		kind     Kind
		category string
		stepType string
	}{
		{PlatformMake, "openai-gpt-3:CreateImage", KindAction, CategoryImage, StepGenerateImage},
		{PlatformMake, "openai-gpt-3:CreateCompletion", KindAction, CategoryText, StepGenerateText},
		{PlatformMake, "google-sheets:watchRows", KindTrigger, "", ""},
		{PlatformN8N, "@n8n/n8n-nodes-langchain.chatTrigger", KindTrigger, "", ""},
		{PlatformN8N, "@n8n/n8n-nodes-langchain.lmChatOpenAi", KindAction, CategoryText, StepGenerateText},
		{PlatformN8N, "n8n-nodes-base.somethingNew", KindAction, CategoryUtility, StepGeneric},
		{PlatformComfyUI, "KSamplerAdvanced", KindAction, CategoryImage, StepGenerateImage},
		{PlatformHomeAssistant, "wait_for_trigger", KindAction, CategoryUtility, StepGeneric},
		{PlatformHomeAssistant, "condition:time", KindLogic, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			rule := classify(tt.platform, tt.nodeType)
			assert.Equal(t, tt.kind, rule.Kind)
			assert.Equal(t, tt.category, rule.Category)
			assert.Equal(t, tt.stepType, rule.StepType)
		})
	}

	_, ok := LookupRule(PlatformN8N, "n8n-nodes-base.somethingNew")
	assert.False(t, ok)
}

func TestInferIntent(t *testing.T) {
	tests := []struct {
		name   string
		params string
		want   string
	}{
		{"Generate image", `{"prompt": "hat"}`, IntentImageGeneration},
		{"Make clip", `{"provider": "runway"}`, IntentVideoGeneration},
		{"Ask", `{"model": "claude-3"}`, IntentTextGeneration},
		{"Post", `{"channel": "twitter"}`, IntentSocialPosting},
		{"Notify team", `{"to": "slack"}`, IntentNotification},
		{"Call", `{"url": "https://x", "method": "POST", "kind": "request"}`, IntentAPICall},
		{"Nothing", `{}`, IntentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferIntent(tt.name, gjson.Parse(tt.params)))
		})
	}
}

func TestExtractParams_FirstMatchWins(t *testing.T) {
	params := gjson.Parse(`{"text": "second", "prompt": "first", "file": "a.png", "modelId": {"value": "m1"}, "content": ""}`)
	got := extractParams(params)

	assert.Equal(t, "first", got["prompt"])
	assert.Equal(t, "a.png", got["image"])
	assert.Equal(t, "m1", got["model"])
	assert.Empty(t, extractParams(gjson.Parse(`"string"`)))
}

func TestWindmillScriptType(t *testing.T) {
	assert.Equal(t, "hub:openai", windmillScriptType("hub/1234/openai/create_image"))
	assert.Equal(t, "script", windmillScriptType("u/admin/my_script"))
	assert.Equal(t, "script", windmillScriptType(""))
}

func TestFindSchedule_IgnoresInvalidCron(t *testing.T) {
	triggers := []UniversalNode{
		{Kind: KindTrigger, Parameters: gjson.Parse(`{"cron": "not a cron"}`)},
		{Kind: KindTrigger, Parameters: gjson.Parse(`{"config": {"schedule": "@daily"}}`)},
	}
	s := findSchedule(triggers, testNow)
	require.NotNil(t, s)
	assert.Equal(t, "@daily", s.Cron)
	assert.True(t, strings.HasPrefix(s.Cron, "@"))

	assert.Nil(t, findSchedule(nil, testNow))
}
