package workflow

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mrz1836/adpilot/internal/clock"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// fallbackCollections are the top-level keys scanned for unknown documents.
//
//nolint:gochecknoglobals // read-only lookup table
var fallbackCollections = []string{"steps", "nodes", "actions", "modules", "tasks"}

// maxWalkDepth bounds recursion into nested branches and loops.
const maxWalkDepth = 32

// Converter turns workflow documents into normalized workflows.
type Converter struct {
	clock clock.Clock
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithClock sets the clock used to compute a schedule's next run.
func WithClock(c clock.Clock) ConverterOption {
	return func(cv *Converter) {
		cv.clock = c
	}
}

// NewConverter creates a Converter.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts data with a default Converter.
func Convert(data []byte) (*NormalizedWorkflow, *Analysis, error) {
	return NewConverter().Convert(data)
}

// Convert detects the platform of data and maps its nodes to steps. It
// fails only when data is not valid JSON.
func (c *Converter) Convert(data []byte) (*NormalizedWorkflow, *Analysis, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("%w: not valid JSON", aperrors.ErrInvalidWorkflow)
	}
	doc := gjson.ParseBytes(data)
	platform := DetectPlatform(doc)

	if platform == PlatformUnknown {
		wf, analysis := convertUnknown(doc)
		return wf, analysis, nil
	}

	nodes := collectNodes(platform, doc)
	wf := &NormalizedWorkflow{
		Steps:   []NormalizedStep{},
		Outputs: []Output{},
		Source:  platform,
	}
	analysis := newAnalysis(platform, len(nodes))

	var triggers []UniversalNode
	for i := range nodes {
		n := &nodes[i]
		n.Intent = InferIntent(n.Name, n.Parameters)
		config := extractParams(n.Parameters)
		analysis.observe(n, config)

		if n.Kind == KindTrigger {
			triggers = append(triggers, n.UniversalNode)
		}
		if n.Kind != KindAction {
			continue
		}

		step := NormalizedStep{
			ID:          "step_" + strconv.Itoa(len(wf.Steps)+1),
			Category:    n.Category,
			Type:        n.StepType,
			Config:      config,
			Enabled:     isEnabled(n.raw),
			Description: firstNonEmpty(n.Name, n.OriginalType),
		}
		step.Config["source_type"] = n.OriginalType
		if n.ID != "" {
			step.Config["source_id"] = n.ID
		}
		wf.Steps = append(wf.Steps, step)
		if isDistribution(n.Category) {
			wf.Outputs = append(wf.Outputs, Output{StepID: step.ID, Category: n.Category})
		}
	}

	wf.Schedule = findSchedule(triggers, c.clock.Now())
	analysis.StepCount = len(wf.Steps)
	analysis.Nodes = stripRaw(nodes)
	analysis.Complexity = complexity(analysis)
	return wf, analysis, nil
}

// node is a UniversalNode plus the whole source element.
type node struct {
	UniversalNode

	raw gjson.Result
}

func newNode(p Platform, id, name, nodeType string, params, raw gjson.Result) node {
	rule := classify(p, nodeType)
	return node{
		UniversalNode: UniversalNode{
			ID:           id,
			Name:         name,
			Platform:     p,
			OriginalType: nodeType,
			Kind:         rule.Kind,
			Logic:        rule.Logic,
			Category:     rule.Category,
			StepType:     rule.StepType,
			Parameters:   params,
		},
		raw: raw,
	}
}

func stripRaw(nodes []node) []UniversalNode {
	out := make([]UniversalNode, len(nodes))
	for i, n := range nodes {
		out[i] = n.UniversalNode
	}
	return out
}

// collectNodes flattens the platform's node structure in document order.
// Its length is the platform's node count.
func collectNodes(p Platform, doc gjson.Result) []node {
	switch p {
	case PlatformN8N:
		return collectN8N(doc)
	case PlatformComfyUIGraph:
		return collectComfyGraph(doc)
	case PlatformNodeRED:
		return collectNodeRED(doc)
	case PlatformHomeAssistant:
		return collectHomeAssistant(doc)
	case PlatformMake:
		return collectMake(doc)
	case PlatformActivepieces:
		return collectActivepieces(doc)
	case PlatformWindmill:
		return collectWindmill(doc)
	case PlatformPipedream:
		return collectPipedream(doc)
	case PlatformComfyUI:
		return collectComfyPrompt(doc)
	case PlatformUnknown:
	}
	return nil
}

func collectN8N(doc gjson.Result) []node {
	var out []node
	for _, n := range doc.Get("nodes").Array() {
		name := n.Get("name").String()
		out = append(out, newNode(PlatformN8N,
			firstNonEmpty(n.Get("id").String(), name), name,
			n.Get("type").String(), n.Get("parameters"), n))
	}
	return out
}

func collectComfyGraph(doc gjson.Result) []node {
	var out []node
	for _, n := range doc.Get("nodes").Array() {
		typ := n.Get("type").String()
		out = append(out, newNode(PlatformComfyUIGraph,
			n.Get("id").String(), firstNonEmpty(n.Get("title").String(), typ),
			typ, n, n))
	}
	return out
}

func collectComfyPrompt(doc gjson.Result) []node {
	type entry struct {
		id  int
		key string
		val gjson.Result
	}
	var entries []entry
	doc.ForEach(func(key, value gjson.Result) bool {
		id, err := strconv.Atoi(key.String())
		if err == nil && value.Get("class_type").Exists() {
			entries = append(entries, entry{id: id, key: key.String(), val: value})
		}
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	out := make([]node, 0, len(entries))
	for _, e := range entries {
		typ := e.val.Get("class_type").String()
		out = append(out, newNode(PlatformComfyUI,
			e.key, firstNonEmpty(e.val.Get("_meta.title").String(), typ),
			typ, e.val.Get("inputs"), e.val))
	}
	return out
}

// nodeREDContainers are config elements in a flow export that are not nodes.
//
//nolint:gochecknoglobals // read-only lookup table
var nodeREDContainers = map[string]struct{}{"tab": {}, "subflow": {}, "group": {}}

func collectNodeRED(doc gjson.Result) []node {
	var out []node
	for _, n := range doc.Array() {
		typ := n.Get("type").String()
		if _, skip := nodeREDContainers[typ]; skip || typ == "" {
			continue
		}
		out = append(out, newNode(PlatformNodeRED,
			n.Get("id").String(), firstNonEmpty(n.Get("name").String(), typ),
			typ, n, n))
	}
	return out
}

// haActionKeys identify an action's type when it has no service or action key.
//
//nolint:gochecknoglobals // read-only lookup table
var haActionKeys = []string{
	"choose", "if", "repeat", "parallel", "sequence", "delay", "wait_template",
	"wait_for_trigger", "event", "scene", "variables", "stop",
}

func collectHomeAssistant(doc gjson.Result) []node {
	var out []node
	for _, t := range asList(firstExisting(doc, "triggers", "trigger")) {
		typ := "trigger:" + firstNonEmpty(t.Get("platform").String(), t.Get("trigger").String())
		out = append(out, newNode(PlatformHomeAssistant,
			t.Get("id").String(), firstNonEmpty(t.Get("alias").String(), typ), typ, t, t))
	}
	for _, c := range asList(firstExisting(doc, "conditions", "condition")) {
		typ := "condition:" + c.Get("condition").String()
		out = append(out, newNode(PlatformHomeAssistant,
			"", firstNonEmpty(c.Get("alias").String(), typ), typ, c, c))
	}
	for _, a := range asList(firstExisting(doc, "actions", "action")) {
		typ := firstNonEmpty(a.Get("service").String(), a.Get("action").String())
		if typ == "" && a.Get("condition").Exists() {
			typ = "condition:" + a.Get("condition").String()
		}
		if typ == "" {
			for _, k := range haActionKeys {
				if a.Get(k).Exists() {
					typ = k
					break
				}
			}
		}
		params := a
		if data := a.Get("data"); data.Exists() {
			params = data
		}
		out = append(out, newNode(PlatformHomeAssistant,
			"", firstNonEmpty(a.Get("alias").String(), typ), typ, params, a))
	}
	return out
}

func collectMake(doc gjson.Result) []node {
	flow := doc.Get("flow")
	if modules := doc.Get("flow.modules"); modules.IsArray() {
		flow = modules
	}
	var out []node
	walkMake(flow, 0, &out)
	return out
}

func walkMake(flow gjson.Result, depth int, out *[]node) {
	if depth > maxWalkDepth {
		return
	}
	for _, m := range flow.Array() {
		typ := m.Get("module").String()
		params := m.Get("mapper")
		if !params.IsObject() {
			params = m.Get("parameters")
		}
		name := firstNonEmpty(m.Get("metadata.designer.name").String(), typ)
		*out = append(*out, newNode(PlatformMake, m.Get("id").String(), name, typ, params, m))
		for _, route := range m.Get("routes").Array() {
			walkMake(route.Get("flow"), depth+1, out)
		}
	}
}

func collectActivepieces(doc gjson.Result) []node {
	t := doc.Get("trigger")
	if !t.Exists() {
		t = doc.Get("version.trigger")
	}
	var out []node
	out = append(out, newNode(PlatformActivepieces,
		t.Get("name").String(), firstNonEmpty(t.Get("displayName").String(), t.Get("type").String()),
		t.Get("type").String(), t.Get("settings.input"), t))
	walkActivepieces(t.Get("nextAction"), 0, &out)
	return out
}

// walkActivepieces follows the nextAction chain without limit; depth only
// grows when descending into a branch, loop body or child.
func walkActivepieces(a gjson.Result, depth int, out *[]node) {
	if depth > maxWalkDepth {
		return
	}
	for ; a.Exists() && a.IsObject(); a = a.Get("nextAction") {
		typ := a.Get("type").String()
		if typ == "PIECE" {
			typ = a.Get("settings.pieceName").String()
		}
		*out = append(*out, newNode(PlatformActivepieces,
			a.Get("name").String(), firstNonEmpty(a.Get("displayName").String(), typ),
			typ, a.Get("settings.input"), a))

		walkActivepieces(a.Get("onSuccessAction"), depth+1, out)
		walkActivepieces(a.Get("onFailureAction"), depth+1, out)
		walkActivepieces(a.Get("firstLoopAction"), depth+1, out)
		for _, child := range a.Get("children").Array() {
			walkActivepieces(child, depth+1, out)
		}
	}
}

func collectWindmill(doc gjson.Result) []node {
	var out []node
	walkWindmill(doc.Get("value.modules"), 0, &out)
	return out
}

func walkWindmill(modules gjson.Result, depth int, out *[]node) {
	if depth > maxWalkDepth {
		return
	}
	for _, m := range modules.Array() {
		v := m.Get("value")
		typ := v.Get("type").String()
		if typ == "script" {
			typ = windmillScriptType(v.Get("path").String())
		}
		*out = append(*out, newNode(PlatformWindmill,
			m.Get("id").String(), firstNonEmpty(m.Get("summary").String(), typ),
			typ, v.Get("input_transforms"), m))

		walkWindmill(v.Get("modules"), depth+1, out)
		walkWindmill(v.Get("default"), depth+1, out)
		for _, b := range v.Get("branches").Array() {
			walkWindmill(b.Get("modules"), depth+1, out)
		}
	}
}

// windmillScriptType turns a hub path such as hub/1234/openai/create_image
// into "hub:openai".
func windmillScriptType(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) >= 3 && parts[0] == "hub" {
		return "hub:" + parts[2]
	}
	return "script"
}

func collectPipedream(doc gjson.Result) []node {
	var out []node
	for _, t := range doc.Get("triggers").Array() {
		typ := "trigger:" + firstNonEmpty(t.Get("type").String(), t.Get("key").String())
		out = append(out, newNode(PlatformPipedream, t.Get("id").String(), typ, typ, t, t))
	}
	for _, s := range doc.Get("steps").Array() {
		typ := firstNonEmpty(
			s.Get("key").String(),
			s.Get("component_key").String(),
			s.Get("app").String(),
			s.Get("namespace").String(),
		)
		out = append(out, newNode(PlatformPipedream,
			s.Get("namespace").String(), firstNonEmpty(s.Get("namespace").String(), typ),
			typ, s.Get("props"), s))
	}
	return out
}

// convertUnknown wraps each element of the first known collection as an
// opaque step.
func convertUnknown(doc gjson.Result) (*NormalizedWorkflow, *Analysis) {
	wf := &NormalizedWorkflow{
		Steps:   []NormalizedStep{},
		Outputs: []Output{},
		Source:  PlatformUnknown,
	}
	if doc.IsObject() {
		for _, key := range fallbackCollections {
			items := doc.Get(key)
			if !items.IsArray() {
				continue
			}
			for i, item := range items.Array() {
				config, ok := item.Value().(map[string]any)
				if !ok {
					config = map[string]any{"value": item.Value()}
				}
				wf.Steps = append(wf.Steps, NormalizedStep{
					ID:          "step_" + strconv.Itoa(i+1),
					Category:    CategoryUtility,
					Type:        StepUnknown,
					Config:      config,
					Enabled:     true,
					Description: "Unknown Step",
				})
			}
			break
		}
	}
	analysis := newAnalysis(PlatformUnknown, len(wf.Steps))
	analysis.StepCount = len(wf.Steps)
	analysis.Complexity = complexity(analysis)
	return wf, analysis
}

func newAnalysis(p Platform, nodeCount int) *Analysis {
	return &Analysis{
		Platform:  p,
		NodeCount: nodeCount,
		Triggers:  []string{},
		Prompts:   []string{},
		Models:    []string{},
		Intents:   []string{},
		Nodes:     []UniversalNode{},
	}
}

// observe records n's contribution to the analysis flags and lists.
func (a *Analysis) observe(n *node, config map[string]any) {
	switch n.Kind {
	case KindTrigger:
		a.TriggerCount++
		a.Triggers = append(a.Triggers, firstNonEmpty(n.Name, n.OriginalType))
	case KindLogic:
		switch n.Logic {
		case LogicCondition:
			a.HasConditions = true
		case LogicLoop:
			a.HasLoops = true
		}
	case KindAction:
		if strings.HasPrefix(n.StepType, "generate_") {
			a.HasAIGeneration = true
		}
		if isDistribution(n.Category) {
			a.HasDistribution = true
		}
		if n.StepType == StepHTTPRequest {
			a.HasAPICalls = true
		}
	}

	if n.Kind == KindAction && isGenerationIntent(n.Intent) {
		a.HasAIGeneration = true
	}
	if n.Intent != IntentUnknown {
		a.Intents = appendUnique(a.Intents, n.Intent)
	}
	if s, ok := config["prompt"].(string); ok {
		a.Prompts = appendUnique(a.Prompts, s)
	}
	if s, ok := config["model"].(string); ok {
		a.Models = appendUnique(a.Models, s)
	}
}

// complexity scores a workflow in [0, 1].
func complexity(a *Analysis) float64 {
	score := 0.3 * float64(min(a.NodeCount, 50)) / 50
	if a.HasConditions {
		score += 0.2
	}
	if a.HasLoops {
		score += 0.2
	}
	if a.HasAIGeneration {
		score += 0.1
	}
	if a.HasAPICalls {
		score += 0.1
	}
	if a.TriggerCount > 1 {
		score += 0.1
	}
	return math.Round(min(score, 1.0)*1000) / 1000
}

func isGenerationIntent(intent string) bool {
	switch intent {
	case IntentImageGeneration, IntentVideoGeneration, IntentAudioGeneration, IntentTextGeneration:
		return true
	}
	return false
}

func isDistribution(category string) bool {
	switch category {
	case CategoryPublish, CategorySocial, CategoryEmail, CategoryNotification:
		return true
	}
	return false
}

// isEnabled reads the disabled markers used by the supported platforms.
func isEnabled(raw gjson.Result) bool {
	if raw.Get("disabled").Bool() || raw.Get("d").Bool() {
		return false
	}
	e := raw.Get("enabled")
	return !e.Exists() || e.Type != gjson.False
}

func asList(r gjson.Result) []gjson.Result {
	switch {
	case !r.Exists():
		return nil
	case r.IsArray():
		return r.Array()
	default:
		return []gjson.Result{r}
	}
}

func firstExisting(doc gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := doc.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
