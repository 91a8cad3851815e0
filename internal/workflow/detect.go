package workflow

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// nodeRedTypes are core Node-RED node types used to fingerprint flow exports.
var nodeRedTypes = map[string]struct{}{ //nolint:gochecknoglobals // read-only lookup table
	"tab": {}, "inject": {}, "function": {}, "debug": {}, "change": {}, "switch": {},
	"template": {}, "delay": {}, "split": {}, "join": {}, "comment": {}, "link in": {},
	"link out": {}, "http in": {}, "http request": {}, "http response": {},
	"mqtt in": {}, "mqtt out": {}, "e-mail": {},
}

// DetectPlatform fingerprints a parsed document. Checks run in a fixed
// priority order and the first match wins.
func DetectPlatform(doc gjson.Result) Platform {
	switch {
	case isN8N(doc):
		return PlatformN8N
	case doc.Get("nodes").IsArray() && doc.Get("links").Exists():
		return PlatformComfyUIGraph
	case isNodeRED(doc):
		return PlatformNodeRED
	case isHomeAssistant(doc):
		return PlatformHomeAssistant
	case isMake(doc):
		return PlatformMake
	case doc.Get("trigger").Exists() && doc.Get("version").Exists():
		return PlatformActivepieces
	case doc.Get("value.modules").IsArray():
		return PlatformWindmill
	case isPipedream(doc):
		return PlatformPipedream
	case isComfyUIPrompt(doc):
		return PlatformComfyUI
	}
	return PlatformUnknown
}

func isN8N(doc gjson.Result) bool {
	nodes := doc.Get("nodes")
	if !nodes.IsArray() {
		return false
	}
	for _, n := range nodes.Array() {
		t := n.Get("type").String()
		if strings.HasPrefix(t, "n8n-nodes-") || strings.HasPrefix(t, "@n8n/") {
			return true
		}
	}
	return false
}

func isNodeRED(doc gjson.Result) bool {
	if !doc.IsArray() {
		return false
	}
	for _, n := range doc.Array() {
		if _, ok := nodeRedTypes[n.Get("type").String()]; ok {
			return true
		}
	}
	return false
}

func isHomeAssistant(doc gjson.Result) bool {
	if !doc.IsObject() || !doc.Get("alias").Exists() {
		return false
	}
	hasTriggers := doc.Get("triggers").Exists() || doc.Get("trigger").Exists()
	hasActions := doc.Get("actions").Exists() || doc.Get("action").Exists()
	return hasTriggers && hasActions
}

func isMake(doc gjson.Result) bool {
	if doc.Get("flow.modules").Exists() {
		return true
	}
	flow := doc.Get("flow")
	return flow.IsArray() && flow.Get("0.module").Exists()
}

func isPipedream(doc gjson.Result) bool {
	steps := doc.Get("steps")
	if !steps.IsArray() {
		return false
	}
	for _, s := range steps.Array() {
		if s.Get("namespace").Exists() || s.Get("props").Exists() {
			return true
		}
	}
	return false
}

func isComfyUIPrompt(doc gjson.Result) bool {
	if !doc.IsObject() {
		return false
	}
	found := false
	doc.ForEach(func(key, value gjson.Result) bool {
		if _, err := strconv.Atoi(key.String()); err != nil {
			return true
		}
		if value.Get("class_type").Exists() {
			found = true
			return false
		}
		return true
	})
	return found
}
