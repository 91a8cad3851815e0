package workflow

import (
	"sort"
	"strings"
)

// MappingRule maps one source node type to adpilot's vocabulary.
type MappingRule struct {
	Kind     Kind
	Logic    string
	Category string
	StepType string
}

func action(category, stepType string) MappingRule {
	return MappingRule{Kind: KindAction, Category: category, StepType: stepType}
}

func logic(flavour string) MappingRule {
	return MappingRule{Kind: KindLogic, Logic: flavour}
}

//nolint:gochecknoglobals // read-only lookup tables
var (
	trigger = MappingRule{Kind: KindTrigger}

	// fallbackRule applies to action nodes no table entry matches.
	fallbackRule = action(CategoryUtility, StepGeneric)

	comfyRules = map[string]MappingRule{
		"KSampler*":                   action(CategoryImage, StepGenerateImage),
		"SamplerCustom*":              action(CategoryImage, StepGenerateImage),
		"EmptyLatentImage":            action(CategoryImage, StepTransform),
		"VAE*":                        action(CategoryImage, StepTransform),
		"ImageScale*":                 action(CategoryImage, StepTransform),
		"SVD_img2vid_Conditioning":    action(CategoryVideo, StepGenerateVideo),
		"VHS_VideoCombine*":           action(CategoryVideo, StepGenerateVideo),
		"CLIPTextEncode*":             action(CategoryText, StepTransform),
		"CheckpointLoader*":           action(CategoryUtility, StepLoadModel),
		"LoraLoader*":                 action(CategoryUtility, StepLoadModel),
		"ImageOnlyCheckpointLoader":   action(CategoryUtility, StepLoadModel),
		"LoadImage*":                  action(CategoryStorage, StepLoadFile),
		"SaveImage":                   action(CategoryStorage, StepStoreFile),
		"PreviewImage":                action(CategoryStorage, StepStoreFile),
		"SaveAnimatedWEBP":            action(CategoryVideo, StepStoreFile),
		"SaveVideo":                   action(CategoryVideo, StepStoreFile),
		"ControlNetApply*":            action(CategoryImage, StepTransform),
		"UpscaleModelLoader":          action(CategoryUtility, StepLoadModel),
		"ImageUpscaleWithModel":       action(CategoryImage, StepTransform),
		"ConditioningCombine":         logic(LogicMerge),
		"Reroute":                     action(CategoryUtility, StepGeneric),
		"Note":                        action(CategoryUtility, StepGeneric),
		"PrimitiveNode":               action(CategoryUtility, StepGeneric),
		"LatentUpscale*":              action(CategoryImage, StepTransform),
		"CLIPVisionEncode":            action(CategoryImage, StepTransform),
		"StableZero123_Conditioning*": action(CategoryImage, StepTransform),
	}

	mappingTables = map[Platform]map[string]MappingRule{
		PlatformN8N: {
			"n8n-nodes-base.webhook":          trigger,
			"n8n-nodes-base.cron":             trigger,
			"n8n-nodes-base.interval":         trigger,
			"n8n-nodes-base.if":               logic(LogicCondition),
			"n8n-nodes-base.switch":           logic(LogicCondition),
			"n8n-nodes-base.filter":           logic(LogicCondition),
			"n8n-nodes-base.splitInBatches":   logic(LogicLoop),
			"n8n-nodes-base.loopOverItems":    logic(LogicLoop),
			"n8n-nodes-base.merge":            logic(LogicMerge),
			"n8n-nodes-base.httpRequest":      action(CategoryUtility, StepHTTPRequest),
			"n8n-nodes-base.openAi":           action(CategoryText, StepGenerateText),
			"@n8n/n8n-nodes-langchain.*":      action(CategoryText, StepGenerateText),
			"n8n-nodes-base.code":             action(CategoryData, StepTransform),
			"n8n-nodes-base.function":         action(CategoryData, StepTransform),
			"n8n-nodes-base.functionItem":     action(CategoryData, StepTransform),
			"n8n-nodes-base.set":              action(CategoryData, StepTransform),
			"n8n-nodes-base.itemLists":        action(CategoryData, StepTransform),
			"n8n-nodes-base.googleSheets":     action(CategoryData, StepTransform),
			"n8n-nodes-base.twitter":          action(CategorySocial, StepPostSocial),
			"n8n-nodes-base.facebookGraphApi": action(CategorySocial, StepPostSocial),
			"n8n-nodes-base.linkedIn":         action(CategorySocial, StepPostSocial),
			"n8n-nodes-base.gmail":            action(CategoryEmail, StepSendEmail),
			"n8n-nodes-base.emailSend":        action(CategoryEmail, StepSendEmail),
			"n8n-nodes-base.sendGrid":         action(CategoryEmail, StepSendEmail),
			"n8n-nodes-base.mailchimp":        action(CategoryEmail, StepSendEmail),
			"n8n-nodes-base.shopify":          action(CategoryPublish, StepPublish),
			"n8n-nodes-base.wooCommerce":      action(CategoryPublish, StepPublish),
			"n8n-nodes-base.youTube":          action(CategoryPublish, StepPublish),
			"n8n-nodes-base.slack":            action(CategoryNotification, StepNotify),
			"n8n-nodes-base.discord":          action(CategoryNotification, StepNotify),
			"n8n-nodes-base.telegram":         action(CategoryNotification, StepNotify),
			"n8n-nodes-base.googleDrive":      action(CategoryStorage, StepStoreFile),
			"n8n-nodes-base.dropbox":          action(CategoryStorage, StepStoreFile),
			"n8n-nodes-base.awsS3":            action(CategoryStorage, StepStoreFile),
			"n8n-nodes-base.readBinaryFile":   action(CategoryStorage, StepLoadFile),
			"n8n-nodes-base.writeBinaryFile":  action(CategoryStorage, StepStoreFile),
		},

		PlatformComfyUIGraph: comfyRules,
		PlatformComfyUI:      comfyRules,

		PlatformNodeRED: {
			"inject":        trigger,
			"http in":       trigger,
			"mqtt in":       trigger,
			"link in":       trigger,
			"switch":        logic(LogicCondition),
			"split":         logic(LogicLoop),
			"join":          logic(LogicMerge),
			"function":      action(CategoryData, StepTransform),
			"change":        action(CategoryData, StepTransform),
			"template":      action(CategoryData, StepTransform),
			"json":          action(CategoryData, StepTransform),
			"http request":  action(CategoryUtility, StepHTTPRequest),
			"http response": action(CategoryUtility, StepGeneric),
			"debug":         action(CategoryUtility, StepGeneric),
			"delay":         action(CategoryUtility, StepGeneric),
			"link out":      action(CategoryUtility, StepGeneric),
			"mqtt out":      action(CategoryNotification, StepNotify),
			"e-mail":        action(CategoryEmail, StepSendEmail),
			"twitter out":   action(CategorySocial, StepPostSocial),
			"file":          action(CategoryStorage, StepStoreFile),
			"file in":       action(CategoryStorage, StepLoadFile),
		},

		PlatformHomeAssistant: {
			"trigger:*":                           trigger,
			"condition:*":                         logic(LogicCondition),
			"choose":                              logic(LogicCondition),
			"if":                                  logic(LogicCondition),
			"repeat":                              logic(LogicLoop),
			"parallel":                            logic(LogicMerge),
			"wait_for_trigger":                    action(CategoryUtility, StepGeneric),
			"notify.*":                            action(CategoryNotification, StepNotify),
			"persistent_notification.*":           action(CategoryNotification, StepNotify),
			"tts.*":                               action(CategoryAudio, StepGenerateAudio),
			"conversation.process":                action(CategoryText, StepGenerateText),
			"openai_conversation.*":               action(CategoryText, StepGenerateText),
			"google_generative_ai_conversation.*": action(CategoryText, StepGenerateText),
			"rest_command.*":                      action(CategoryUtility, StepHTTPRequest),
			"camera.snapshot":                     action(CategoryStorage, StepStoreFile),
			"camera.record":                       action(CategoryVideo, StepStoreFile),
			"media_player.*":                      action(CategoryAudio, StepGeneric),
			"shell_command.*":                     action(CategoryData, StepTransform),
			"input_text.set_value":                action(CategoryData, StepTransform),
		},

		PlatformMake: {
			"gateway:CustomWebHook":    trigger,
			"gateway:CustomMailHook":   trigger,
			"builtin:BasicRouter":      logic(LogicCondition),
			"builtin:BasicFeeder":      logic(LogicLoop),
			"builtin:BasicRepeater":    logic(LogicLoop),
			"builtin:BasicAggregator":  logic(LogicMerge),
			"util:TextAggregator":      logic(LogicMerge),
			"http:*":                   action(CategoryUtility, StepHTTPRequest),
			"openai-gpt-3:CreateImage": action(CategoryImage, StepGenerateImage),
			"openai-gpt-3:*":           action(CategoryText, StepGenerateText),
			"anthropic-claude:*":       action(CategoryText, StepGenerateText),
			"elevenlabs:*":             action(CategoryAudio, StepGenerateAudio),
			"util:*":                   action(CategoryData, StepTransform),
			"json:*":                   action(CategoryData, StepTransform),
			"google-sheets:*":          action(CategoryData, StepTransform),
			"google-drive:*":           action(CategoryStorage, StepStoreFile),
			"dropbox:*":                action(CategoryStorage, StepStoreFile),
			"twitter:*":                action(CategorySocial, StepPostSocial),
			"instagram-business:*":     action(CategorySocial, StepPostSocial),
			"facebook-pages:*":         action(CategorySocial, StepPostSocial),
			"linkedin:*":               action(CategorySocial, StepPostSocial),
			"email:*":                  action(CategoryEmail, StepSendEmail),
			"google-email:*":           action(CategoryEmail, StepSendEmail),
			"mailchimp:*":              action(CategoryEmail, StepSendEmail),
			"shopify:*":                action(CategoryPublish, StepPublish),
			"youtube:*":                action(CategoryPublish, StepPublish),
			"slack:*":                  action(CategoryNotification, StepNotify),
			"telegram:*":               action(CategoryNotification, StepNotify),
			"discord:*":                action(CategoryNotification, StepNotify),
		},

		PlatformActivepieces: {
			"WEBHOOK":                           trigger,
			"PIECE_TRIGGER":                     trigger,
			"EMPTY":                             trigger,
			"BRANCH":                            logic(LogicCondition),
			"ROUTER":                            logic(LogicCondition),
			"LOOP_ON_ITEMS":                     logic(LogicLoop),
			"CODE":                              action(CategoryData, StepTransform),
			"@activepieces/piece-http":          action(CategoryUtility, StepHTTPRequest),
			"@activepieces/piece-openai":        action(CategoryText, StepGenerateText),
			"@activepieces/piece-claude":        action(CategoryText, StepGenerateText),
			"@activepieces/piece-stability-ai":  action(CategoryImage, StepGenerateImage),
			"@activepieces/piece-elevenlabs":    action(CategoryAudio, StepGenerateAudio),
			"@activepieces/piece-slack":         action(CategoryNotification, StepNotify),
			"@activepieces/piece-discord":       action(CategoryNotification, StepNotify),
			"@activepieces/piece-telegram-bot":  action(CategoryNotification, StepNotify),
			"@activepieces/piece-gmail":         action(CategoryEmail, StepSendEmail),
			"@activepieces/piece-smtp":          action(CategoryEmail, StepSendEmail),
			"@activepieces/piece-twitter":       action(CategorySocial, StepPostSocial),
			"@activepieces/piece-linkedin":      action(CategorySocial, StepPostSocial),
			"@activepieces/piece-shopify":       action(CategoryPublish, StepPublish),
			"@activepieces/piece-youtube":       action(CategoryPublish, StepPublish),
			"@activepieces/piece-google-drive":  action(CategoryStorage, StepStoreFile),
			"@activepieces/piece-google-sheets": action(CategoryData, StepTransform),
			"@activepieces/piece-data-mapper":   action(CategoryData, StepTransform),
		},

		PlatformWindmill: {
			"branchone":     logic(LogicCondition),
			"branchall":     logic(LogicMerge),
			"forloopflow":   logic(LogicLoop),
			"whileloopflow": logic(LogicLoop),
			"rawscript":     action(CategoryData, StepTransform),
			"identity":      action(CategoryUtility, StepGeneric),
			"flow":          action(CategoryUtility, StepGeneric),
			"hub:http":      action(CategoryUtility, StepHTTPRequest),
			"hub:openai":    action(CategoryText, StepGenerateText),
			"hub:anthropic": action(CategoryText, StepGenerateText),
			"hub:slack":     action(CategoryNotification, StepNotify),
			"hub:discord":   action(CategoryNotification, StepNotify),
			"hub:gmail":     action(CategoryEmail, StepSendEmail),
			"hub:sendgrid":  action(CategoryEmail, StepSendEmail),
			"hub:twitter":   action(CategorySocial, StepPostSocial),
			"hub:shopify":   action(CategoryPublish, StepPublish),
			"hub:s3":        action(CategoryStorage, StepStoreFile),
		},

		PlatformPipedream: {
			"trigger:*":      trigger,
			"http*":          action(CategoryUtility, StepHTTPRequest),
			"openai*":        action(CategoryText, StepGenerateText),
			"anthropic*":     action(CategoryText, StepGenerateText),
			"stability_ai*":  action(CategoryImage, StepGenerateImage),
			"elevenlabs*":    action(CategoryAudio, StepGenerateAudio),
			"slack*":         action(CategoryNotification, StepNotify),
			"discord*":       action(CategoryNotification, StepNotify),
			"telegram*":      action(CategoryNotification, StepNotify),
			"gmail*":         action(CategoryEmail, StepSendEmail),
			"email*":         action(CategoryEmail, StepSendEmail),
			"twitter*":       action(CategorySocial, StepPostSocial),
			"linkedin*":      action(CategorySocial, StepPostSocial),
			"shopify*":       action(CategoryPublish, StepPublish),
			"youtube*":       action(CategoryPublish, StepPublish),
			"google_drive*":  action(CategoryStorage, StepStoreFile),
			"google_sheets*": action(CategoryData, StepTransform),
			"code":           action(CategoryData, StepTransform),
			"node":           action(CategoryData, StepTransform),
			"python":         action(CategoryData, StepTransform),
		},
	}

	// wildcardKeys holds each table's trailing-* patterns, longest prefix first.
	wildcardKeys = buildWildcardKeys()
)

func buildWildcardKeys() map[Platform][]string {
	out := make(map[Platform][]string, len(mappingTables))
	for p, table := range mappingTables {
		var keys []string
		for k := range table {
			if strings.HasSuffix(k, "*") {
				keys = append(keys, k)
			}
		}
		sort.Slice(keys, func(i, j int) bool {
			if len(keys[i]) != len(keys[j]) {
				return len(keys[i]) > len(keys[j])
			}
			return keys[i] < keys[j]
		})
		out[p] = keys
	}
	return out
}

// LookupRule finds the rule for a node type. Exact entries win over
// wildcard patterns, and longer wildcard prefixes win over shorter ones.
func LookupRule(p Platform, nodeType string) (MappingRule, bool) {
	if rule, ok := mappingTables[p][nodeType]; ok {
		return rule, true
	}
	return lookupWildcard(p, nodeType)
}

func lookupWildcard(p Platform, nodeType string) (MappingRule, bool) {
	for _, k := range wildcardKeys[p] {
		if strings.HasPrefix(nodeType, strings.TrimSuffix(k, "*")) {
			return mappingTables[p][k], true
		}
	}
	return MappingRule{}, false
}

// classify resolves a node type to its rule. Types without an exact entry
// that look like triggers are triggers even when a wildcard would match.
// Anything left unmapped is a utility action.
func classify(p Platform, nodeType string) MappingRule {
	if rule, ok := mappingTables[p][nodeType]; ok {
		return rule
	}
	if looksLikeTrigger(nodeType) {
		return trigger
	}
	if rule, ok := lookupWildcard(p, nodeType); ok {
		return rule
	}
	return fallbackRule
}

// looksLikeTrigger matches names such as "n8n-nodes-base.scheduleTrigger"
// and "google-sheets:watchRows".
func looksLikeTrigger(nodeType string) bool {
	lower := strings.ToLower(nodeType)
	if strings.Contains(lower, "trigger") {
		return true
	}
	last := lower
	if i := strings.LastIndexAny(lower, ":."); i >= 0 {
		last = lower[i+1:]
	}
	return strings.HasPrefix(last, "watch")
}
