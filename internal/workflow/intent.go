package workflow

import (
	"regexp"

	"github.com/tidwall/gjson"
)

// Intent labels.
const (
	IntentImageGeneration = "image_generation"
	IntentVideoGeneration = "video_generation"
	IntentAudioGeneration = "audio_generation"
	IntentTextGeneration  = "text_generation"
	IntentSocialPosting   = "social_posting"
	IntentEmail           = "email"
	IntentEcommerce       = "ecommerce"
	IntentNotification    = "notification"
	IntentStorage         = "storage"
	IntentAPICall         = "api_call"
	IntentDataTransform   = "data_transform"
	IntentUnknown         = "unknown"
)

type intentRule struct {
	intent string
	re     *regexp.Regexp
}

// intentRules are tried in order; the first match wins.
//
//nolint:gochecknoglobals // compiled once
var intentRules = []intentRule{
	{IntentVideoGeneration, regexp.MustCompile(`(?i)video|img2vid|runway|\bveo\b|kling|luma|animatediff`)},
	{IntentImageGeneration, regexp.MustCompile(`(?i)dall-?e|stable.?diffusion|midjourney|\bflux\b|ksampler|createimage|generate.?image|text.?to.?image|\bsdxl\b`)},
	{IntentAudioGeneration, regexp.MustCompile(`(?i)\btts\b|text.?to.?speech|elevenlabs|speech|music|audio`)},
	{IntentTextGeneration, regexp.MustCompile(`(?i)openai|\bgpt|claude|anthropic|gemini|\bllm\b|langchain|completion|chat`)},
	{IntentSocialPosting, regexp.MustCompile(`(?i)twitter|tweet|instagram|facebook|linkedin|tiktok`)},
	{IntentEmail, regexp.MustCompile(`(?i)e-?mail|gmail|smtp|sendgrid|mailchimp`)},
	{IntentEcommerce, regexp.MustCompile(`(?i)shopify|printify|woocommerce|stripe|product`)},
	{IntentNotification, regexp.MustCompile(`(?i)slack|discord|telegram|notif|mqtt`)},
	{IntentStorage, regexp.MustCompile(`(?i)drive|dropbox|\bs3\b|storage|upload|save|write.?file`)},
	{IntentAPICall, regexp.MustCompile(`(?i)http|webhook|\bapi\b|request|rest_command`)},
	{IntentDataTransform, regexp.MustCompile(`(?i)function|\bcode\b|transform|\bset\b|json|sheet|template`)},
}

// InferIntent returns the first intent whose pattern matches the node name
// plus its serialized parameters.
func InferIntent(name string, params gjson.Result) string {
	text := name + " " + params.Raw
	for _, r := range intentRules {
		if r.re.MatchString(text) {
			return r.intent
		}
	}
	return IntentUnknown
}

// paramFields lists, per output config key, the candidate source keys in
// priority order.
//
//nolint:gochecknoglobals // read-only lookup table
var paramFields = []struct {
	target     string
	candidates []string
}{
	{"prompt", []string{"prompt", "text", "message", "content"}},
	{"image", []string{"image", "imageUrl", "image_url", "file"}},
	{"model", []string{"model", "modelId", "model_id", "ckpt_name"}},
}

// extractParams copies the common fields out of a node's parameters. A
// candidate wrapping its value as {"value": ...} is unwrapped.
func extractParams(params gjson.Result) map[string]any {
	config := make(map[string]any)
	if !params.IsObject() {
		return config
	}
	for _, f := range paramFields {
		for _, key := range f.candidates {
			v := params.Get(key)
			if v.IsObject() {
				v = v.Get("value")
			}
			if isScalar(v) {
				config[f.target] = v.Value()
				break
			}
		}
	}
	return config
}

func isScalar(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number, gjson.True, gjson.False:
		return true
	case gjson.Null, gjson.JSON:
		return false
	}
	return false
}
