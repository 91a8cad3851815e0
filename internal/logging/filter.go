// Package logging keeps provider credentials out of adpilot's logs.
//
// Every integration adpilot talks to hands out bearer-style tokens: text
// providers, the hosted prediction API, storefront and print-on-demand
// admin tokens, video-hosting OAuth tokens and browser-agent keys. Log
// files are written through FilteringWriter and console output is flagged
// by SensitiveDataHook.
//
// Import rules:
//   - CAN import: std lib, zerolog
//   - MUST NOT import: other internal packages
package logging

import (
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

//nolint:gochecknoglobals // compiled once
var sensitivePatterns = []*regexp.Regexp{
	// Anthropic keys (sk-ant-...), checked before the generic sk- form.
	regexp.MustCompile(`\bsk-ant-[a-zA-Z0-9_-]+`),

	// OpenAI keys, including project keys (sk-proj-...).
	regexp.MustCompile(`\bsk-(?:proj-)?[a-zA-Z0-9_-]{20,}`),

	// Groq keys.
	regexp.MustCompile(`gsk_[a-zA-Z0-9]{20,}`),

	// Replicate prediction API tokens.
	regexp.MustCompile(`r8_[a-zA-Z0-9]{20,}`),

	// Shopify admin, custom app and shared-secret tokens.
	regexp.MustCompile(`shp(?:at|ca|pa|ss)_[a-fA-F0-9]{16,}`),

	// Google API keys and OAuth access tokens.
	regexp.MustCompile(`AIza[0-9A-Za-z_-]{30,}`),
	regexp.MustCompile(`ya29\.[0-9A-Za-z_-]{20,}`),

	// GitHub tokens.
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),

	// JSON web tokens (Printify personal access tokens are JWTs).
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]{10,}\.eyJ[a-zA-Z0-9_-]{10,}\.[a-zA-Z0-9_-]+`),

	// key=value and key: value assignments.
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?[a-zA-Z0-9_-]{16,}["']?`),
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_.-]{20,}`),
	regexp.MustCompile(`(?i)authorization\s*[:=]\s*["']?[a-zA-Z0-9_-]{20,}["']?`),
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|pwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),
	regexp.MustCompile(`(?i)(token|auth)\s*[:=]\s*["']?[a-zA-Z0-9+/=_-]{32,}["']?`),

	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),
}

// sensitiveFieldNames are redacted whatever their value looks like.
//
//nolint:gochecknoglobals // lookup table
var sensitiveFieldNames = map[string]struct{}{
	"api_key":        {},
	"apikey":         {},
	"auth_token":     {},
	"access_token":   {},
	"refresh_token":  {},
	"token":          {},
	"password":       {},
	"passwd":         {},
	"secret":         {},
	"credential":     {},
	"credentials":    {},
	"private_key":    {},
	"bearer":         {},
	"authorization":  {},
	"x-api-key":      {},
	"signature":      {},
	"client_secret":  {},
	"shopify_token":  {},
	"printify_token": {},
	"youtube_token":  {},
}

// sensitiveWords flag a field when they appear as a whole word of a
// compound name such as printify_api_token or db-password.
//
//nolint:gochecknoglobals // lookup table
var sensitiveWords = []string{"token", "password", "secret", "credential", "credentials", "apikey"}

//nolint:gochecknoglobals // lookup table
var wordSeparators = []string{"_", "-", "."}

// sensitiveQueryParams are stripped from logged URLs. Signed media URLs
// returned by hosting providers carry their credentials in the query.
//
//nolint:gochecknoglobals // lookup table
var sensitiveQueryParams = []string{"token", "key", "sig", "signature", "x-amz-signature", "x-goog-signature", "access_token"}

// SensitiveDataHook flags log events whose message contains credentials.
// zerolog hooks cannot rewrite messages; filtering of file output is done
// by FilteringWriter.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any credential pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every credential match in value with RedactedValue.
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName reports whether a field name names a credential.
func IsSensitiveFieldName(fieldName string) bool {
	name := strings.ToLower(fieldName)
	if _, ok := sensitiveFieldNames[name]; ok {
		return true
	}
	for _, word := range sensitiveWords {
		if containsWordBoundary(name, word, wordSeparators) {
			return true
		}
	}
	return false
}

// containsWordBoundary reports whether word appears in name delimited by
// one of seps on at least one side. An exact match is not a boundary match.
func containsWordBoundary(name, word string, seps []string) bool {
	if name == "" || word == "" || name == word {
		return false
	}
	for _, sep := range seps {
		if strings.HasPrefix(name, word+sep) ||
			strings.HasSuffix(name, sep+word) ||
			strings.Contains(name, sep+word+sep) {
			return true
		}
	}
	return false
}

// RedactIfSensitive returns RedactedValue for credential fields and the
// pattern-filtered value otherwise.
func RedactIfSensitive(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// SafeValue is RedactIfSensitive under the name used at log call sites:
//
//	logger.Info().Str("token_env_var", logging.SafeValue("token_env_var", v)).Msg("loaded")
func SafeValue(fieldName, value string) string {
	return RedactIfSensitive(fieldName, value)
}

// SafeURL redacts credential query parameters and userinfo from raw.
// Values that do not parse as URLs are pattern-filtered instead.
func SafeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return FilterSensitiveValue(raw)
	}
	if u.User != nil {
		u.User = url.User(RedactedValue)
	}
	q := u.Query()
	changed := false
	for name := range q {
		lower := strings.ToLower(name)
		for _, p := range sensitiveQueryParams {
			if lower == p {
				q.Set(name, RedactedValue)
				changed = true
			}
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return FilterSensitiveValue(u.String())
}

// FilteringWriter redacts credentials from everything written through it.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter wraps w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success so callers do
// not see the redaction as a short write.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err := fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
