package log

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaskValue replaces masked values.
const MaskValue = "***REDACTED***"

// DefaultMaxValueLen is the number of characters of a string attribute
// kept in a log line. Extracted content can be megabytes long.
const DefaultMaxValueLen = 256

// clipSuffix follows a clipped value.
const clipSuffix = "…(clipped)"

// secretKeys are attribute keys and header names whose values are always
// masked, compared in lower case.
var secretKeys = map[string]struct{}{
	"authorization":       {},
	"proxy-authorization": {},
	"cookie":              {},
	"set-cookie":          {},
	"x-api-key":           {},
	"x-auth-token":        {},
	"x-csrf-token":        {},
	"sid":                 {},
	"session":             {},
	"session_id":          {},
	"sessionid":           {},
	"jsessionid":          {},
	"secret_preview":      {},
}

// secretKeywords mask any key that contains them. The bare word "key" is
// left out; it matches too much (primary_key, keyboard).
var secretKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential",
	"private", "cookie", "apikey", "api_key", "api-key",
}

// secretValues mask a value regardless of its key.
var secretValues = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	// Authorization schemes
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	// Long opaque keys
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
	// AWS access key IDs
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),
	// PEM armor
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
	// URLs with inline credentials
	regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://[^/\s:@]+:[^/\s@]+@`),
}

// credentialLine matches one identifier:secret pair. The secret must hold
// a non-digit so host:port pairs and clock times pass.
var credentialLine = regexp.MustCompile(`^[^\s:/]+:[^\s:]*[^\s:0-9][^\s:]*$`)

// isSecretKey reports whether values under key are always masked.
func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	if _, ok := secretKeys[key]; ok {
		return true
	}
	for _, kw := range secretKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// isSecretValue reports whether value looks like a token or holds a
// credential dump line.
func isSecretValue(value string) bool {
	for _, re := range secretValues {
		if re.MatchString(value) {
			return true
		}
	}
	for line := range strings.SplitSeq(value, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "://") {
			continue
		}
		if credentialLine.MatchString(line) {
			return true
		}
	}
	return false
}

// clip shortens value to maxLen characters. Non-positive maxLen disables
// clipping.
func clip(value string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(value) <= maxLen {
		return value
	}
	n := 0
	for i := range value {
		if n == maxLen {
			return value[:i] + clipSuffix
		}
		n++
	}
	return value
}

// Redact returns value, or MaskValue when a log record would mask it
// under key.
func Redact(key, value string) string {
	if isSecretKey(key) || isSecretValue(value) {
		return MaskValue
	}
	return value
}

// RedactHeaders returns a copy of headers with secret values masked.
func RedactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = Redact(k, v)
	}
	return out
}
