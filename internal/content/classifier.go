package content

import (
	"regexp"
	"strings"
)

// strategy pairs a detection predicate with the renderer used when it
// matches.
type strategy struct {
	name   string
	match  func(text, declaredType string) bool
	render func(text string) Result
}

// strategies is evaluated in order and the first match wins. The order is
// part of the contract: credential lines such as "a:b" also satisfy the
// key-value pattern and must be claimed by the credential strategy first.
var strategies = []strategy{
	{
		name: "json",
		match: func(text, declaredType string) bool {
			return strings.Contains(declaredType, "json") || IsJSONLike(text)
		},
		render: renderJSON,
	},
	{
		name: "table",
		match: func(text, declaredType string) bool {
			return strings.Contains(declaredType, "csv") || IsTableLike(text)
		},
		render: renderTable,
	},
	{
		name: "credentials",
		match: func(text, _ string) bool {
			return IsCredentialLike(text)
		},
		render: renderCredentials,
	},
	{
		name: "keyvalue",
		match: func(text, _ string) bool {
			return IsKeyValueLike(text)
		},
		render: renderKeyValue,
	},
}

// Classify picks a rendering for text and renders it. declaredType is the
// content type reported by the backend; an empty string means none was
// given. Literal `\n` and `\t` sequences are expanded first.
//
// Classify is pure and total: it returns exactly one Result for any input.
func Classify(text, declaredType string) Result {
	processed := ExpandEscapes(text)
	for _, s := range strategies {
		if s.match(processed, declaredType) {
			return s.render(processed)
		}
	}
	return renderPlainText(processed)
}

// Detect returns the Kind that Classify produces for text.
func Detect(text, declaredType string) Kind {
	return Classify(text, declaredType).Kind()
}

// Precedence lists the detection strategies in evaluation order. Plain text
// is the implicit last resort and is not listed.
func Precedence() []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.name
	}
	return names
}

// IsJSONLike reports whether the trimmed text is bracket-delimited by {} or
// [] and parses as a single JSON document.
func IsJSONLike(text string) bool {
	trimmed := trimSpace(text)
	bracketed := (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
	if !bracketed {
		return false
	}
	_, err := ParseJSON(trimmed)
	return err == nil
}

// renderJSON parses the trimmed text; anything unparsable renders as plain
// text.
func renderJSON(text string) Result {
	v, err := ParseJSON(trimSpace(text))
	if err != nil {
		return renderPlainText(text)
	}
	return &JSONResult{Value: v}
}

// spaceClass is the body of a character class matching the same runes as
// isSpace. RE2's \s alone covers ASCII whitespace only.
const spaceClass = `\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}`

// credentialLine matches exactly two colon-separated tokens without
// whitespace, so the secret cannot itself contain a colon.
var credentialLine = regexp.MustCompile(`^[^` + spaceClass + `:]+:[^` + spaceClass + `:]+$`)

// IsCredentialLike reports whether more than half of the non-blank lines
// are identifier:secret pairs.
func IsCredentialLike(text string) bool {
	lines := nonBlankLines(text)
	if len(lines) < 1 {
		return false
	}
	matches := 0
	for _, l := range lines {
		if credentialLine.MatchString(trimSpace(l)) {
			matches++
		}
	}
	return matches*2 > len(lines)
}

// renderCredentials splits every non-blank line on its first colon, which is
// more permissive than IsCredentialLike: secrets keep any further colons. A
// line without a colon becomes an identifier with an empty secret, and
// entries with an empty identifier are dropped.
func renderCredentials(text string) Result {
	lines := nonBlankLines(text)
	entries := make([]Credential, 0, len(lines))
	for _, l := range lines {
		var c Credential
		trimmed := trimSpace(l)
		if id, secret, found := strings.Cut(trimmed, ":"); found {
			c = Credential{Identifier: id, Secret: secret}
		} else {
			c = Credential{Identifier: l}
		}
		if c.Identifier == "" {
			continue
		}
		entries = append(entries, c)
	}
	return &CredentialsResult{Entries: entries}
}

// keyValueLine matches an optionally quoted key made of word characters,
// spaces and hyphens, then ':' or '=', then a non-empty value. The value
// class excludes line terminators.
var keyValueLine = regexp.MustCompile(`^["']?([\w` + spaceClass + `_-]+)["']?[` + spaceClass + `]*[:=][` + spaceClass + `]*([^\n\r\x{2028}\x{2029}]+)`)

// IsKeyValueLike reports whether text has at least two non-blank lines and
// more than 60% of them look like key/value pairs.
func IsKeyValueLike(text string) bool {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return false
	}
	matches := 0
	for _, l := range lines {
		if keyValueLine.MatchString(trimSpace(l)) {
			matches++
		}
	}
	return matches*5 > len(lines)*3
}

// renderKeyValue extracts the pairs from matching lines and silently drops
// the others.
func renderKeyValue(text string) Result {
	lines := nonBlankLines(text)
	pairs := make([]Pair, 0, len(lines))
	for _, l := range lines {
		m := keyValueLine.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		pairs = append(pairs, Pair{
			Key:   trimSpace(m[1]),
			Value: trimSpace(m[2]),
		})
	}
	return &KeyValueResult{Pairs: pairs}
}

// renderPlainText keeps every line, blank ones included.
func renderPlainText(text string) Result {
	return &TextResult{Lines: splitLines(text)}
}
