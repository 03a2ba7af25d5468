package content

import "strings"

// TokenKind classifies one token of a rendered JSON line.
type TokenKind int

const (
	// TokenNull is the null literal.
	TokenNull TokenKind = iota
	// TokenBool is true or false.
	TokenBool
	// TokenNumber is a number literal.
	TokenNumber
	// TokenString is a quoted string value.
	TokenString
	// TokenKey is a quoted object key.
	TokenKey
	// TokenColon separates a key from its value.
	TokenColon
	// TokenBracket is one of [ ] { } or an empty container.
	TokenBracket
	// TokenComma separates siblings.
	TokenComma
)

// Token is a typed fragment of a rendered JSON line.
type Token struct {
	Kind TokenKind `json:"kind"`
	Text string    `json:"text"`
}

// Line is one rendered JSON line at a nesting depth.
type Line struct {
	Depth  int     `json:"depth"`
	Tokens []Token `json:"tokens"`
}

// String concatenates the line's tokens without indentation.
func (l Line) String() string {
	var sb strings.Builder
	for _, t := range l.Tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Indented returns the line prefixed by indent repeated Depth times.
func (l Line) Indented(indent string) string {
	return strings.Repeat(indent, l.Depth) + l.String()
}

var (
	tokColon = Token{Kind: TokenColon, Text: ": "}
	tokComma = Token{Kind: TokenComma, Text: ","}
)

// renderFrame is an open container on the RenderJSON work stack.
type renderFrame struct {
	value *Value
	next  int
	depth int
	comma bool
}

// RenderJSON lays out a value tree as indented token lines. Non-empty
// containers open on the line of their key, list one child per line one
// level deeper, and close on their own line. Siblings carry trailing commas;
// empty containers render as [] or {}.
//
// The walk uses an explicit stack and has no depth limit.
func RenderJSON(root *Value) []Line {
	if root == nil {
		root = Null()
	}

	var (
		lines []Line
		stack []*renderFrame
	)

	emit := func(v *Value, depth int, prefix []Token, comma bool) {
		tokens := append([]Token{}, prefix...)
		switch {
		case v.Kind == ValueArray && len(v.Items) > 0:
			tokens = append(tokens, Token{Kind: TokenBracket, Text: "["})
			stack = append(stack, &renderFrame{value: v, depth: depth, comma: comma})
			lines = append(lines, Line{Depth: depth, Tokens: tokens})
			return
		case v.Kind == ValueObject && len(v.Members) > 0:
			tokens = append(tokens, Token{Kind: TokenBracket, Text: "{"})
			stack = append(stack, &renderFrame{value: v, depth: depth, comma: comma})
			lines = append(lines, Line{Depth: depth, Tokens: tokens})
			return
		}
		tokens = append(tokens, leafToken(v))
		if comma {
			tokens = append(tokens, tokComma)
		}
		lines = append(lines, Line{Depth: depth, Tokens: tokens})
	}

	emit(root, 0, nil, false)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		n := top.value.Len()
		if top.next < n {
			i := top.next
			top.next++
			last := i == n-1
			if top.value.Kind == ValueArray {
				emit(nilSafe(top.value.Items[i]), top.depth+1, nil, !last)
			} else {
				m := top.value.Members[i]
				prefix := []Token{{Kind: TokenKey, Text: quoteJSON(m.Key)}, tokColon}
				emit(nilSafe(m.Value), top.depth+1, prefix, !last)
			}
			continue
		}

		stack = stack[:len(stack)-1]
		closing := "]"
		if top.value.Kind == ValueObject {
			closing = "}"
		}
		tokens := []Token{{Kind: TokenBracket, Text: closing}}
		if top.comma {
			tokens = append(tokens, tokComma)
		}
		lines = append(lines, Line{Depth: top.depth, Tokens: tokens})
	}

	return lines
}

func nilSafe(v *Value) *Value {
	if v == nil {
		return Null()
	}
	return v
}

// leafToken renders scalars and empty containers.
func leafToken(v *Value) Token {
	switch v.Kind {
	case ValueBool:
		if v.Bool {
			return Token{Kind: TokenBool, Text: "true"}
		}
		return Token{Kind: TokenBool, Text: "false"}
	case ValueNumber:
		return Token{Kind: TokenNumber, Text: v.Number}
	case ValueString:
		return Token{Kind: TokenString, Text: quoteJSON(v.String)}
	case ValueArray:
		return Token{Kind: TokenBracket, Text: "[]"}
	case ValueObject:
		return Token{Kind: TokenBracket, Text: "{}"}
	default:
		return Token{Kind: TokenNull, Text: "null"}
	}
}
