package content

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"io"
	"slices"
	"strconv"
	"strings"
)

// ValueKind identifies the shape of a parsed JSON value.
type ValueKind int

const (
	// ValueNull is the JSON null literal.
	ValueNull ValueKind = iota
	// ValueBool is true or false.
	ValueBool
	// ValueNumber is a JSON number, kept as its source literal.
	ValueNumber
	// ValueString is a JSON string.
	ValueString
	// ValueArray is an ordered list of values.
	ValueArray
	// ValueObject is an ordered list of key/value members.
	ValueObject
)

// String returns the lower-case name of the kind.
func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueBool:
		return "boolean"
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	case ValueArray:
		return "array"
	case ValueObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a node of a parsed JSON document.
//
// Only the fields relevant to Kind are set. Object members keep the order in
// which their keys first appeared in the document; a repeated key keeps its
// first position and takes the last value.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Number  string
	String  string
	Items   []*Value
	Members []Member
}

// Member is one key/value pair of a JSON object.
type Member struct {
	Key   string
	Value *Value
}

// Null returns a null value.
func Null() *Value { return &Value{Kind: ValueNull} }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{Kind: ValueBool, Bool: b} }

// Number returns a number value holding the given literal.
func Number(literal string) *Value { return &Value{Kind: ValueNumber, Number: literal} }

// String returns a string value.
func String(s string) *Value { return &Value{Kind: ValueString, String: s} }

// Array returns an array value.
func Array(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{Kind: ValueArray, Items: items}
}

// Object returns an object value.
func Object(members ...Member) *Value {
	if members == nil {
		members = []Member{}
	}
	return &Value{Kind: ValueObject, Members: members}
}

// Len returns the number of children of an array or object, and 0 otherwise.
func (v *Value) Len() int {
	switch v.Kind {
	case ValueArray:
		return len(v.Items)
	case ValueObject:
		return len(v.Members)
	default:
		return 0
	}
}

// Get returns the member value stored under key, or nil.
func (v *Value) Get(key string) *Value {
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

var (
	// ErrEmptyDocument is returned by ParseJSON when the input holds no value.
	ErrEmptyDocument = errors.New("json: empty document")

	// ErrTrailingData is returned by ParseJSON when more than one top-level
	// value is present.
	ErrTrailingData = errors.New("json: unexpected data after top-level value")
)

// parseFrame is an open container on the ParseJSON work stack.
type parseFrame struct {
	value   *Value
	key     string
	haveKey bool
	index   map[string]int
}

func (f *parseFrame) add(v *Value) {
	if f.value.Kind == ValueArray {
		f.value.Items = append(f.value.Items, v)
		return
	}
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if i, ok := f.index[f.key]; ok {
		f.value.Members[i].Value = v
	} else {
		f.index[f.key] = len(f.value.Members)
		f.value.Members = append(f.value.Members, Member{Key: f.key, Value: v})
	}
	f.haveKey = false
}

// arrayIndex reports whether key is a canonical array index ("0", "17",
// but not "017" or "-1") and returns its value.
func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 || strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return n, true
}

// orderMembers moves integer-like keys to the front in ascending order and
// keeps the remaining keys in document order, the enumeration order of
// JavaScript objects.
func orderMembers(members []Member) {
	slices.SortStableFunc(members, func(a, b Member) int {
		ai, aok := arrayIndex(a.Key)
		bi, bok := arrayIndex(b.Key)
		switch {
		case aok && bok:
			return cmp.Compare(ai, bi)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	})
}

// ParseJSON parses a single JSON document into a Value tree. Object members
// keep document order except that integer-like keys come first in ascending
// order.
//
// Parsing walks the token stream with an explicit stack, so nesting depth is
// bounded only by memory.
func ParseJSON(text string) (*Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var (
		root  *Value
		stack []*parseFrame
	)

	attach := func(v *Value) error {
		if len(stack) == 0 {
			if root != nil {
				return ErrTrailingData
			}
			root = v
			return nil
		}
		stack[len(stack)-1].add(v)
		return nil
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var v *Value
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				if t == '{' {
					v = Object()
				} else {
					v = Array()
				}
				if err := attach(v); err != nil {
					return nil, err
				}
				stack = append(stack, &parseFrame{value: v})
			case '}', ']':
				top := stack[len(stack)-1]
				if top.value.Kind == ValueObject {
					orderMembers(top.value.Members)
				}
				stack = stack[:len(stack)-1]
			}
			continue
		case string:
			if n := len(stack); n > 0 && stack[n-1].value.Kind == ValueObject && !stack[n-1].haveKey {
				stack[n-1].key = t
				stack[n-1].haveKey = true
				continue
			}
			v = String(t)
		case json.Number:
			v = Number(t.String())
		case bool:
			v = Bool(t)
		case nil:
			v = Null()
		}
		if err := attach(v); err != nil {
			return nil, err
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	if len(stack) != 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return root, nil
}

// MarshalJSON encodes the value back to JSON, keeping member order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := appendValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendValue(buf *bytes.Buffer, v *Value) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case ValueNull:
		buf.WriteString("null")
	case ValueBool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case ValueNumber:
		buf.WriteString(v.Number)
	case ValueString:
		buf.WriteString(quoteJSON(v.String))
	case ValueArray:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ValueObject:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quoteJSON(m.Key))
			buf.WriteByte(':')
			if err := appendValue(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return errors.New("json: unknown value kind")
	}
	return nil
}

// quoteJSON returns s as a JSON string literal without HTML escaping.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
