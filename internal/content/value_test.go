package content

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseJSON(t *testing.T) {
	t.Parallel()

	t.Run("member order is kept", func(t *testing.T) {
		t.Parallel()
		v, err := ParseJSON(`{"z":1,"a":2,"m":3}`)
		if err != nil {
			t.Fatalf("ParseJSON() error = %v", err)
		}
		var keys []string
		for _, m := range v.Members {
			keys = append(keys, m.Key)
		}
		if diff := cmp.Diff([]string{"z", "a", "m"}, keys); diff != "" {
			t.Errorf("key order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("integer keys come first in ascending order", func(t *testing.T) {
		t.Parallel()
		v, err := ParseJSON(`{"b":1,"10":2,"a":3,"2":4,"02":5,"-1":6}`)
		if err != nil {
			t.Fatalf("ParseJSON() error = %v", err)
		}
		var keys []string
		for _, m := range v.Members {
			keys = append(keys, m.Key)
		}
		if diff := cmp.Diff([]string{"2", "10", "b", "a", "02", "-1"}, keys); diff != "" {
			t.Errorf("key order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("duplicate key keeps first position and last value", func(t *testing.T) {
		t.Parallel()
		v, err := ParseJSON(`{"a":1,"b":2,"a":3}`)
		if err != nil {
			t.Fatalf("ParseJSON() error = %v", err)
		}
		want := Object(
			Member{Key: "a", Value: Number("3")},
			Member{Key: "b", Value: Number("2")},
		)
		if diff := cmp.Diff(want, v); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("number literals are kept verbatim", func(t *testing.T) {
		t.Parallel()
		v, err := ParseJSON(`[1.50, 1e3, -0]`)
		if err != nil {
			t.Fatalf("ParseJSON() error = %v", err)
		}
		want := Array(Number("1.50"), Number("1e3"), Number("-0"))
		if diff := cmp.Diff(want, v); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("string keys inside arrays are values", func(t *testing.T) {
		t.Parallel()
		v, err := ParseJSON(`[{"k":"v"},"s"]`)
		if err != nil {
			t.Fatalf("ParseJSON() error = %v", err)
		}
		want := Array(Object(Member{Key: "k", Value: String("v")}), String("s"))
		if diff := cmp.Diff(want, v); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	errorTests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty input", input: "   ", want: ErrEmptyDocument},
		{name: "two documents", input: `{} {}`, want: ErrTrailingData},
		{name: "unclosed object", input: `{"a":1`, want: io.ErrUnexpectedEOF},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseJSON(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseJSON(`{"a":}`); err == nil {
			t.Error("expected error for invalid document")
		}
	})
}

func TestValueMarshalJSON(t *testing.T) {
	t.Parallel()

	v := Object(
		Member{Key: "b", Value: String("<x>")},
		Member{Key: "a", Value: Array(Null(), Bool(true), Number("2"))},
		Member{Key: "c", Value: nil},
	)
	data, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"b":"<x>","a":[null,true,2],"c":null}`
	if string(data) != want {
		t.Errorf("MarshalJSON() = %s, want %s", data, want)
	}
}

func TestValueAccessors(t *testing.T) {
	t.Parallel()

	v := Object(Member{Key: "a", Value: Number("1")})
	if v.Len() != 1 {
		t.Errorf("expected Len 1, got %d", v.Len())
	}
	if got := v.Get("a"); got == nil || got.Number != "1" {
		t.Errorf("Get(a) = %+v", got)
	}
	if v.Get("missing") != nil {
		t.Error("expected nil for missing key")
	}
	if String("x").Len() != 0 {
		t.Error("expected scalar Len 0")
	}
	if ValueObject.String() != "object" || ValueKind(99).String() != "unknown" {
		t.Error("unexpected ValueKind names")
	}
}
