package toon

import (
	"strings"
	"testing"
)

func mustDecode(t *testing.T, input string) *Value {
	t.Helper()
	v, err := Decode(input)
	if err != nil {
		t.Fatalf("Decode(%q) error: %v", input, err)
	}
	return v
}

func TestDecode_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Value
	}{
		{"empty", "", Null()},
		{"whitespace", "  \n  ", Null()},
		{"null", "null", Null()},
		{"true", "true", Bool(true)},
		{"false", "false", Bool(false)},
		{"int", "42", Number(42)},
		{"negative", "-7", Number(-7)},
		{"float", "3.14", Number(3.14)},
		{"exponent", "1e+21", Number(1e21)},
		{"leading_zero_stays_string", "0123", String("0123")},
		{"bare_string", "hello", String("hello")},
		{"quoted_string", `"hello, world"`, String("hello, world")},
		{"quoted_literal", `"true"`, String("true")},
		{"escapes", `"a\nb\tc"`, String("a\nb\tc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustDecode(t, tt.input)
			if !Equal(got, tt.expected) {
				t.Errorf("Decode(%q) = %v, want %v", tt.input, got.Interface(), tt.expected.Interface())
			}
		})
	}
}

func TestDecode_Objects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Value
	}{
		{
			"flat",
			"id: 1\nname: Ada",
			obj(kv("id", Number(1)), kv("name", String("Ada"))),
		},
		{
			"nested",
			"user:\n  id: 1",
			obj(kv("user", obj(kv("id", Number(1))))),
		},
		{
			"empty_object_value",
			"meta:",
			obj(kv("meta", obj())),
		},
		{
			"quoted_key",
			`"my key": 1`,
			obj(kv("my key", Number(1))),
		},
		{
			"quoted_value_with_colon",
			`url: "http://x"`,
			obj(kv("url", String("http://x"))),
		},
		{
			"timestamp_value",
			"ts: 2025-11-02T08:15:00Z",
			obj(kv("ts", String("2025-11-02T08:15:00Z"))),
		},
		{
			"deep_nesting",
			"a:\n  b:\n    c: 1",
			obj(kv("a", obj(kv("b", obj(kv("c", Number(1))))))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustDecode(t, tt.input)
			if !Equal(got, tt.expected) {
				t.Errorf("Decode(%q) = %v, want %v", tt.input, got.Interface(), tt.expected.Interface())
			}
		})
	}
}

func TestDecode_Arrays(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Value
	}{
		{
			"inline",
			"tags[2]: foo,bar",
			obj(kv("tags", arr(String("foo"), String("bar")))),
		},
		{
			"empty",
			"items[0]:",
			obj(kv("items", arr())),
		},
		{
			"root_array",
			"[2]: x,y",
			arr(String("x"), String("y")),
		},
		{
			"root_empty_array",
			"[0]:",
			arr(),
		},
		{
			"quoted_cells",
			`items[2]: "true",true`,
			obj(kv("items", arr(String("true"), Bool(true)))),
		},
		{
			"quoted_cell_with_delimiter",
			`items[2]: "a,b",c`,
			obj(kv("items", arr(String("a,b"), String("c")))),
		},
		{
			"tabular",
			"items[2]{id,qty}:\n  1,5\n  2,3",
			obj(kv("items", arr(
				obj(kv("id", Number(1)), kv("qty", Number(5))),
				obj(kv("id", Number(2)), kv("qty", Number(3))),
			))),
		},
		{
			"tabular_pipe",
			"items[1|]{sku|qty}:\n  A1|2",
			obj(kv("items", arr(obj(kv("sku", String("A1")), kv("qty", Number(2)))))),
		},
		{
			"length_marker",
			"tags[#3]: a,b,c",
			obj(kv("tags", arr(String("a"), String("b"), String("c")))),
		},
		{
			"list_mixed",
			"items[3]:\n  - 1\n  - a: 1\n  - x",
			obj(kv("items", arr(Number(1), obj(kv("a", Number(1))), String("x")))),
		},
		{
			"list_of_arrays",
			"pairs[2]:\n  - [2]: 1,2\n  - [2]: 3,4",
			obj(kv("pairs", arr(arr(Number(1), Number(2)), arr(Number(3), Number(4))))),
		},
		{
			"list_object_multi_key",
			"items[1]:\n  - a: 1\n    b: 2",
			obj(kv("items", arr(obj(kv("a", Number(1)), kv("b", Number(2)))))),
		},
		{
			"list_item_keyed_array",
			"items[1]:\n  - ids[2]: 1,2\n    name: x",
			obj(kv("items", arr(obj(
				kv("ids", arr(Number(1), Number(2))),
				kv("name", String("x")),
			)))),
		},
		{
			"list_item_nested_object",
			"items[1]:\n  - a:\n      x: 1\n    b: 2",
			obj(kv("items", arr(obj(
				kv("a", obj(kv("x", Number(1)))),
				kv("b", Number(2)),
			)))),
		},
		{
			"single_row_body",
			"nums[3]:\n  1,2,3",
			obj(kv("nums", arr(Number(1), Number(2), Number(3)))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustDecode(t, tt.input)
			if !Equal(got, tt.expected) {
				t.Errorf("Decode(%q) = %v, want %v", tt.input, got.Interface(), tt.expected.Interface())
			}
		})
	}
}

func TestDecode_Lenient(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Value
	}{
		{
			// Count mismatches are accepted.
			"inline_count_mismatch",
			"items[2]: a,b,c",
			obj(kv("items", arr(String("a"), String("b"), String("c")))),
		},
		{
			// Tab indentation counts as 4 columns.
			"tab_indent",
			"user:\n\tid: 1",
			obj(kv("user", obj(kv("id", Number(1))))),
		},
		{
			// Odd indentation widths are accepted.
			"odd_indent",
			"user:\n   id: 1",
			obj(kv("user", obj(kv("id", Number(1))))),
		},
		{
			"blank_lines_between_entries",
			"a: 1\n\nb: 2",
			obj(kv("a", Number(1)), kv("b", Number(2))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustDecode(t, tt.input)
			if !Equal(got, tt.expected) {
				t.Errorf("Decode(%q) = %v, want %v", tt.input, got.Interface(), tt.expected.Interface())
			}
		})
	}
}

func TestDecode_CompactMode(t *testing.T) {
	// With indent 0, keys cannot indent; a run of column-0 keys after a
	// childless key nests under it.
	input := "user:\nid: 1\nname: Ada"
	v, err := DecodeWithOptions(input, DecodeOptions{Indent: 0})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	want := obj(kv("user", obj(kv("id", Number(1)), kv("name", String("Ada")))))
	if !Equal(v, want) {
		t.Errorf("Decode() = %v, want %v", v.Interface(), want.Interface())
	}
}

func TestDecode_StrictErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSub string
	}{
		{"inline_count", "items[2]: a,b,c", "declares 2 elements"},
		{"tab_indent", "user:\n\tid: 1", "tab character in indentation"},
		{"odd_indent", "user:\n   id: 1", "not a multiple"},
		{"tabular_row_count", "items[2]{id,qty}:\n  1,5", "declares 2 rows"},
		{"tabular_cell_count", "items[1]{id,qty}:\n  1", "cells"},
		{"list_count", "items[2]:\n  - 1", "list items"},
		{"missing_body", "items[2]:", "has none"},
		{"blank_in_tabular", "items[2]{id}:\n  1\n\n  2", "blank line inside array"},
		{"blank_in_list", "items[2]:\n  - 1\n\n  - 2", "blank line inside array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeWithOptions(tt.input, DecodeOptions{Strict: true, Indent: 2})
			if err == nil {
				t.Fatalf("strict Decode(%q) succeeded, want error containing %q", tt.input, tt.wantSub)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestDecode_SyntaxErrors(t *testing.T) {
	// Syntactic impossibilities fail in lenient mode too.
	tests := []struct {
		name    string
		input   string
		wantSub string
	}{
		{"unterminated_string", `a: "oops`, "unterminated"},
		{"invalid_escape", `a: "b\qc"`, "invalid escape"},
		{"missing_colon", "a:\n  bare", "missing colon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if err == nil {
				t.Fatalf("Decode(%q) succeeded, want error containing %q", tt.input, tt.wantSub)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestDecode_ErrorLineNumbers(t *testing.T) {
	_, err := Decode("a: 1\nb: \"oops")
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
	if de.Line != 2 {
		t.Errorf("error line = %d, want 2", de.Line)
	}
}

func TestDecode_ListCountCarveOut(t *testing.T) {
	// Length validation is skipped when a list item contains a nested
	// array; counting is unreliable in that layout.
	input := "items[5]:\n  - [2]: 1,2"
	v, err := DecodeWithOptions(input, DecodeOptions{Strict: true, Indent: 2})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	items := v.Get("items")
	if items.Len() != 1 {
		t.Errorf("items len = %d, want 1", items.Len())
	}
}
