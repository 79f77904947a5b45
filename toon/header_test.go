package toon

import (
	"reflect"
	"testing"
)

func TestParseHeaderLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *headerInfo
	}{
		{
			"keyed_inline",
			"tags[2]: foo,bar",
			&headerInfo{key: "tags", hasKey: true, length: 2, delimiter: ',', inline: "foo,bar", hasInline: true},
		},
		{
			"keyed_empty",
			"items[0]:",
			&headerInfo{key: "items", hasKey: true, length: 0, delimiter: ','},
		},
		{
			"unkeyed",
			"[2]: x,y",
			&headerInfo{length: 2, delimiter: ',', inline: "x,y", hasInline: true},
		},
		{
			"tabular",
			"items[2]{id,qty}:",
			&headerInfo{key: "items", hasKey: true, length: 2, delimiter: ',', fields: []string{"id", "qty"}, hasFields: true},
		},
		{
			"pipe_delimiter",
			"items[1|]{sku|qty}:",
			&headerInfo{key: "items", hasKey: true, length: 1, delimiter: '|', fields: []string{"sku", "qty"}, hasFields: true},
		},
		{
			"tab_delimiter",
			"tags[2\t]: a\tb",
			&headerInfo{key: "tags", hasKey: true, length: 2, delimiter: '\t', inline: "a\tb", hasInline: true},
		},
		{
			"length_marker",
			"tags[#3]: a,b,c",
			&headerInfo{key: "tags", hasKey: true, marker: true, length: 3, delimiter: ',', inline: "a,b,c", hasInline: true},
		},
		{
			"quoted_key",
			`"my list"[1]: x`,
			&headerInfo{key: "my list", hasKey: true, length: 1, delimiter: ',', inline: "x", hasInline: true},
		},
		{
			"quoted_field",
			`rows[1]{"a b",c}:`,
			&headerInfo{key: "rows", hasKey: true, length: 1, delimiter: ',', fields: []string{"a b", "c"}, hasFields: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHeaderLine(tt.input)
			if err != nil {
				t.Fatalf("parseHeaderLine(%q) error: %v", tt.input, err)
			}
			if got == nil {
				t.Fatalf("parseHeaderLine(%q) = nil, want %+v", tt.input, tt.want)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseHeaderLine(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHeaderLine_NonHeaders(t *testing.T) {
	inputs := []string{
		"id: 1",
		"plain text",
		"- 1",
		`"a[2]": 5`,
		"a[x]:",
		"tags[2] foo",
	}
	for _, in := range inputs {
		h, err := parseHeaderLine(in)
		if err != nil {
			t.Errorf("parseHeaderLine(%q) error: %v", in, err)
			continue
		}
		if h != nil {
			t.Errorf("parseHeaderLine(%q) = %+v, want nil", in, h)
		}
	}
}

func TestFormatHeader_RoundTrip(t *testing.T) {
	opts := DefaultEncodeOptions()
	tests := []struct {
		key    string
		length int
		fields []string
		inline string
		want   string
	}{
		{"tags", 2, nil, "a,b", "tags[2]: a,b"},
		{"", 2, nil, "x,y", "[2]: x,y"},
		{"items", 2, []string{"id", "qty"}, "", "items[2]{id,qty}:"},
		{"items", 0, nil, "", "items[0]:"},
	}
	for _, tt := range tests {
		got := formatHeader(tt.key, tt.length, tt.fields, tt.inline, opts)
		if got != tt.want {
			t.Errorf("formatHeader() = %q, want %q", got, tt.want)
		}
		h, err := parseHeaderLine(got)
		if err != nil || h == nil {
			t.Errorf("parseHeaderLine(%q) failed to recognize emitted header (err=%v)", got, err)
			continue
		}
		if h.length != tt.length {
			t.Errorf("parsed length = %d, want %d", h.length, tt.length)
		}
	}
}

func TestSplitByDelimiter(t *testing.T) {
	tests := []struct {
		input     string
		delimiter byte
		want      []string
	}{
		{"a,b,c", ',', []string{"a", "b", "c"}},
		{`"a,b",c`, ',', []string{`"a,b"`, "c"}},
		{"solo", ',', []string{"solo"}},
		{"a||b", '|', []string{"a", "", "b"}},
		{`"x\",y",z`, ',', []string{`"x\",y"`, "z"}},
	}
	for _, tt := range tests {
		got := splitByDelimiter(tt.input, tt.delimiter)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitByDelimiter(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
