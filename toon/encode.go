package toon

import (
	"math"
	"strconv"
	"strings"
)

// EncodeOptions configures the encoder.
type EncodeOptions struct {
	// Indent is the number of spaces per indentation level (0..10).
	// Zero still emits nested structures on separate lines, with no
	// leading spaces.
	Indent int

	// Delimiter separates inline array elements, tabular field names and
	// tabular row values. One of ',' (default), '\t', '|'.
	Delimiter byte

	// LengthMarker prefixes array counts with '#' inside the bracket
	// header.
	LengthMarker bool
}

// DefaultEncodeOptions returns sensible defaults.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Indent:    2,
		Delimiter: DelimiterComma,
	}
}

// normalized clamps the indent and falls back to the comma delimiter.
func (o EncodeOptions) normalized() EncodeOptions {
	if o.Indent < 0 {
		o.Indent = 0
	}
	if o.Indent > 10 {
		o.Indent = 10
	}
	if !validDelimiter(o.Delimiter) {
		o.Delimiter = DelimiterComma
	}
	return o
}

// Encode converts a Value to TOON text using default options.
func Encode(v *Value) string {
	return EncodeWithOptions(v, DefaultEncodeOptions())
}

// EncodeWithOptions converts a Value to TOON text. The output never has
// trailing spaces on a line and never ends with a newline. Encoding is a
// deterministic, pure function of (value, options).
func EncodeWithOptions(v *Value, opts EncodeOptions) string {
	opts = opts.normalized()
	e := &encoder{opts: opts, pad: strings.Repeat(" ", opts.Indent)}

	switch {
	case v.IsPrimitive():
		return e.primitive(v)
	case v.Kind() == KindArray:
		e.encodeArray("", v, 0, false)
	default:
		if v.Len() == 0 {
			return ""
		}
		for _, f := range v.objVal {
			e.encodeField(f.Key, f.Value, 0)
		}
	}
	return strings.Join(e.lines, "\n")
}

// EncodeAny normalizes an arbitrary Go value and encodes it with default
// options.
func EncodeAny(v any) string {
	return EncodeAnyWithOptions(v, DefaultEncodeOptions())
}

// EncodeAnyWithOptions normalizes an arbitrary Go value and encodes it.
func EncodeAnyWithOptions(v any, opts EncodeOptions) string {
	return EncodeWithOptions(Normalize(v), opts)
}

type encoder struct {
	opts  EncodeOptions
	lines []string
	pad   string
}

// push appends one output line at the given depth.
func (e *encoder) push(depth int, text string) {
	if depth == 0 || e.pad == "" {
		e.lines = append(e.lines, text)
		return
	}
	e.lines = append(e.lines, strings.Repeat(e.pad, depth)+text)
}

// encodeField writes one object entry at the given depth.
func (e *encoder) encodeField(key string, v *Value, depth int) {
	ek := encodeKey(key)
	switch {
	case v.IsPrimitive():
		e.push(depth, ek+": "+e.primitive(v))
	case v.Kind() == KindArray:
		e.encodeArray(ek, v, depth, false)
	default:
		e.push(depth, ek+":")
		for _, f := range v.objVal {
			e.encodeField(f.Key, f.Value, depth+1)
		}
	}
}

// encodeArray chooses the surface form for an array: empty, inline
// primitive row, tabular rows, or list items. When dash is set the header
// fuses onto a "- " list-item line and the body clears the dash column.
func (e *encoder) encodeArray(encodedKey string, arr *Value, depth int, dash bool) {
	elems := arr.arrVal
	n := len(elems)

	prefix := ""
	bodyDepth := depth + 1
	if dash {
		prefix = "- "
		bodyDepth = depth + 2
	}

	if n == 0 {
		e.push(depth, prefix+formatHeader(encodedKey, 0, nil, "", e.opts))
		return
	}

	if allPrimitive(elems) {
		cells := make([]string, n)
		for i, el := range elems {
			cells[i] = e.primitive(el)
		}
		inline := strings.Join(cells, string(e.opts.Delimiter))
		e.push(depth, prefix+formatHeader(encodedKey, n, nil, inline, e.opts))
		return
	}

	if fields := tabularFields(elems); fields != nil {
		encoded := make([]string, len(fields))
		for i, f := range fields {
			encoded[i] = encodeKey(f)
		}
		e.push(depth, prefix+formatHeader(encodedKey, n, encoded, "", e.opts))
		for _, el := range elems {
			cells := make([]string, len(fields))
			for i, f := range fields {
				cells[i] = e.primitive(el.Get(f))
			}
			e.push(bodyDepth, strings.Join(cells, string(e.opts.Delimiter)))
		}
		return
	}

	e.push(depth, prefix+formatHeader(encodedKey, n, nil, "", e.opts))
	for _, el := range elems {
		e.encodeListItem(el, bodyDepth)
	}
}

// encodeListItem writes one "- " list item at the given depth.
func (e *encoder) encodeListItem(v *Value, depth int) {
	switch {
	case v.IsPrimitive():
		e.push(depth, "- "+e.primitive(v))

	case v.Kind() == KindArray:
		e.encodeArray("", v, depth, true)

	default: // object
		if v.Len() == 0 {
			e.push(depth, "-")
			return
		}
		first := v.objVal[0]
		ek := encodeKey(first.Key)
		switch {
		case first.Value.IsPrimitive():
			e.push(depth, "- "+ek+": "+e.primitive(first.Value))
		case first.Value.Kind() == KindArray:
			e.encodeArray(ek, first.Value, depth, true)
		default:
			// Nested object body clears the "- " column plus the
			// property's own column.
			e.push(depth, "- "+ek+":")
			for _, f := range first.Value.objVal {
				e.encodeField(f.Key, f.Value, depth+2)
			}
		}
		for _, f := range v.objVal[1:] {
			e.encodeField(f.Key, f.Value, depth+1)
		}
	}
}

// primitive renders a scalar in the active delimiter context.
func (e *encoder) primitive(v *Value) string {
	if v == nil {
		return "null"
	}
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.numVal)
	case KindString:
		if isSafeUnquoted(v.strVal, e.opts.Delimiter) {
			return v.strVal
		}
		return `"` + escapeString(v.strVal) + `"`
	}
	return "null"
}

// formatNumber renders a finite double in its shortest decimal form.
// -0 collapses to 0; integral values below 1e21 stay in plain notation.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// allPrimitive reports whether every element is a scalar.
func allPrimitive(elems []*Value) bool {
	for _, el := range elems {
		if !el.IsPrimitive() {
			return false
		}
	}
	return true
}

// tabularFields returns the first element's key order when the array
// qualifies for tabular form: every element an object with the same key
// set as the first, and every value primitive. Returns nil otherwise.
func tabularFields(elems []*Value) []string {
	if len(elems) == 0 {
		return nil
	}
	first := elems[0]
	if first.Kind() != KindObject || first.Len() == 0 {
		return nil
	}
	fields := make([]string, len(first.objVal))
	for i, f := range first.objVal {
		fields[i] = f.Key
	}
	for _, el := range elems {
		if el.Kind() != KindObject || el.Len() != len(fields) {
			return nil
		}
		for _, f := range el.objVal {
			if _, ok := first.lookup(f.Key); !ok {
				return nil
			}
			if !f.Value.IsPrimitive() {
				return nil
			}
		}
	}
	return fields
}
