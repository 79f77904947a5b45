package toon

import (
	"regexp"
	"strconv"
	"strings"
)

// DecodeOptions configures the decoder.
type DecodeOptions struct {
	// Strict makes count mismatches, tab indentation, misaligned
	// indentation and blank lines inside arrays fatal.
	Strict bool

	// Indent is the expected spaces per level. In strict mode every
	// non-zero indentation column count must be an exact multiple of it;
	// an Indent of 0 enables the compact-mode nesting heuristic.
	Indent int
}

// DefaultDecodeOptions returns sensible defaults: lenient, indent 2.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{Indent: 2}
}

// Decode parses TOON text into a Value using default options.
func Decode(input string) (*Value, error) {
	return DecodeWithOptions(input, DefaultDecodeOptions())
}

// DecodeWithOptions parses TOON text into a Value. Empty or
// whitespace-only input decodes to null.
func DecodeWithOptions(input string, opts DecodeOptions) (*Value, error) {
	if strings.TrimSpace(input) == "" {
		return Null(), nil
	}
	toks, err := scan(input, opts)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, opts: opts}
	return p.parseTop()
}

type parser struct {
	toks []token
	pos  int
	opts DecodeOptions
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{typ: tokenEOF, indent: -1}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// parseTop dispatches on the first token: a bare primitive, a root
// array, or keyed entries forming the root object.
func (p *parser) parseTop() (*Value, error) {
	t := p.peek()
	switch {
	case t.typ == tokenEOF:
		return Null(), nil
	case t.typ == tokenValue:
		p.next()
		return parsePrimitiveString(t.value, t.line)
	case t.typ == tokenArrayHeader && !t.header.hasKey:
		return p.parseArray()
	case t.typ == tokenListItem:
		arr, _, err := p.parseListItems(t.indent)
		return arr, err
	default:
		return p.parseObject(t.indent)
	}
}

// parseObject parses keyed entries at base indent into an object.
func (p *parser) parseObject(base int) (*Value, error) {
	obj := NewObject()
	for {
		t := p.peek()
		if t.typ == tokenEOF || t.indent < base {
			return obj, nil
		}

		switch t.typ {
		case tokenArrayHeader:
			if !t.header.hasKey {
				return obj, nil
			}
			arr, err := p.parseArray()
			if err != nil {
				return nil, err
			}
			obj.Set(t.header.key, arr)

		case tokenKey:
			p.next()
			if p.peek().typ == tokenColon {
				p.next()
			}
			v, err := p.parseKeyedValue(t)
			if err != nil {
				return nil, err
			}
			obj.Set(t.value, v)

		default:
			return obj, nil
		}
	}
}

// parseKeyedValue parses the value bound to a key token whose COLON has
// been consumed: an inline primitive, or whatever nested structure
// follows at deeper indent.
func (p *parser) parseKeyedValue(key token) (*Value, error) {
	n := p.peek()

	// Inline value on the key's own line.
	if n.typ == tokenValue && n.line == key.line {
		p.next()
		return parsePrimitiveString(n.value, n.line)
	}

	switch {
	case n.typ == tokenValue && n.indent > key.indent:
		return nil, decodeErrorf(n.line, "missing colon after key")

	case n.typ == tokenListItem && n.indent > key.indent:
		arr, _, err := p.parseListItems(n.indent)
		return arr, err

	case n.typ == tokenArrayHeader && n.indent > key.indent && !n.header.hasKey:
		return p.parseArray()

	case (n.typ == tokenKey || n.typ == tokenArrayHeader) && n.indent > key.indent:
		return p.parseObject(n.indent)

	case p.opts.Indent == 0 && n.indent == key.indent && !n.hadTab &&
		(n.typ == tokenKey || (n.typ == tokenArrayHeader && n.header.hasKey)):
		// Compact mode: keys cannot indent, so a run of same-column keys
		// after a childless key nests under it.
		return p.parseObject(n.indent)

	default:
		return NewObject(), nil
	}
}

// parseArray consumes an ARRAY_HEADER token from the stream and parses
// the array body it announces.
func (p *parser) parseArray() (*Value, error) {
	return p.parseArrayFrom(p.next())
}

// parseArrayFrom parses an array whose header token is given (possibly
// synthesized from a list-item line).
func (p *parser) parseArrayFrom(ht token) (*Value, error) {
	h := ht.header
	arr := NewArray()

	if h.hasInline {
		cells := splitByDelimiter(h.inline, h.delimiter)
		if p.opts.Strict && len(cells) != h.length {
			return nil, decodeErrorf(ht.line, "array declares %d elements but has %d inline values", h.length, len(cells))
		}
		for _, c := range cells {
			v, err := parsePrimitiveString(strings.TrimSpace(c), ht.line)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	}

	if h.length == 0 {
		return arr, nil
	}

	if h.hasFields {
		return p.parseTabularRows(ht)
	}

	t := p.peek()
	switch {
	case t.typ == tokenListItem && t.indent > ht.indent:
		items, sawNested, err := p.parseListItems(t.indent)
		if err != nil {
			return nil, err
		}
		// Counting is unreliable when items contain nested arrays;
		// validation is skipped for those.
		if !sawNested && items.Len() != h.length {
			return nil, decodeErrorf(ht.line, "array declares %d elements but has %d list items", h.length, items.Len())
		}
		return items, nil

	case t.typ == tokenValue && t.indent > ht.indent:
		if p.opts.Strict && t.blankBefore {
			return nil, decodeErrorf(t.line, "blank line inside array")
		}
		p.next()
		cells := splitByDelimiter(t.value, h.delimiter)
		if p.opts.Strict && len(cells) != h.length {
			return nil, decodeErrorf(t.line, "array declares %d elements but has %d values", h.length, len(cells))
		}
		for _, c := range cells {
			v, err := parsePrimitiveString(strings.TrimSpace(c), t.line)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil

	default:
		if p.opts.Strict {
			return nil, decodeErrorf(ht.line, "array declares %d elements but has none", h.length)
		}
		return arr, nil
	}
}

// parseTabularRows parses the rows of a tabular array-of-records.
func (p *parser) parseTabularRows(ht token) (*Value, error) {
	h := ht.header
	arr := NewArray()

	for {
		t := p.peek()
		keyRow := t.typ == tokenKey && arr.Len() < h.length
		if (t.typ != tokenValue && !keyRow) || t.indent <= ht.indent {
			break
		}
		if p.opts.Strict && t.blankBefore {
			return nil, decodeErrorf(t.line, "blank line inside array")
		}
		p.next()

		text := t.value
		if keyRow {
			// A row whose first cell is a bare timestamp scans as a
			// KEY/COLON/VALUE group; rejoin it into the row text.
			text += ":"
			if p.peek().typ == tokenColon {
				p.next()
			}
			if n := p.peek(); n.typ == tokenValue && n.line == t.line {
				p.next()
				text += n.value
			}
		}
		cells := splitByDelimiter(text, h.delimiter)
		if p.opts.Strict && len(cells) != len(h.fields) {
			return nil, decodeErrorf(t.line, "row has %d cells but %d fields declared", len(cells), len(h.fields))
		}
		row := NewObject()
		for i, f := range h.fields {
			if i >= len(cells) {
				break
			}
			v, err := parsePrimitiveString(strings.TrimSpace(cells[i]), t.line)
			if err != nil {
				return nil, err
			}
			row.Set(f, v)
		}
		arr.Append(row)
	}

	if p.opts.Strict && arr.Len() != h.length {
		return nil, decodeErrorf(ht.line, "array declares %d rows but has %d", h.length, arr.Len())
	}
	return arr, nil
}

// parseListItems parses "- " items at base indent. The second result
// reports whether any item was itself an array header or had an array as
// the value of its dash-line key, which disables list length validation.
func (p *parser) parseListItems(base int) (*Value, bool, error) {
	arr := NewArray()
	sawNested := false

	for {
		t := p.peek()
		if t.typ != tokenListItem || t.indent < base {
			return arr, sawNested, nil
		}
		if p.opts.Strict && t.blankBefore {
			return nil, false, decodeErrorf(t.line, "blank line inside array")
		}
		p.next()
		content := strings.TrimSpace(t.value)

		// Item is itself an array header, keyed or not.
		h, err := parseHeaderLine(content)
		if err != nil {
			return nil, false, decodeErrorf(t.line, "%s", err)
		}
		if h != nil {
			synth := token{typ: tokenArrayHeader, value: content, indent: t.indent, line: t.line, header: h}
			inner, err := p.parseArrayFrom(synth)
			if err != nil {
				return nil, false, err
			}
			sawNested = true
			if !h.hasKey {
				arr.Append(inner)
				continue
			}
			obj := NewObject()
			obj.Set(h.key, inner)
			if err := p.mergeItemProps(obj, t.indent); err != nil {
				return nil, false, err
			}
			arr.Append(obj)
			continue
		}

		// Item opens an object: first key fused onto the dash line.
		if key, tail, ok := splitKeyColon(content); ok {
			obj := NewObject()
			v, nested, err := p.parseItemKeyValue(t, tail)
			if err != nil {
				return nil, false, err
			}
			sawNested = sawNested || nested
			obj.Set(key, v)
			if err := p.mergeItemProps(obj, t.indent); err != nil {
				return nil, false, err
			}
			arr.Append(obj)
			continue
		}

		// Bare dash: an empty object, possibly with deeper properties.
		if content == "" {
			obj := NewObject()
			if err := p.mergeItemProps(obj, t.indent); err != nil {
				return nil, false, err
			}
			arr.Append(obj)
			continue
		}

		v, err := parsePrimitiveString(content, t.line)
		if err != nil {
			return nil, false, err
		}
		arr.Append(v)
	}
}

// parseItemKeyValue parses the value of the key fused onto a list-item
// line: an inline primitive, or the nested structure at deeper indent.
func (p *parser) parseItemKeyValue(item token, tail string) (*Value, bool, error) {
	if tail != "" {
		v, err := parsePrimitiveString(tail, item.line)
		return v, false, err
	}

	n := p.peek()
	switch {
	case n.typ == tokenValue && n.indent > item.indent:
		return nil, false, decodeErrorf(n.line, "missing colon after key")

	case n.typ == tokenListItem && n.indent > item.indent:
		v, _, err := p.parseListItems(n.indent)
		return v, true, err

	case n.typ == tokenArrayHeader && n.indent > item.indent && !n.header.hasKey:
		v, err := p.parseArray()
		return v, true, err

	case (n.typ == tokenKey || n.typ == tokenArrayHeader) && n.indent > item.indent:
		v, err := p.parseObject(n.indent)
		return v, false, err

	default:
		return NewObject(), false, nil
	}
}

// mergeItemProps attaches deeper-indented keyed entries to a list-item
// object as additional properties.
func (p *parser) mergeItemProps(obj *Value, itemIndent int) error {
	t := p.peek()
	if t.indent <= itemIndent {
		return nil
	}
	if t.typ != tokenKey && !(t.typ == tokenArrayHeader && t.header.hasKey) {
		return nil
	}
	sub, err := p.parseObject(t.indent)
	if err != nil {
		return err
	}
	for _, f := range sub.objVal {
		obj.Set(f.Key, f.Value)
	}
	return nil
}

// strictNumberRe matches the numeric shapes the decoder converts to
// numbers. Leading-zero multi-digit integers stay strings, matching the
// encoder's quoting discipline.
var strictNumberRe = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)

// parsePrimitiveString converts one scalar cell to a Value.
func parsePrimitiveString(s string, line int) (*Value, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "null":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}
	if strictNumberRe.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return Number(f), nil
		}
	}
	if strings.HasPrefix(s, `"`) {
		decoded, err := unquote(s)
		if err != nil {
			return nil, decodeErrorf(line, "%s", err)
		}
		return String(decoded), nil
	}
	return String(s), nil
}
