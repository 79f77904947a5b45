package toon

import (
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// Array Header Grammar (shared by encoder and scanner)
// ============================================================
//
// Concrete form:
//
//	[key] '[' [#] N [delim-if-non-comma] ']' [ '{' f1 <delim> f2 ... '}' ] ':' [inline-values]
//
// This file is the single point of truth: formatHeader and parseHeaderLine
// must never diverge.

// lengthMarker is the optional count prefix inside the bracket header.
const lengthMarker = '#'

// Delimiter characters accepted in headers, rows and inline arrays.
const (
	DelimiterComma = ','
	DelimiterTab   = '\t'
	DelimiterPipe  = '|'
)

// headerRe recognizes the array header grammar.
var headerRe = regexp.MustCompile(`^([^\[\]]+)?\[(#)?(\d+)([,\t|])?\](?:\{([^}]+)\})?:\s*(.*)$`)

// headerInfo is a parsed array header.
type headerInfo struct {
	key       string
	hasKey    bool
	marker    bool
	length    int
	delimiter byte
	fields    []string
	hasFields bool
	inline    string
	hasInline bool
}

// validDelimiter reports whether b is an accepted delimiter.
func validDelimiter(b byte) bool {
	return b == DelimiterComma || b == DelimiterTab || b == DelimiterPipe
}

// formatHeader renders an array header line (without indentation).
// encodedKey is empty for root arrays and unkeyed list-item subjects.
func formatHeader(encodedKey string, length int, fields []string, inline string, opts EncodeOptions) string {
	var sb strings.Builder
	sb.WriteString(encodedKey)
	sb.WriteByte('[')
	if opts.LengthMarker {
		sb.WriteByte(lengthMarker)
	}
	sb.WriteString(strconv.Itoa(length))
	if opts.Delimiter != DelimiterComma {
		sb.WriteByte(opts.Delimiter)
	}
	sb.WriteByte(']')
	if fields != nil {
		sb.WriteByte('{')
		sb.WriteString(strings.Join(fields, string(opts.Delimiter)))
		sb.WriteByte('}')
	}
	sb.WriteByte(':')
	if inline != "" {
		sb.WriteByte(' ')
		sb.WriteString(inline)
	}
	return sb.String()
}

// parseHeaderLine recognizes the header grammar in a trimmed line.
// Returns nil when the line is not a header. A malformed quoted key or
// field name surfaces as an error.
func parseHeaderLine(line string) (*headerInfo, error) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return nil, nil
	}

	h := &headerInfo{delimiter: DelimiterComma}

	if m[1] != "" {
		key, err := decodeKeyToken(m[1])
		if err != nil {
			return nil, err
		}
		h.key = key
		h.hasKey = true
	}

	h.marker = m[2] == "#"
	h.length, _ = strconv.Atoi(m[3])

	if m[4] != "" {
		h.delimiter = m[4][0]
	}

	if m[5] != "" {
		h.hasFields = true
		for _, cell := range splitByDelimiter(m[5], h.delimiter) {
			name := strings.TrimSpace(cell)
			if strings.HasPrefix(name, `"`) {
				decoded, err := unquote(name)
				if err != nil {
					return nil, err
				}
				name = decoded
			}
			h.fields = append(h.fields, name)
		}
	}

	if m[6] != "" {
		h.inline = m[6]
		h.hasInline = true
	}

	return h, nil
}

// decodeKeyToken decodes an encoded key: a quoted token is unescaped, a
// bare token passes through trimmed.
func decodeKeyToken(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		return unquote(s)
	}
	return s, nil
}

// splitByDelimiter splits s on the delimiter, honoring double-quoted
// regions so quoted cells may contain the delimiter.
func splitByDelimiter(s string, delimiter byte) []string {
	var cells []string
	var sb strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(s):
			sb.WriteByte(c)
			i++
			sb.WriteByte(s[i])
		case c == '"':
			inQuote = !inQuote
			sb.WriteByte(c)
		case c == delimiter && !inQuote:
			cells = append(cells, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}
	cells = append(cells, sb.String())
	return cells
}
