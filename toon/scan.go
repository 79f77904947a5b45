package toon

import (
	"regexp"
	"strings"
)

// tokenType represents the type of a scanner token.
type tokenType uint8

const (
	tokenEOF tokenType = iota
	tokenKey
	tokenColon
	tokenValue
	tokenArrayHeader
	tokenListItem
)

// String returns the token type name.
func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenKey:
		return "KEY"
	case tokenColon:
		return "COLON"
	case tokenValue:
		return "VALUE"
	case tokenArrayHeader:
		return "ARRAY_HEADER"
	case tokenListItem:
		return "LIST_ITEM"
	default:
		return "UNKNOWN"
	}
}

// token is one scanner token. Tokens carry the indentation column count
// and 1-based line of the line they came from.
type token struct {
	typ    tokenType
	value  string // decoded key, raw value text, or list-item content
	indent int
	line   int

	// hadTab marks lenient-mode tab indentation; consulted by the
	// parser's sibling-vs-nested heuristic.
	hadTab bool

	// blankBefore marks tokens preceded by one or more blank lines.
	blankBefore bool

	header *headerInfo // set for ARRAY_HEADER
}

// notKeyLikeRe matches the line prefixes that cannot be bare keys:
// runs of digits, commas and whitespace (e.g. tabular row cells).
var notKeyLikeRe = regexp.MustCompile(`^[\d,\s]*$`)

// scan tokenizes TOON text line by line. Each non-blank line becomes a
// LIST_ITEM, an ARRAY_HEADER, a KEY/COLON[/VALUE] group, or a VALUE.
func scan(input string, opts DecodeOptions) ([]token, error) {
	var toks []token
	blankPending := false

	lines := strings.Split(input, "\n")
	for i, raw := range lines {
		lineNo := i + 1

		indent, rest, hadTab, err := measureIndent(raw, lineNo, opts)
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimRight(rest, " \t\r")
		if trimmed == "" {
			blankPending = true
			continue
		}

		if opts.Strict && opts.Indent > 0 && indent%opts.Indent != 0 {
			return nil, decodeErrorf(lineNo, "indentation of %d columns is not a multiple of %d", indent, opts.Indent)
		}

		base := token{indent: indent, line: lineNo, hadTab: hadTab, blankBefore: blankPending}
		blankPending = false

		// List item
		if strings.HasPrefix(trimmed, "- ") || trimmed == "-" {
			t := base
			t.typ = tokenListItem
			t.value = strings.TrimPrefix(strings.TrimPrefix(trimmed, "-"), " ")
			toks = append(toks, t)
			continue
		}

		// Array header
		h, err := parseHeaderLine(trimmed)
		if err != nil {
			return nil, decodeErrorf(lineNo, "%s", err)
		}
		if h != nil {
			t := base
			t.typ = tokenArrayHeader
			t.value = trimmed
			t.header = h
			toks = append(toks, t)
			continue
		}

		// Keyed entry
		if key, tail, ok := splitKeyColon(trimmed); ok {
			kt := base
			kt.typ = tokenKey
			kt.value = key
			toks = append(toks, kt)

			ct := base
			ct.typ = tokenColon
			toks = append(toks, ct)

			if tail != "" {
				vt := base
				vt.typ = tokenValue
				vt.value = tail
				toks = append(toks, vt)
			}
			continue
		}

		// Continuation data (e.g. a tabular row)
		t := base
		t.typ = tokenValue
		t.value = trimmed
		toks = append(toks, t)
	}

	toks = append(toks, token{typ: tokenEOF, indent: -1, line: len(lines), blankBefore: blankPending})
	return toks, nil
}

// measureIndent counts indentation columns. A tab is fatal in strict
// mode; in lenient mode it contributes 4 columns and flags the line.
func measureIndent(line string, lineNo int, opts DecodeOptions) (indent int, rest string, hadTab bool, err error) {
	i := 0
	for ; i < len(line); i++ {
		switch line[i] {
		case ' ':
			indent++
		case '\t':
			if opts.Strict {
				return 0, "", false, decodeErrorf(lineNo, "tab character in indentation")
			}
			indent += 4
			hadTab = true
		default:
			return indent, line[i:], hadTab, nil
		}
	}
	return indent, "", hadTab, nil
}

// splitKeyColon splits a line at the first colon outside double quotes,
// when the portion before it looks like a key: a complete quoted token,
// or a short bare run that is not purely numeric cells.
func splitKeyColon(s string) (key, tail string, ok bool) {
	idx := -1
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case ':':
			if !inQuote {
				idx = i
			}
		}
		if idx >= 0 {
			break
		}
	}
	if idx < 0 {
		return "", "", false
	}

	rawKey := strings.TrimSpace(s[:idx])
	tail = strings.TrimSpace(s[idx+1:])

	if strings.HasPrefix(rawKey, `"`) {
		decoded, err := unquote(rawKey)
		if err != nil {
			return "", "", false
		}
		return decoded, tail, true
	}
	if strings.Contains(rawKey, ",") || len(rawKey) >= 100 || notKeyLikeRe.MatchString(rawKey) {
		return "", "", false
	}
	return rawKey, tail, true
}
