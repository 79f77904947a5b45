package toon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON and Value for the common feed-JSON-in,
// publish-JSON-out workflow. Decoding walks the token stream so object
// key order survives, which encoding/json's map decoding would lose.

// FromJSON converts JSON bytes to a Value, preserving object key order.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("toon: JSON parse error: %w", err)
	}
	// Reject trailing garbage after the first value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("toon: unexpected data after JSON value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Normalize(t), nil
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := NewArray()
			for dec.More() {
				el, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Append(el)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// ToJSON converts a Value to compact JSON bytes, preserving object key
// order.
func ToJSON(v *Value) ([]byte, error) {
	var sb strings.Builder
	if err := writeJSON(&sb, v); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func writeJSON(sb *strings.Builder, v *Value) error {
	if v == nil {
		sb.WriteString("null")
		return nil
	}
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.boolVal {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(formatNumber(v.numVal))
	case KindString:
		data, err := json.Marshal(v.strVal)
		if err != nil {
			return err
		}
		sb.Write(data)
	case KindArray:
		sb.WriteByte('[')
		for i, el := range v.arrVal {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeJSON(sb, el); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, f := range v.objVal {
			if i > 0 {
				sb.WriteByte(',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			sb.Write(key)
			sb.WriteByte(':')
			if err := writeJSON(sb, f.Value); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	}
	return nil
}
