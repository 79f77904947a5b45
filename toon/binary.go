package toon

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ============================================================
// Binary Sidecar
// ============================================================
//
// TOON text is what the LLM reads and writes; systems that store or
// transport decoded values use the msgpack sidecar. Both share the same
// six-case data model. Object key order is not preserved across the
// binary form.

// EncodeBinary marshals a Value's plain-Go projection to msgpack bytes.
func EncodeBinary(v *Value) ([]byte, error) {
	data, err := msgpack.Marshal(v.Interface())
	if err != nil {
		return nil, fmt.Errorf("toon: binary encode: %w", err)
	}
	return data, nil
}

// DecodeBinary unmarshals msgpack bytes back into a Value. Integer and
// float wire types both normalize to the number case.
func DecodeBinary(data []byte) (*Value, error) {
	var v any
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("toon: binary decode: %w", err)
	}
	return Normalize(v), nil
}
