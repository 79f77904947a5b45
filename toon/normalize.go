package toon

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"
)

// maxSafeInteger is the largest integer exactly representable as a
// double (2^53 - 1). Integers beyond it normalize to decimal strings.
const maxSafeInteger = 9007199254740991

// Normalize projects an arbitrary Go value onto the six-case Value
// domain. Coercion is silent: non-finite numbers and values with no
// JSON-shaped projection become null.
func Normalize(v any) *Value {
	if v == nil {
		return Null()
	}

	switch val := v.(type) {
	case *Value:
		if val == nil {
			return Null()
		}
		return val
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case float64:
		return normalizeFloat(val)
	case float32:
		return normalizeFloat(float64(val))
	case int:
		return Number(float64(val))
	case int8:
		return Number(float64(val))
	case int16:
		return Number(float64(val))
	case int32:
		return Number(float64(val))
	case int64:
		return normalizeInt64(val)
	case uint:
		return normalizeUint64(uint64(val))
	case uint8:
		return Number(float64(val))
	case uint16:
		return Number(float64(val))
	case uint32:
		return Number(float64(val))
	case uint64:
		return normalizeUint64(val)
	case *big.Int:
		if val == nil {
			return Null()
		}
		if val.IsInt64() {
			return normalizeInt64(val.Int64())
		}
		return String(val.String())
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return normalizeFloat(f)
		}
		return String(val.String())
	case time.Time:
		return String(val.UTC().Format(time.RFC3339Nano))
	case []byte:
		return String(base64.StdEncoding.EncodeToString(val))
	case []any:
		arr := NewArray()
		for _, el := range val {
			arr.Append(Normalize(el))
		}
		return arr
	case map[string]any:
		return normalizeStringMap(val)
	}

	return normalizeReflect(reflect.ValueOf(v))
}

func normalizeFloat(f float64) *Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	if f == 0 {
		return Number(0)
	}
	return Number(f)
}

func normalizeInt64(n int64) *Value {
	if n > maxSafeInteger || n < -maxSafeInteger {
		return String(fmt.Sprintf("%d", n))
	}
	return Number(float64(n))
}

func normalizeUint64(n uint64) *Value {
	if n > maxSafeInteger {
		return String(fmt.Sprintf("%d", n))
	}
	return Number(float64(n))
}

// normalizeStringMap sorts keys for determinism: Go map iteration order
// is random, and encoding must be a pure function of the input.
func normalizeStringMap(m map[string]any) *Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	obj := NewObject()
	for _, k := range keys {
		obj.Set(k, Normalize(m[k]))
	}
	return obj
}

// normalizeReflect handles the remaining kinds: pointers, named types,
// arbitrary maps and slices, and plain structs.
func normalizeReflect(rv reflect.Value) *Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return Normalize(rv.Elem().Interface())

	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return normalizeInt64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return normalizeUint64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return normalizeFloat(rv.Float())
	case reflect.String:
		return String(rv.String())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null()
		}
		arr := NewArray()
		for i := 0; i < rv.Len(); i++ {
			arr.Append(Normalize(rv.Index(i).Interface()))
		}
		return arr

	case reflect.Map:
		if rv.IsNil() {
			return Null()
		}
		type kv struct {
			key string
			val reflect.Value
		}
		entries := make([]kv, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, kv{stringifyKey(iter.Key()), iter.Value()})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		obj := NewObject()
		for _, e := range entries {
			obj.Set(e.key, Normalize(e.val.Interface()))
		}
		return obj

	case reflect.Struct:
		return normalizeStruct(rv)
	}

	return Null()
}

// stringifyKey coerces a map key of any kind to its string form.
func stringifyKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

// normalizeStruct converts exported struct fields in declaration order,
// honoring json tags for names and omission.
func normalizeStruct(rv reflect.Value) *Value {
	t := rv.Type()
	obj := NewObject()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		obj.Set(name, Normalize(rv.Field(i).Interface()))
	}
	return obj
}
