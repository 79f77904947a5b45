// Package toon implements TOON (Token-Oriented Object Notation), a compact,
// indentation-structured codec for the JSON value domain.
//
// TOON is designed to be:
//   - Token-cheap for LLM consumption (bare scalars, no braces, tabular rows)
//   - Unambiguous (context-sensitive quoting, shared header grammar)
//   - Round-trippable to JSON
//   - Deterministic (same value + options always yields the same text)
//
// # Data Model
//
// Scalars: null, bool, number (float64), string
// Containers: array, object (insertion-ordered)
//
// # Syntax
//
//	Scalar field:    id: 1
//	Nested object:   user:
//	                   id: 1
//	Inline array:    tags[2]: foo,bar
//	Tabular array:   items[2]{id,qty}:
//	                   1,5
//	                   2,3
//	Mixed list:      items[3]:
//	                   - 1
//	                   - a: 1
//	                   - x
//
// The bracket header carries the element count, an optional '#' length
// marker, the active delimiter when it is not a comma, and the field list
// for tabular form. Encoder and decoder share one header grammar.
//
// # Error Tolerance
//
// Decoding is lenient by default:
//   - Count mismatches between headers and bodies are accepted, except
//     for list-form arrays: their item count must match the header unless
//     an item is an array or has an array on its "- " line
//   - Tab indentation is accepted (each tab counts as 4 columns)
//   - Indentation need not align to the configured width
//
// Strict mode turns all of the above into fatal errors.
package toon
