// Package value provides the shape predicates and serialization helpers the
// checks use to inspect action results.
//
// A result is whatever an action produced, decoded into plain Go values:
// map[string]any for objects, []any for arrays, and string, bool, nil or a
// number for primitives. Results are frequently malformed, so every helper
// here accepts any value and never panics on unexpected shapes.
//
// Serialization follows JSON.stringify conventions because messages embed
// serialized keys that callers match on:
//   - No HTML escaping (< > & are written as-is)
//   - U+2028 and U+2029 are not escaped
//   - Integral numbers are written without a fraction
//   - NaN and Infinity are written as null
package value
