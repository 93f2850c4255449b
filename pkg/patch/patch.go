// Package patch provides the optional-field type used by partial-update
// payloads. Unlike a plain pointer, a Field records whether the key was
// present in the JSON body at all, so "field absent" and "field: null"
// are distinguishable.
package patch

import "encoding/json"

// Field wraps a value for PATCH payloads.
//
//	absent        → Present=false
//	"key": null   → Present=true, Null=true
//	"key": v      → Present=true, Null=false, Value=v
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Set builds a present, non-null field. Mostly useful in tests.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// UnmarshalJSON is only called by encoding/json when the key exists, so
// its mere invocation marks the field present.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Present = true
	if string(b) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// MarshalJSON round-trips the wrapped value (null when Null is set).
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Get returns the value and whether it is usable (present and non-null).
func (f Field[T]) Get() (T, bool) {
	if !f.Present || f.Null {
		var zero T
		return zero, false
	}
	return f.Value, true
}
