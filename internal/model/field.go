package model

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state patch value that tells apart an omitted key, an
// explicit JSON null and a concrete value.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func Set[T any](value T) Field[T] {
	return Field[T]{Present: true, Value: value}
}

func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// FieldFromPtr maps nil to an explicit null.
func FieldFromPtr[T any](value *T) Field[T] {
	if value == nil {
		return Null[T]()
	}
	return Set(*value)
}

func (f Field[T]) IsZero() bool {
	return !f.Present
}

// Ptr returns nil for null or absent fields.
func (f Field[T]) Ptr() *T {
	if !f.Present || f.Null {
		return nil
	}
	value := f.Value
	return &value
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
