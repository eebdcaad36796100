package models

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Optional is a JSON field that remembers whether it was present at
// all. A missing key leaves Set false; an explicit null sets Set with
// Valid false. Partial updates rely on the distinction: omitting
// due_date keeps the stored value while sending null clears it.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func NewOptional[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: value}
}

func NullOptional[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}

	err := json.Unmarshal(data, &o.Value)
	if err != nil {
		return err
	}

	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}
