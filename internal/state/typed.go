package state

import (
	"encoding/json"
	"fmt"
)

// TypedStore wraps Store with JSON marshaling for a specific type.
type TypedStore[T any] struct {
	store *Store
	kind  string
}

// NewTypedStore creates a typed store wrapper for the given kind.
func NewTypedStore[T any](store *Store, kind string) *TypedStore[T] {
	return &TypedStore[T]{
		store: store,
		kind:  kind,
	}
}

// Get retrieves and unmarshals the value for an ID. Returns found=false when
// absent.
func (s *TypedStore[T]) Get(id string) (value T, found bool, err error) {
	payload, err := s.store.Get(s.kind, id)
	if err != nil {
		return value, false, err
	}
	if payload == nil {
		return value, false, nil
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		return value, false, fmt.Errorf("failed to unmarshal %s state: %w", s.kind, err)
	}
	return value, true, nil
}

// Set marshals and stores the value for an ID.
func (s *TypedStore[T]) Set(id string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s state: %w", s.kind, err)
	}
	return s.store.Set(s.kind, id, payload)
}

// Delete removes the value for an ID.
func (s *TypedStore[T]) Delete(id string) error {
	return s.store.Delete(s.kind, id)
}

// Clear removes all values of this kind.
func (s *TypedStore[T]) Clear() error {
	return s.store.Clear(s.kind)
}
