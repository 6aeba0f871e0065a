package db

import (
	"errors"
	"fmt"
)

// KV is the key-value persistence collaborator used by the annotation and
// transcript stores. Values are JSON documents stored as strings.
type KV interface {
	// Get returns the value for key. A missing key reports ok=false and no error.
	Get(key string) (value string, ok bool, err error)
	// Set overwrites the value for key.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys returns all keys starting with prefix, most recently written first.
	Keys(prefix string) ([]string, error)
	Close() error
}

var (
	// ErrClosed is returned when a store is used after Close.
	ErrClosed = errors.New("db: store closed")
)

// StoreError wraps a failed key-value operation.
type StoreError struct {
	Op  string // "get", "set", "delete", "keys"
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("db %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("db %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
