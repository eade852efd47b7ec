// Package storage persists state blobs in a local key-value backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Backend.Get for a key that was never written.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidKey is returned for empty keys or keys that are not plain names.
	ErrInvalidKey = errors.New("invalid key")

	// ErrCorrupt is returned when a stored blob cannot be decoded.
	ErrCorrupt = errors.New("corrupt persisted state")
)

// Backend is a local key-value store. Values are opaque bytes.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

const (
	KindSQLite = "sqlite"
	KindFile   = "file"
	KindMemory = "memory"
)

// Open returns the backend of the given kind rooted at location: a database
// file for sqlite, a directory for file. location is ignored for memory.
func Open(kind, location string) (Backend, error) {
	switch kind {
	case KindSQLite, "":
		s, err := OpenSQLite(location)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindFile:
		d, err := OpenDir(location)
		if err != nil {
			return nil, err
		}
		return d, nil
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

func validKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
