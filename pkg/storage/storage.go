package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned when a requested key does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidKey is returned for keys that escape the storage root.
var ErrInvalidKey = errors.New("invalid key")

// Storage is a flat object store addressed by slash-separated keys.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	// List returns the keys directly under prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}
