// Package blobstore stores chart images and other binary artefacts across an
// ordered list of backends, falling back to the next backend on failure.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotFound is returned when no backend holds the key
	ErrNotFound = errors.New("blob not found")

	// ErrAllBackendsFailed is returned by Put when every backend rejected the blob
	ErrAllBackendsFailed = errors.New("all blob backends failed")

	// ErrTooLarge is returned when a blob exceeds the configured maximum size
	ErrTooLarge = errors.New("blob exceeds maximum size")

	// ErrInvalidKey is returned for keys outside [A-Za-z0-9._-]{1,200} or
	// starting with a dot
	ErrInvalidKey = errors.New("invalid blob key")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]{0,199}$`)

// ValidateKey rejects empty keys, path separators and hidden names
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Blob is a stored object
type Blob struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
	Backend     string `json:"backend"`
}

// Backend is one storage target in the chain
type Backend interface {
	Name() string
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns ErrNotFound when the key is absent
	Get(ctx context.Context, key string) (*Blob, error)
	// Delete of a missing key is not an error
	Delete(ctx context.Context, key string) error
}
