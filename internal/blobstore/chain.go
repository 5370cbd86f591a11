package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nara-ocean/marine-analytics/internal/logging"
	"github.com/nara-ocean/marine-analytics/internal/utils"
)

// DefaultMaxSize is 5 MiB
const DefaultMaxSize int64 = 5 * 1024 * 1024

// Attempt records the outcome of one backend call
type Attempt struct {
	Backend string `json:"backend"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// PutResult reports which backend accepted a blob and what was tried first
type PutResult struct {
	Key      string    `json:"key"`
	Backend  string    `json:"backend,omitempty"`
	Size     int       `json:"size"`
	Attempts []Attempt `json:"attempts"`
}

// DeleteResult reports the per-backend outcome of a delete
type DeleteResult struct {
	Key      string    `json:"key"`
	Attempts []Attempt `json:"attempts"`
}

// Chain tries backends in order
type Chain struct {
	backends []Backend
	maxSize  int64
	timeout  time.Duration
	logger   *logging.Logger
	closers  []func() error
}

// Option customises a Chain
type Option func(*Chain)

// WithMaxSize sets the largest accepted blob
func WithMaxSize(n int64) Option {
	return func(c *Chain) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithTimeout bounds each backend call
func WithTimeout(d time.Duration) Option {
	return func(c *Chain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for fallback warnings
func WithLogger(l *logging.Logger) Option {
	return func(c *Chain) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChain builds a chain over backends in priority order
func NewChain(backends []Backend, opts ...Option) *Chain {
	c := &Chain{
		backends: backends,
		maxSize:  DefaultMaxSize,
		timeout:  utils.BlobTimeout,
		logger:   logging.Global(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backends returns the backend names in priority order
func (c *Chain) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// MaxSize returns the largest accepted blob in bytes
func (c *Chain) MaxSize() int64 {
	return c.maxSize
}

// Put stores data in the first backend that accepts it. When every backend
// fails the result still lists the attempts and the error wraps
// ErrAllBackendsFailed.
func (c *Chain) Put(ctx context.Context, key string, data []byte, contentType string) (*PutResult, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(data), c.maxSize)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result := &PutResult{Key: key, Size: len(data), Attempts: make([]Attempt, 0, len(c.backends))}
	var errs []error

	for _, b := range c.backends {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := b.Put(callCtx, key, data, contentType)
		cancel()

		if err == nil {
			result.Backend = b.Name()
			result.Attempts = append(result.Attempts, Attempt{Backend: b.Name(), OK: true})
			return result, nil
		}

		c.logger.Warn("Blob backend rejected write, trying next", "backend", b.Name(), "key", key, "error", err)
		result.Attempts = append(result.Attempts, Attempt{Backend: b.Name(), Error: err.Error()})
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}

	return result, fmt.Errorf("%w: %w", ErrAllBackendsFailed, errors.Join(errs...))
}

// Get returns the blob from the first backend that has it
func (c *Chain) Get(ctx context.Context, key string) (*Blob, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	var errs []error
	for _, b := range c.backends {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		blob, err := b.Get(callCtx, key)
		cancel()

		if err == nil {
			blob.Backend = b.Name()
			return blob, nil
		}
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("Blob backend read failed", "backend", b.Name(), "key", key, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, ErrNotFound
}

// Delete removes key from every backend
func (c *Chain) Delete(ctx context.Context, key string) (*DeleteResult, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	result := &DeleteResult{Key: key, Attempts: make([]Attempt, 0, len(c.backends))}
	for _, b := range c.backends {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := b.Delete(callCtx, key)
		cancel()

		attempt := Attempt{Backend: b.Name(), OK: err == nil}
		if err != nil {
			attempt.Error = err.Error()
		}
		result.Attempts = append(result.Attempts, attempt)
	}
	return result, nil
}
