package services

import (
	"context"
	"errors"

	"github.com/nara-ocean/marine-analytics/internal/blobstore"
	"github.com/nara-ocean/marine-analytics/internal/logging"
	"github.com/nara-ocean/marine-analytics/internal/metrics"
)

// ImageService stores chart images through the blob fallback chain
type ImageService struct {
	logger  *logging.Logger
	chain   *blobstore.Chain
	metrics *metrics.Metrics
}

// NewImageService creates a new ImageService. A nil chain disables every
// operation with BLOBSTORE_DISABLED.
func NewImageService(logger *logging.Logger, chain *blobstore.Chain, m *metrics.Metrics) *ImageService {
	return &ImageService{
		logger:  logger,
		chain:   chain,
		metrics: m,
	}
}

// Enabled reports whether a blob chain is configured
func (s *ImageService) Enabled() bool {
	return s != nil && s.chain != nil
}

// Put stores an image under key
func (s *ImageService) Put(ctx context.Context, key string, data []byte, contentType string) (*blobstore.PutResult, error) {
	if !s.Enabled() {
		return nil, disabledError()
	}

	result, err := s.chain.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, s.translate(key, result, err)
	}

	s.metrics.IncBlobPut(result.Backend)
	s.logger.WithContext(ctx).Info("Image stored",
		"key", key,
		"backend", result.Backend,
		"size", result.Size,
		"attempts", len(result.Attempts),
	)
	return result, nil
}

// Get returns the image stored under key
func (s *ImageService) Get(ctx context.Context, key string) (*blobstore.Blob, error) {
	if !s.Enabled() {
		return nil, disabledError()
	}

	blob, err := s.chain.Get(ctx, key)
	if err != nil {
		return nil, s.translate(key, nil, err)
	}
	return blob, nil
}

// Delete removes the image from every backend
func (s *ImageService) Delete(ctx context.Context, key string) (*blobstore.DeleteResult, error) {
	if !s.Enabled() {
		return nil, disabledError()
	}

	result, err := s.chain.Delete(ctx, key)
	if err != nil {
		return nil, s.translate(key, nil, err)
	}
	return result, nil
}

func disabledError() *ServiceError {
	return NewServiceError(CodeBlobstoreDisabled, "image storage is disabled")
}

func (s *ImageService) translate(key string, result *blobstore.PutResult, err error) *ServiceError {
	switch {
	case errors.Is(err, blobstore.ErrInvalidKey):
		return NewServiceErrorWithDetails(CodeInvalidInput, err.Error(), map[string]interface{}{
			"field": "key",
		})
	case errors.Is(err, blobstore.ErrTooLarge):
		return NewServiceErrorWithDetails(CodePayloadTooLarge, err.Error(), map[string]interface{}{
			"max_size": s.chain.MaxSize(),
		})
	case errors.Is(err, blobstore.ErrNotFound):
		return NewServiceErrorWithDetails(CodeNotFound, "image not found", map[string]interface{}{
			"key": key,
		})
	}

	s.logger.Error("Image storage failed", "key", key, "error", err)
	details := map[string]interface{}{"backends": s.chain.Backends()}
	if result != nil {
		details["attempts"] = result.Attempts
	}
	return NewServiceErrorWithDetails(CodeStorageFailed, err.Error(), details)
}
