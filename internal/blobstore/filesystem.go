package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/spf13/afero"
)

const metaDir = ".meta"

// FilesystemBackend stores blobs as files; content types live in a sidecar
// directory so blob files hold only the payload
type FilesystemBackend struct {
	fs afero.Fs
}

// NewFilesystemBackend stores blobs under dir on the OS filesystem
func NewFilesystemBackend(dir string) (*FilesystemBackend, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory %s: %w", dir, err)
	}
	return NewFilesystemBackendFs(afero.NewBasePathFs(osFs, dir))
}

// NewFilesystemBackendFs uses an arbitrary afero filesystem rooted at "/"
func NewFilesystemBackendFs(fsys afero.Fs) (*FilesystemBackend, error) {
	if err := fsys.MkdirAll(metaDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create metadata directory: %w", err)
	}
	return &FilesystemBackend{fs: fsys}, nil
}

func (b *FilesystemBackend) Name() string { return "filesystem" }

func (b *FilesystemBackend) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := afero.WriteFile(b.fs, key, data, 0o644); err != nil {
		return fmt.Errorf("filesystem put %s: %w", key, err)
	}
	if err := afero.WriteFile(b.fs, path.Join(metaDir, key), []byte(contentType), 0o644); err != nil {
		return fmt.Errorf("filesystem put %s metadata: %w", key, err)
	}
	return nil
}

func (b *FilesystemBackend) Get(ctx context.Context, key string) (*Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(b.fs, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("filesystem get %s: %w", key, err)
	}

	contentType := "application/octet-stream"
	if meta, err := afero.ReadFile(b.fs, path.Join(metaDir, key)); err == nil && len(meta) > 0 {
		contentType = string(meta)
	}
	return &Blob{Key: key, ContentType: contentType, Data: data}, nil
}

func (b *FilesystemBackend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, p := range []string{key, path.Join(metaDir, key)} {
		if err := b.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("filesystem delete %s: %w", key, err)
		}
	}
	return nil
}
