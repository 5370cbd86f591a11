package blobstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/logging"
)

func TestRedisBackend_RoundTrip(t *testing.T) {
	rb, _ := redisBackend(t)
	ctx := context.Background()
	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}

	require.NoError(t, rb.Put(ctx, "img", payload, "image/png"))
	blob, err := rb.Get(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, payload, blob.Data)
	assert.Equal(t, "image/png", blob.ContentType)

	require.NoError(t, rb.Put(ctx, "img", []byte("v2"), "text/plain"))
	blob, err = rb.Get(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), blob.Data)

	require.NoError(t, rb.Delete(ctx, "img"))
	_, err = rb.Get(ctx, "img")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisBackend_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()
	rb := NewRedisBackend(client, "", time.Minute)

	require.NoError(t, rb.Put(context.Background(), "k", []byte("x"), "text/plain"))
	assert.True(t, mr.Exists("marine:images:k"))

	mr.FastForward(2 * time.Minute)
	_, err := rb.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystemBackend_RoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	b, err := NewFilesystemBackendFs(fsys)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "map.png", []byte("data"), "image/png"))
	exists, err := afero.Exists(fsys, "map.png")
	require.NoError(t, err)
	assert.True(t, exists)

	blob, err := b.Get(ctx, "map.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.ContentType)

	require.NoError(t, b.Delete(ctx, "map.png"))
	require.NoError(t, b.Delete(ctx, "map.png"))
	_, err = b.Get(ctx, "map.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystemBackend_CancelledContext(t *testing.T) {
	b := memFsBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, b.Put(ctx, "k", []byte("x"), ""))
}

func TestFilesystemBackend_OnDisk(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFilesystemBackend(dir + "/images")
	require.NoError(t, err)

	require.NoError(t, b.Put(context.Background(), "k", []byte("x"), "text/plain"))
	data, err := afero.ReadFile(afero.NewOsFs(), dir+"/images/k")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.BlobstoreConfig{
		Enabled:    true,
		Backends:   []string{"redis", "filesystem"},
		MaxSize:    1024,
		Redis:      config.BlobRedisConfig{KeyPrefix: "imgs"},
		Filesystem: config.FilesystemConfig{Dir: t.TempDir()},
	}

	chain, err := New(context.Background(), cfg, config.RedisConfig{Addr: mr.Addr()}, logging.Nop())
	require.NoError(t, err)
	defer func() { _ = chain.Close() }()

	assert.Equal(t, []string{"redis", "filesystem"}, chain.Backends())
	assert.Equal(t, int64(1024), chain.MaxSize())

	res, err := chain.Put(context.Background(), "k", []byte("x"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "redis", res.Backend)
	assert.True(t, mr.Exists("imgs:k"))
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := config.BlobstoreConfig{Backends: []string{"floppy"}}
	_, err := New(context.Background(), cfg, config.RedisConfig{}, logging.Nop())
	assert.Error(t, err)
}
