package blobstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/logging"
	"github.com/nara-ocean/marine-analytics/internal/utils"
)

// New builds the configured chain. A minio bucket that cannot be prepared is
// logged and kept in the chain so later writes fall through to the next backend.
func New(ctx context.Context, cfg config.BlobstoreConfig, redisCfg config.RedisConfig, logger *logging.Logger) (*Chain, error) {
	var (
		backends []Backend
		closers  []func() error
	)

	for _, name := range cfg.Backends {
		switch name {
		case "redis":
			client := redis.NewClient(&redis.Options{
				Addr:     redisCfg.Addr,
				Password: redisCfg.Password,
				DB:       redisCfg.DB,
			})
			closers = append(closers, client.Close)
			backends = append(backends, NewRedisBackend(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL))

		case "minio":
			b, err := NewMinioBackend(MinioOptions{
				Endpoint:  cfg.Minio.Endpoint,
				AccessKey: cfg.Minio.AccessKey,
				SecretKey: cfg.Minio.SecretKey,
				Bucket:    cfg.Minio.Bucket,
				UseSSL:    cfg.Minio.UseSSL,
			})
			if err != nil {
				closeAll(closers)
				return nil, err
			}
			bucketCtx, cancel := context.WithTimeout(ctx, utils.ConnectTimeout)
			if err := b.EnsureBucket(bucketCtx); err != nil {
				logger.Warn("Minio bucket not ready", "bucket", cfg.Minio.Bucket, "error", err)
			}
			cancel()
			backends = append(backends, b)

		case "filesystem":
			b, err := NewFilesystemBackend(cfg.Filesystem.Dir)
			if err != nil {
				closeAll(closers)
				return nil, err
			}
			backends = append(backends, b)

		default:
			closeAll(closers)
			return nil, fmt.Errorf("unknown blobstore backend: %s", name)
		}
	}

	chain := NewChain(backends, WithMaxSize(cfg.MaxSize), WithLogger(logger))
	chain.closers = closers
	return chain, nil
}

// Close releases backend connections
func (c *Chain) Close() error {
	return closeAll(c.closers)
}

func closeAll(closers []func() error) error {
	var first error
	for _, fn := range closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
