package blobstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each blob as a hash with data and content_type fields
type RedisBackend struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBackend wraps client. Keys become <prefix>:<key>.
func NewRedisBackend(client *redis.Client, prefix string, ttl time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = "marine:images"
	}
	return &RedisBackend{client: client, prefix: prefix, ttl: ttl}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) key(key string) string {
	return b.prefix + ":" + key
}

func (b *RedisBackend) Put(ctx context.Context, key string, data []byte, contentType string) error {
	k := b.key(key)
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, "content_type", contentType, "data", data)
		if b.ttl > 0 {
			pipe.Expire(ctx, k, b.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put %s: %w", key, err)
	}
	return nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) (*Blob, error) {
	fields, err := b.client.HGetAll(ctx, b.key(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	data, ok := fields["data"]
	if !ok {
		return nil, ErrNotFound
	}
	return &Blob{Key: key, ContentType: fields["content_type"], Data: []byte(data)}, nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}
