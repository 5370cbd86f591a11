package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nara-ocean/marine-analytics/internal/compression"
	"github.com/nara-ocean/marine-analytics/internal/utils"
)

// RedisOptions configures RedisStore
type RedisOptions struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string        // default "marine:predictions"
	TTL          time.Duration // 0 keeps records forever
	DefaultLimit int
	Compression  string // snappy (default), none
}

// RedisStore keeps each record as a compressed JSON string under
// <prefix>:rec:<id> and indexes ids in sorted sets scored by creation time:
// <prefix>:idx, <prefix>:idx:<kind> and <prefix>:idx:<kind>:<series>.
type RedisStore struct {
	client       *redis.Client
	prefix       string
	ttl          time.Duration
	defaultLimit int
	algo         compression.Algorithm
}

// NewRedisStore connects and pings Redis
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return newRedisStoreWithClient(client, opts)
}

func newRedisStoreWithClient(client *redis.Client, opts RedisOptions) (*RedisStore, error) {
	algo, err := compression.ParseAlgorithm(opts.Compression)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "marine:predictions"
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}

	return &RedisStore{
		client:       client,
		prefix:       opts.KeyPrefix,
		ttl:          opts.TTL,
		defaultLimit: opts.DefaultLimit,
		algo:         algo,
	}, nil
}

func (s *RedisStore) recordKey(id string) string {
	return s.prefix + ":rec:" + id
}

func (s *RedisStore) indexKey(q Query) string {
	switch {
	case q.Kind != "" && q.SeriesID != "":
		return fmt.Sprintf("%s:idx:%s:%s", s.prefix, q.Kind, q.SeriesID)
	case q.Kind != "":
		return fmt.Sprintf("%s:idx:%s", s.prefix, q.Kind)
	default:
		return s.prefix + ":idx"
	}
}

// Save writes the record and its index entries in one transaction
func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	payload, err := compression.Encode(s.algo, data)
	if err != nil {
		return fmt.Errorf("failed to compress record: %w", err)
	}

	member := redis.Z{Score: float64(rec.CreatedAt.UnixMilli()), Member: rec.ID}
	indexes := []string{s.indexKey(Query{}), s.indexKey(Query{Kind: rec.Kind})}
	if rec.SeriesID != "" {
		indexes = append(indexes, s.indexKey(Query{Kind: rec.Kind, SeriesID: rec.SeriesID}))
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recordKey(rec.ID), payload, s.ttl)
		for _, idx := range indexes {
			pipe.ZAdd(ctx, idx, member)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.ID, err)
	}
	return nil
}

// Get loads one record
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	payload, err := s.client.Get(ctx, s.recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load record %s: %w", id, err)
	}
	return decodeRecord(payload)
}

// List reads ids newest first from the narrowest index and loads them.
// Ids whose record has expired are pruned from that index.
func (s *RedisStore) List(ctx context.Context, q Query) ([]*Record, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if q.SeriesID != "" && q.Kind == "" {
		return s.listBySeries(ctx, q.SeriesID, limit)
	}

	idx := s.indexKey(q)
	ids, err := s.client.ZRevRange(ctx, idx, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", idx, err)
	}
	return s.load(ctx, idx, ids)
}

// listBySeries scans the global index since series ids are only indexed per kind
func (s *RedisStore) listBySeries(ctx context.Context, seriesID string, limit int) ([]*Record, error) {
	idx := s.indexKey(Query{})
	out := make([]*Record, 0, limit)
	const page = 100

	for start := int64(0); len(out) < limit; start += page {
		ids, err := s.client.ZRevRange(ctx, idx, start, start+page-1).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read index %s: %w", idx, err)
		}
		if len(ids) == 0 {
			break
		}
		recs, err := s.load(ctx, idx, ids)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if rec.SeriesID == seriesID && len(out) < limit {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (s *RedisStore) load(ctx context.Context, idx string, ids []string) ([]*Record, error) {
	out := make([]*Record, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	var stale []interface{}
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		rec, err := decodeRecord([]byte(str))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if len(stale) > 0 {
		s.client.ZRem(ctx, idx, stale...)
	}
	return out, nil
}

func decodeRecord(payload []byte) (*Record, error) {
	data, err := compression.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &rec, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
