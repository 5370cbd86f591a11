package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nara-ocean/marine-analytics/internal/utils"
)

// Stream entry fields besides the headers
const (
	redisFieldData = "data"
	redisFieldID   = "id"
	redisFieldKey  = "key"
)

// RedisConfig represents Redis Streams configuration
type RedisConfig struct {
	Addr     string // host:port or redis:// URL
	Password string
	DB       int
	Stream   string // Stream prefix (default: "marine")
	MaxLen   int64  // Approximate stream cap, 0 keeps everything
}

// RedisPublisher appends messages to one Redis stream per subject. Headers
// are stored as h:<name> fields next to data, id and key.
type RedisPublisher struct {
	client *redis.Client
	config RedisConfig
}

func newRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(cfg.Addr)
	if err != nil {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	return newRedisPublisherWithClient(redis.NewClient(opts), cfg)
}

func newRedisPublisherWithClient(client *redis.Client, cfg RedisConfig) (*RedisPublisher, error) {
	ctx, cancel := context.WithTimeout(context.Background(), utils.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.Stream == "" {
		cfg.Stream = "marine"
	}
	return &RedisPublisher{client: client, config: cfg}, nil
}

// streamName converts a subject to a Redis stream name
func (p *RedisPublisher) streamName(subject string) string {
	return fmt.Sprintf("%s:%s", p.config.Stream, subject)
}

// Publish appends a bare payload
func (p *RedisPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	return p.PublishMessage(ctx, Message{Subject: subject, Data: data})
}

// PublishMessage appends msg to the subject's stream
func (p *RedisPublisher) PublishMessage(ctx context.Context, msg Message) error {
	stream := p.streamName(msg.Subject)

	values := map[string]interface{}{redisFieldData: msg.Data}
	if msg.ID != "" {
		values[redisFieldID] = msg.ID
	}
	if msg.Key != "" {
		values[redisFieldKey] = msg.Key
	}
	for name, value := range msg.Headers {
		values["h:"+name] = value
	}

	args := &redis.XAddArgs{
		Stream: stream,
		ID:     "*",
		Values: values,
	}
	if p.config.MaxLen > 0 {
		args.MaxLen = p.config.MaxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis stream %s: %w", stream, err)
	}
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
