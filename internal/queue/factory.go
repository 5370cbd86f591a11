package queue

import (
	"fmt"
	"strings"

	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/utils"
)

// NewPublisher creates the event publisher for the configured broker. Redis
// streams reuse the shared redis connection settings; type "none" yields a
// publisher that drops everything.
func NewPublisher(cfg config.EventsConfig, redisCfg config.RedisConfig) (MessagePublisher, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))
	if queueType == "" {
		queueType = utils.QueueTypeMemory
	}

	switch queueType {
	case utils.QueueTypeNone:
		return noopPublisher{}, nil

	case utils.QueueTypeMemory:
		return newMemoryQueue(cfg.MemoryCapacity), nil

	case utils.QueueTypeNATS:
		return newNATSPublisher(NATSConfig{
			URL:      cfg.URL,
			Username: cfg.Username,
			Password: cfg.Password,
			Stream:   cfg.NATSStream,
			MaxAge:   cfg.NATSMaxAge,
		})

	case utils.QueueTypeRedis:
		return newRedisPublisher(RedisConfig{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
			Stream:   cfg.RedisStream,
			MaxLen:   cfg.RedisMaxLen,
		})

	case utils.QueueTypeKafka:
		brokers := cfg.KafkaBrokers
		if len(brokers) == 0 && cfg.URL != "" {
			brokers = strings.Split(cfg.URL, ",")
		}
		return newKafkaPublisher(KafkaConfig{Brokers: brokers})

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: memory, nats, redis, kafka, none)", queueType)
	}
}
