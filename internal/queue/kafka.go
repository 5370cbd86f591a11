package queue

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// HeaderEventID carries Message.ID on brokers without native deduplication
const HeaderEventID = "event-id"

// KafkaConfig represents Apache Kafka producer configuration
type KafkaConfig struct {
	Brokers      []string      // Kafka broker addresses
	BatchTimeout time.Duration // Producer batch timeout (default: 10ms)
	RequiredAcks int           // 0=none, 1=leader, -1=all (default: 1)
	MaxAttempts  int           // Producer attempts (default: 3)
}

// KafkaPublisher writes messages to one topic per subject. Messages are
// partitioned by key hash, so events of one series land on one partition.
type KafkaPublisher struct {
	config  KafkaConfig
	writers map[string]*kafka.Writer
	mu      sync.Mutex
}

func newKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = int(kafka.RequireOne)
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}

	return &KafkaPublisher{
		config:  cfg,
		writers: make(map[string]*kafka.Writer),
	}, nil
}

// writer returns the writer for topic, creating it on first use
func (p *KafkaPublisher) writer(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, exists := p.writers[topic]; exists {
		return w
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(p.config.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           p.config.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(p.config.RequiredAcks),
		MaxAttempts:            p.config.MaxAttempts,
		AllowAutoTopicCreation: true,
	}
	p.writers[topic] = w
	return w
}

// Publish writes a bare payload
func (p *KafkaPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	return p.PublishMessage(ctx, Message{Subject: subject, Data: data})
}

// PublishMessage writes msg to the topic named by its subject
func (p *KafkaPublisher) PublishMessage(ctx context.Context, msg Message) error {
	if err := p.writer(msg.Subject).WriteMessages(ctx, kafkaMessage(msg, time.Now())); err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", msg.Subject, err)
	}
	return nil
}

// kafkaMessage converts msg. Headers are sorted by name for stable output.
func kafkaMessage(msg Message, now time.Time) kafka.Message {
	km := kafka.Message{Value: msg.Data, Time: now}
	if msg.Key != "" {
		km.Key = []byte(msg.Key)
	}

	names := make([]string, 0, len(msg.Headers))
	for name := range msg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		km.Headers = append(km.Headers, kafka.Header{Key: name, Value: []byte(msg.Headers[name])})
	}
	if msg.ID != "" {
		km.Headers = append(km.Headers, kafka.Header{Key: HeaderEventID, Value: []byte(msg.ID)})
	}
	return km
}

// Close closes all writers
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
		delete(p.writers, topic)
	}
	return lastErr
}

// Stats returns writer stats for a topic
func (p *KafkaPublisher) Stats(topic string) kafka.WriterStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, exists := p.writers[topic]; exists {
		return w.Stats()
	}
	return kafka.WriterStats{}
}
