package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultStreamName is the JetStream stream that captures SubjectPrefix.>
const DefaultStreamName = "MARINE_ANALYTICS"

// DefaultStreamMaxAge bounds how long completion events are retained
const DefaultStreamMaxAge = 7 * 24 * time.Hour

// NATSConfig represents NATS JetStream configuration
type NATSConfig struct {
	URL      string
	Username string
	Password string
	Stream   string        // default: DefaultStreamName
	MaxAge   time.Duration // default: DefaultStreamMaxAge
}

// NATSPublisher publishes to JetStream. Message ids become Nats-Msg-Id so a
// retried publish inside the duplicate window is stored once.
type NATSPublisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	stream string
}

func newNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	opts := []nats.Option{nats.Name("marine-analytics")}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p, err := newNATSPublisherWithConn(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

// newNATSPublisherWithConn wraps an existing connection and makes sure the
// events stream exists
func newNATSPublisherWithConn(conn *nats.Conn, cfg NATSConfig) (*NATSPublisher, error) {
	if cfg.Stream == "" {
		cfg.Stream = DefaultStreamName
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = DefaultStreamMaxAge
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if _, err := js.StreamInfo(cfg.Stream); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			return nil, fmt.Errorf("failed to look up stream %s: %w", cfg.Stream, err)
		}
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     cfg.Stream,
			Subjects: []string{SubjectPrefix + ".>"},
			Storage:  nats.FileStorage,
			MaxAge:   cfg.MaxAge,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stream %s: %w", cfg.Stream, err)
		}
	}

	return &NATSPublisher{conn: conn, js: js, stream: cfg.Stream}, nil
}

// Publish publishes a bare payload and waits for the JetStream ack
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	return p.PublishMessage(ctx, Message{Subject: subject, Data: data})
}

// PublishMessage publishes msg with its headers and waits for the ack.
// Key is not used; JetStream orders by subject.
func (p *NATSPublisher) PublishMessage(ctx context.Context, msg Message) error {
	m := nats.NewMsg(msg.Subject)
	m.Data = msg.Data
	for name, value := range msg.Headers {
		m.Header.Set(name, value)
	}

	opts := []nats.PubOpt{nats.Context(ctx)}
	if msg.ID != "" {
		opts = append(opts, nats.MsgId(msg.ID))
	}
	if _, err := p.js.PublishMsg(m, opts...); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", msg.Subject, err)
	}
	return nil
}

// Close closes the NATS connection
func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}
