// Package queue publishes analytics completion events to a message broker.
package queue

import "context"

// Message is one outgoing broker message
type Message struct {
	Subject string
	// Key orders messages that share it; brokers without partitions ignore it
	Key string
	// ID lets brokers that support it drop duplicate publishes
	ID      string
	Headers map[string]string
	Data    []byte
}

// Publisher publishes messages to a queue
type Publisher interface {
	// Publish publishes a bare payload to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// Close closes the connection
	Close() error
}

// MessagePublisher is a Publisher that can also carry keys, ids and headers
type MessagePublisher interface {
	Publisher
	PublishMessage(ctx context.Context, msg Message) error
}

// send uses PublishMessage when p supports it
func send(ctx context.Context, p Publisher, msg Message) error {
	if mp, ok := p.(MessagePublisher); ok {
		return mp.PublishMessage(ctx, msg)
	}
	return p.Publish(ctx, msg.Subject, msg.Data)
}

// noopPublisher drops every message
type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, []byte) error  { return nil }
func (noopPublisher) PublishMessage(context.Context, Message) error { return nil }
func (noopPublisher) Close() error                                  { return nil }
