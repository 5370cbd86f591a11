package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// DefaultMemoryCapacity is how many recent messages a MemoryQueue keeps
const DefaultMemoryCapacity = 1000

// Listener receives messages published to a MemoryQueue
type Listener func(msg Message) error

// MemoryQueue keeps the most recent messages in process and hands each new
// message to the listeners of its subject. Old messages are evicted, so
// publishing never blocks or fails for lack of a consumer.
type MemoryQueue struct {
	capacity  int
	messages  []Message
	listeners map[string][]Listener
	closed    bool
	mu        sync.RWMutex
}

func newMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryQueue{
		capacity:  capacity,
		listeners: make(map[string][]Listener),
	}
}

// Publish stores a bare payload
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	return q.PublishMessage(ctx, Message{Subject: subject, Data: data})
}

// PublishMessage stores msg and runs the subject's listeners. Listener errors
// are joined and returned after every listener has run.
func (q *MemoryQueue) PublishMessage(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg = cloneMessage(msg)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return fmt.Errorf("queue closed")
	}
	if len(q.messages) == q.capacity {
		copy(q.messages, q.messages[1:])
		q.messages = q.messages[:len(q.messages)-1]
	}
	q.messages = append(q.messages, msg)
	listeners := append([]Listener(nil), q.listeners[msg.Subject]...)
	q.mu.Unlock()

	var errs []error
	for _, l := range listeners {
		if err := l(msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Listen registers l for subject
func (q *MemoryQueue) Listen(subject string, l Listener) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return fmt.Errorf("queue closed")
	}
	q.listeners[subject] = append(q.listeners[subject], l)
	return nil
}

// Recent returns up to limit of the newest messages on subject, oldest
// first. An empty subject matches everything; limit <= 0 returns all.
func (q *MemoryQueue) Recent(subject string, limit int) []Message {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var out []Message
	for i := len(q.messages) - 1; i >= 0; i-- {
		if subject != "" && q.messages[i].Subject != subject {
			continue
		}
		out = append(out, q.messages[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Len returns the number of retained messages
func (q *MemoryQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.messages)
}

// Close drops retained messages and listeners
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.messages = nil
	q.listeners = make(map[string][]Listener)
	return nil
}

func cloneMessage(msg Message) Message {
	msg.Data = append([]byte(nil), msg.Data...)
	if msg.Headers != nil {
		headers := make(map[string]string, len(msg.Headers))
		for k, v := range msg.Headers {
			headers[k] = v
		}
		msg.Headers = headers
	}
	return msg
}
