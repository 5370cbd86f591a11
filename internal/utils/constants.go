package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout bounds one HTTP request end to end
	DefaultRequestTimeout = 30 * time.Second

	// ArchiveTimeout bounds a best-effort archive write
	ArchiveTimeout = 2 * time.Second

	// EventPublishTimeout bounds a best-effort event publish
	EventPublishTimeout = 2 * time.Second

	// BlobTimeout bounds one blob backend call
	BlobTimeout = 10 * time.Second

	// ConnectTimeout bounds the initial ping to an external backend
	ConnectTimeout = 5 * time.Second
)

// =============================================================================
// Queue Type Constants
// =============================================================================

// QueueType represents the type of event publisher
type QueueType string

const (
	// QueueTypeMemory keeps events in process (default)
	QueueTypeMemory QueueType = "memory"

	// QueueTypeNATS represents NATS JetStream
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeNone drops every event
	QueueTypeNone QueueType = "none"
)

// =============================================================================
// Archive Type Constants
// =============================================================================

// ArchiveType represents the prediction archive backend
type ArchiveType string

const (
	ArchiveTypeMemory ArchiveType = "memory"
	ArchiveTypeRedis  ArchiveType = "redis"
	ArchiveTypeNone   ArchiveType = "none"
)
