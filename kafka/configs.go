package kafka

import (
	"context"
	"time"
)

// Config configures a Kafka publisher or consumer.
type Config struct {
	// Brokers is a list of Kafka broker addresses.
	Brokers []string

	// Topic is the topic to publish to or consume from.
	Topic string

	// GroupID is the consumer group. Only used when IsConsumer is true.
	GroupID string

	// IsConsumer selects a reader instead of a writer.
	IsConsumer bool

	// ChildOfCurrent publishes each message in a child of the caller's
	// current scope. The default gives every message its own new trace,
	// the same as a WebSocket send.
	ChildOfCurrent bool

	// MinBytes is the minimum number of bytes to fetch in a single request.
	// Default: 1 byte
	MinBytes int

	// MaxBytes is the maximum number of bytes to fetch in a single request.
	// Default: 10MB
	MaxBytes int

	// MaxWait is the maximum amount of time to wait for MinBytes to become available.
	// Default: 10s
	MaxWait time.Duration

	// EnableAutoCommit commits offsets every CommitInterval. When false,
	// call Message.CommitMsg after processing.
	EnableAutoCommit bool

	// CommitInterval is how often offsets are committed when
	// EnableAutoCommit is set. Default: 1s
	CommitInterval time.Duration

	// StartOffset is FirstOffset or LastOffset. Default: FirstOffset
	StartOffset int64

	// Partition to read from when no GroupID is set. -1 means automatic.
	Partition int

	// RequiredAcks is RequireNone, RequireOne or RequireAll.
	// Default: RequireAll
	RequiredAcks int

	// WriteTimeout bounds a write, including acknowledgment.
	// Default: 10s
	WriteTimeout time.Duration

	// Async batches writes in the background. Publish then returns before
	// the broker acknowledges, and write errors are only logged.
	Async bool

	// BatchSize and BatchTimeout tune async batching.
	// Defaults: 100 messages, 1s
	BatchSize    int
	BatchTimeout time.Duration

	// CompressionCodec is one of "", "gzip", "snappy", "lz4" or "zstd".
	CompressionCodec string

	// MaxAttempts is the number of delivery attempts. Default: 10
	MaxAttempts int

	// AllowAutoTopicCreation lets the writer create a missing topic.
	AllowAutoTopicCreation bool

	// DataType selects the default serializer: "json" (default), "string"
	// or "bytes".
	DataType string
}

// Logger is the subset of logger.Logger used by the client.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Default values for configuration
const (
	DefaultMinBytes       = 1
	DefaultMaxBytes       = 10e6 // 10MB
	DefaultMaxWait        = 10 * time.Second
	DefaultCommitInterval = 1 * time.Second
	DefaultStartOffset    = -2 // FirstOffset
	DefaultPartition      = -1 // Automatic partition assignment
	DefaultRequiredAcks   = -1 // WaitForAll
	DefaultBatchSize      = 100
	DefaultBatchTimeout   = 1 * time.Second
	DefaultMaxAttempts    = 10
	DefaultWriteTimeout   = 10 * time.Second

	// Producer acknowledgment modes
	RequireNone = 0
	RequireOne  = 1
	RequireAll  = -1

	// Consumer offset modes
	FirstOffset = -2
	LastOffset  = -1
)

func (c Config) withDefaults() Config {
	if c.MinBytes == 0 {
		c.MinBytes = DefaultMinBytes
	}
	if c.MaxBytes == 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.MaxWait == 0 {
		c.MaxWait = DefaultMaxWait
	}
	if c.CommitInterval == 0 {
		c.CommitInterval = DefaultCommitInterval
	}
	if c.StartOffset == 0 {
		c.StartOffset = DefaultStartOffset
	}
	if c.Partition == 0 {
		c.Partition = DefaultPartition
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = DefaultRequiredAcks
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchTimeout == 0 {
		c.BatchTimeout = DefaultBatchTimeout
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	return c
}
