package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"

	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/scope"
)

// messageWriter is the part of *kafka.Writer used for publishing.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// messageReader is the part of *kafka.Reader used for consuming.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaClient is a Kafka publisher or consumer that carries trace context in
// message headers.
//
// KafkaClient implements the Client interface.
type KafkaClient struct {
	cfg    Config
	scopes *scope.Manager

	observer observability.Observer
	logger   Logger

	// mu protects the fields below.
	mu           sync.RWMutex
	writer       messageWriter
	reader       messageReader
	serializer   Serializer
	deserializer Deserializer

	// shutdownSignal is closed when the client is being shut down.
	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

// NewClient creates a publisher, or a consumer when cfg.IsConsumer is set.
// Messages are published in scopes started by scopes.
//
//	client, err := kafka.NewClient(kafka.Config{Brokers: brokers, Topic: "demo.events"}, scopes)
//	if err != nil {
//		return err
//	}
//	defer client.GracefulShutdown()
func NewClient(cfg Config, scopes *scope.Manager) (*KafkaClient, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.Topic == "" {
		return nil, ErrNoTopic
	}
	cfg = cfg.withDefaults()

	k := &KafkaClient{
		cfg:            cfg,
		scopes:         scopes,
		serializer:     defaultSerializer(cfg.DataType),
		deserializer:   defaultDeserializer(cfg.DataType),
		shutdownSignal: make(chan struct{}),
	}

	if cfg.IsConsumer {
		k.reader = createReader(cfg, k)
	} else {
		w, err := createWriter(cfg, k)
		if err != nil {
			return nil, err
		}
		k.writer = w
	}
	return k, nil
}

// WithObserver attaches an observer notified of every produce and consume.
func (k *KafkaClient) WithObserver(observer observability.Observer) *KafkaClient {
	k.observer = observer
	return k
}

// WithLogger attaches a logger for lifecycle events, background worker
// failures and kafka-go's own error log.
func (k *KafkaClient) WithLogger(logger Logger) *KafkaClient {
	k.logger = logger
	return k
}

// WithSerializer replaces the serializer selected by Config.DataType.
func (k *KafkaClient) WithSerializer(serializer Serializer) *KafkaClient {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.serializer = serializer
	return k
}

// WithDeserializer replaces the deserializer selected by Config.DataType.
func (k *KafkaClient) WithDeserializer(deserializer Deserializer) *KafkaClient {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.deserializer = deserializer
	return k
}

func (k *KafkaClient) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if k.logger != nil {
		k.logger.InfoWithContext(ctx, msg, nil, fields)
	}
}

func (k *KafkaClient) logWarn(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if k.logger != nil {
		k.logger.WarnWithContext(ctx, msg, err, fields)
	}
}

func (k *KafkaClient) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if k.logger != nil {
		k.logger.ErrorWithContext(ctx, msg, err, fields)
	}
}

// errorLogger forwards kafka-go's internal error log to the client logger.
// The logger is looked up on every call so WithLogger after NewClient works.
func (k *KafkaClient) errorLogger() kafka.LoggerFunc {
	return func(msg string, args ...interface{}) {
		k.logError(context.Background(), "Kafka internal error", nil, map[string]interface{}{
			"error": fmt.Sprintf(msg, args...),
		})
	}
}

func compressionCodec(name string) (kafka.Compression, error) {
	switch name {
	case "":
		return 0, nil
	case "gzip":
		return compress.Gzip, nil
	case "snappy":
		return compress.Snappy, nil
	case "lz4":
		return compress.Lz4, nil
	case "zstd":
		return compress.Zstd, nil
	default:
		return 0, fmt.Errorf("unsupported compression codec %q", name)
	}
}

func createWriter(cfg Config, client *KafkaClient) (*kafka.Writer, error) {
	codec, err := compressionCodec(cfg.CompressionCodec)
	if err != nil {
		return nil, err
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		MaxAttempts:            cfg.MaxAttempts,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            codec,
		AllowAutoTopicCreation: cfg.AllowAutoTopicCreation,
		ErrorLogger:            client.errorLogger(),
	}
	if cfg.Async {
		w.Async = true
		w.BatchSize = cfg.BatchSize
		w.BatchTimeout = cfg.BatchTimeout
		w.Completion = func(messages []kafka.Message, err error) {
			if err != nil {
				client.logError(context.Background(), "Async Kafka write failed", err, map[string]interface{}{
					"topic":    cfg.Topic,
					"messages": len(messages),
				})
			}
		}
	}
	return w, nil
}

func createReader(cfg Config, client *KafkaClient) *kafka.Reader {
	readerConfig := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: cfg.StartOffset,
		ErrorLogger: client.errorLogger(),
	}
	if cfg.EnableAutoCommit {
		readerConfig.CommitInterval = cfg.CommitInterval
	}
	if cfg.GroupID == "" && cfg.Partition != -1 {
		readerConfig.Partition = cfg.Partition
	}
	return kafka.NewReader(readerConfig)
}
