package kafka

import (
	"errors"
	"fmt"
	"net"

	"github.com/segmentio/kafka-go"

	"github.com/aalemi-dev/tracewire/tracectx"
)

var (
	// ErrNoBrokers is returned by NewClient when Config.Brokers is empty.
	ErrNoBrokers = errors.New("no kafka brokers configured")

	// ErrNoTopic is returned by NewClient when Config.Topic is empty.
	ErrNoTopic = errors.New("no kafka topic configured")

	// ErrWriterNotInitialized is returned when publishing on a consumer.
	ErrWriterNotInitialized = errors.New("writer not initialized")

	// ErrReaderNotInitialized is returned when consuming on a publisher.
	ErrReaderNotInitialized = errors.New("reader not initialized")
)

// PublishError is a failed publish, annotated with the trace context the
// message carried.
type PublishError struct {
	Topic string
	Key   string
	Trace tracectx.TraceContext
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("kafka publish to %s: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// IsRetryableError reports whether err is a transient broker or network
// failure worth retrying.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var kerr kafka.Error
	if errors.As(err, &kerr) {
		return kerr.Temporary()
	}

	var werr kafka.WriteErrors
	if errors.As(err, &werr) {
		for _, e := range werr {
			if e != nil && !IsRetryableError(e) {
				return false
			}
		}
		return werr.Count() > 0
	}

	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// IsAuthenticationError reports whether err is a SASL or ACL rejection.
func IsAuthenticationError(err error) bool {
	var kerr kafka.Error
	if !errors.As(err, &kerr) {
		return false
	}
	switch kerr {
	case kafka.SASLAuthenticationFailed,
		kafka.TopicAuthorizationFailed,
		kafka.GroupAuthorizationFailed,
		kafka.ClusterAuthorizationFailed:
		return true
	}
	return false
}
