package messaging

import (
	"context"
	"errors"
	"io"
	"sync"
)

var (
	// ErrDestinationRequired is returned when Publish is called without a topic/subject.
	ErrDestinationRequired = errors.New("messaging: destination is required")
	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("messaging: publisher is closed")
)

// Publisher sends messages to a named destination (topic or subject).
type Publisher interface {
	io.Closer

	Publish(ctx context.Context, destination string, msg Message) error
}

// Message is a broker-agnostic outgoing message.
type Message struct {
	// Key is used for partitioning by Kafka and ignored elsewhere.
	Key []byte
	// Body is the payload, JSON for every event this service emits.
	Body []byte
	// Headers travel as Kafka headers, NATS headers or Pub/Sub attributes.
	// NSQ has no headers and drops them.
	Headers map[string]string
}

// closeState is embedded by publishers that refuse work after Close.
type closeState struct {
	mu     sync.RWMutex
	closed bool
}

// markClosed reports whether this call performed the transition.
func (c *closeState) markClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	return true
}

func (c *closeState) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func checkPublish(ctx context.Context, c *closeState, destination string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}
	if c.isClosed() {
		return ErrClosed
	}
	return nil
}
