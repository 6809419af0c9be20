package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when the NATS server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// NATSConfig configures the NATS publisher.
type NATSConfig struct {
	// URL is the NATS server address.
	URL string
	// Options are passed to nats.Connect.
	Options []nats.Option
}

// NATS publishes core NATS messages.
type NATS struct {
	closeState

	conn *nats.Conn
}

// NewNATS connects to the NATS server.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Publish sends msg on subject destination and flushes so the server has it on return.
func (n *NATS) Publish(ctx context.Context, destination string, msg Message) error {
	if err := checkPublish(ctx, &n.closeState, destination); err != nil {
		return err
	}

	nmsg := nats.NewMsg(destination)
	nmsg.Data = msg.Body
	for key, val := range msg.Headers {
		nmsg.Header.Set(key, val)
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}
	return nil
}

// Ping reports whether the connection is usable.
func (n *NATS) Ping(ctx context.Context) error {
	return n.conn.FlushWithContext(ctx)
}

// Close drains pending publishes and closes the connection.
func (n *NATS) Close() error {
	if !n.markClosed() {
		return nil
	}
	return n.conn.Drain()
}
