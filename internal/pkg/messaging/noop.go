package messaging

import "context"

// Noop accepts and drops every message.
type Noop struct {
	closeState
}

// NewNoop returns a Publisher that discards messages.
func NewNoop() *Noop {
	return &Noop{}
}

// Publish validates the call and drops msg.
func (n *Noop) Publish(ctx context.Context, destination string, _ Message) error {
	return checkPublish(ctx, &n.closeState, destination)
}

// Close marks the publisher closed.
func (n *Noop) Close() error {
	n.markClosed()
	return nil
}
