// Package delivery pushes persisted messages to chat subscribers. Delivery is
// best effort: callers log publish errors and never undo the write that
// preceded them.
package delivery

import (
	"context"
	"errors"
	"fmt"
)

// Publisher sends payload on the channel named by chatID, using senderID as
// the event name.
type Publisher interface {
	Publish(ctx context.Context, chatID, senderID string, payload interface{}) error
}

// Event is the frame pushed to websocket subscribers.
type Event struct {
	Event   string      `json:"event"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}

// Multi fans a publish out to every wrapped publisher. All of them are tried;
// failures are joined.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, chatID, senderID string, payload interface{}) error {
	var errs []error
	for i, p := range m {
		if err := p.Publish(ctx, chatID, senderID, payload); err != nil {
			errs = append(errs, fmt.Errorf("publisher %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Nop discards every publish.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, interface{}) error { return nil }
