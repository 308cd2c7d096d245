package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/pusher/pusher-http-go/v5"
)

// PusherConfig holds the application credentials for a Pusher Channels app.
type PusherConfig struct {
	AppID   string
	Key     string
	Secret  string
	Cluster string
	Secure  bool
}

// triggerer is the part of *pusher.Client the publisher uses.
type triggerer interface {
	Trigger(channel string, eventName string, data interface{}) error
}

// PusherPublisher triggers one Pusher event per published message.
type PusherPublisher struct {
	client triggerer
}

func NewPusherPublisher(cfg PusherConfig) (*PusherPublisher, error) {
	if cfg.AppID == "" || cfg.Key == "" || cfg.Secret == "" {
		return nil, errors.New("pusher app id, key and secret are required")
	}
	return &PusherPublisher{client: &pusher.Client{
		AppID:   cfg.AppID,
		Key:     cfg.Key,
		Secret:  cfg.Secret,
		Cluster: cfg.Cluster,
		Secure:  cfg.Secure,
	}}, nil
}

// Publish ignores ctx; the Pusher client has no context support.
func (p *PusherPublisher) Publish(_ context.Context, chatID, senderID string, payload interface{}) error {
	if err := p.client.Trigger(chatID, senderID, payload); err != nil {
		return fmt.Errorf("pusher trigger on %s: %w", chatID, err)
	}
	return nil
}
