package live

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"swcommons/internal/logging"
	"swcommons/pkg/models"
)

// RedisBridge relays change events between instances sharing a Redis channel
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  logging.Logger
}

// NewRedisBridge attaches a bridge to hub as its forwarder
func NewRedisBridge(client *redis.Client, channel string, hub *Hub, logger logging.Logger) *RedisBridge {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	b := &RedisBridge{client: client, channel: channel, hub: hub, logger: logger}
	hub.SetForwarder(b)
	return b
}

// Forward publishes a locally originated event on the shared channel
func (b *RedisBridge) Forward(ctx context.Context, event models.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// Run consumes the shared channel until ctx is done
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}
	b.logger.Info("Redis change bridge subscribed", map[string]interface{}{
		"channel": b.channel,
		"origin":  b.hub.Origin(),
	})

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.handle(msg.Payload)
		}
	}
}

// handle delivers a remote event to local subscribers, skipping our own
func (b *RedisBridge) handle(payload string) {
	var event models.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		b.logger.Warn("Discarding malformed change event", map[string]interface{}{
			"channel": b.channel,
			"error":   err.Error(),
		})
		return
	}
	if event.Origin == b.hub.Origin() {
		return
	}
	b.hub.deliver(event)
}
