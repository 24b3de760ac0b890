package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"ticketly/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster publishes room messages on Redis pub/sub channels, one
// channel per event. Gateway processes subscribe to the channels and forward
// messages to their connected clients.
type RedisBroadcaster struct {
	client *redis.Client
}

func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, eventID string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal realtime message: %w", err)
	}

	channel := constants.BuildEventChannel(eventID)
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

// Subscribe returns a channel of decoded messages for one event room. The
// subscription is closed when ctx is cancelled.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, eventID string) (<-chan Message, error) {
	sub := b.client.Subscribe(ctx, constants.BuildEventChannel(eventID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to event channel: %w", err)
	}

	out := make(chan Message, 64)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-ch:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					continue
				}
				select {
				case out <- msg:
				default:
					// slow consumer, drop rather than block the pump
				}
			}
		}
	}()
	return out, nil
}
