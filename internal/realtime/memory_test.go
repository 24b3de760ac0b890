package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBroadcaster_KeepsPublishOrder(t *testing.T) {
	b := NewMemoryBroadcaster()
	ctx := context.Background()

	require.NoError(t, b.Publish(ctx, "event-1", NewMessage("event-1", TypeSeatAvailability, nil)))
	require.NoError(t, b.Publish(ctx, "event-1", NewMessage("event-1", TypeHoldExpiringSoon, nil)))
	require.NoError(t, b.Publish(ctx, "event-1", NewMessage("event-1", TypeHoldExpired, nil)))

	msgs := b.Messages("event-1")
	require.Len(t, msgs, 3)
	assert.Equal(t, TypeSeatAvailability, msgs[0].Type)
	assert.Equal(t, TypeHoldExpiringSoon, msgs[1].Type)
	assert.Equal(t, TypeHoldExpired, msgs[2].Type)
}

func TestMemoryBroadcaster_RoomsAreIsolated(t *testing.T) {
	b := NewMemoryBroadcaster()
	ctx := context.Background()

	require.NoError(t, b.Publish(ctx, "event-1", NewMessage("event-1", TypeSeatAvailability, nil)))
	require.NoError(t, b.Publish(ctx, "event-2", NewMessage("event-2", TypeHoldExpired, nil)))

	assert.Len(t, b.Messages("event-1"), 1)
	assert.Len(t, b.Messages("event-2"), 1)
	assert.Empty(t, b.Messages("event-3"))
}

func TestMemoryBroadcaster_DeliversToSubscribers(t *testing.T) {
	b := NewMemoryBroadcaster()
	ctx := context.Background()

	ch := b.Subscribe("event-1")

	data := SeatAvailabilityData{SeatIDs: []string{"A-R1-S1"}, Status: "HELD"}
	require.NoError(t, b.Publish(ctx, "event-1", NewMessage("event-1", TypeSeatAvailability, data)))

	msg := <-ch
	assert.Equal(t, TypeSeatAvailability, msg.Type)
	assert.Equal(t, "event-1", msg.EventID)
	assert.Equal(t, data, msg.Data)
}

func TestMemoryBroadcaster_SubscriberOnlySeesOwnRoom(t *testing.T) {
	b := NewMemoryBroadcaster()
	ctx := context.Background()

	ch := b.Subscribe("event-1")
	require.NoError(t, b.Publish(ctx, "event-2", NewMessage("event-2", TypeSeatAvailability, nil)))

	select {
	case msg := <-ch:
		t.Fatalf("unexpected message for another room: %v", msg)
	default:
	}
}
