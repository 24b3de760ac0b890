package realtime

import (
	"context"
	"time"
)

// Message types pushed to event rooms.
const (
	TypeSeatAvailability = "seat_availability_update"
	TypeHoldExpired      = "hold_expired"
	TypeHoldExpiringSoon = "hold_expiring_soon"
	TypeViewersUpdate    = "viewers_update"
	TypeJoinedEvent      = "joined_event"
)

// Message is the envelope delivered to every subscriber of an event room.
// Delivery is best-effort; clients reconcile against the seat status
// endpoint, so a dropped message never corrupts state.
type Message struct {
	Type      string      `json:"type"`
	EventID   string      `json:"event_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// SeatAvailabilityData announces seat status transitions within an event.
type SeatAvailabilityData struct {
	SeatIDs []string `json:"seat_ids"`
	Status  string   `json:"status"`
}

// HoldExpiredData tells the session that owned a hold that it has lapsed.
type HoldExpiredData struct {
	HoldID    string   `json:"hold_id"`
	SessionID string   `json:"session_id"`
	SeatIDs   []string `json:"seat_ids"`
}

// HoldExpiringSoonData is the advance warning before a hold lapses.
type HoldExpiringSoonData struct {
	HoldID    string    `json:"hold_id"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ViewersUpdateData carries the current viewer count of an event room.
type ViewersUpdateData struct {
	Viewers int64 `json:"viewers"`
}

// Broadcaster fans messages out to everyone watching an event. The seat and
// order services only depend on this interface; the concrete sink behind it
// (Redis pub/sub in production, in-memory in tests) is wired at startup.
type Broadcaster interface {
	Publish(ctx context.Context, eventID string, msg Message) error
}

// NewMessage stamps a message envelope for the given event room.
func NewMessage(eventID, msgType string, data interface{}) Message {
	return Message{
		Type:      msgType,
		EventID:   eventID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
