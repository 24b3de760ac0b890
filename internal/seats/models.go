package seats

import (
	"time"

	"github.com/google/uuid"
)

// SeatStatus is the lifecycle state of one seat within one event.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatHeld      SeatStatus = "HELD"
	SeatSold      SeatStatus = "SOLD"
)

// SeatState is the authoritative record for a single seat of a single
// event. All transitions go through conditional updates on Status, so two
// racing writers can never both win the same seat.
type SeatState struct {
	ID      uuid.UUID  `json:"-" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_seat,priority:1"`
	SeatID  string     `json:"seat_id" gorm:"size:64;not null;uniqueIndex:idx_event_seat,priority:2"`
	Status  SeatStatus `json:"status" gorm:"type:varchar(16);not null;default:'AVAILABLE';index"`

	// HoldRef points at the owning hold while HELD; OrderRef at the owning
	// order once SOLD. At most one of them is set.
	HoldRef  *string    `json:"hold_ref,omitempty" gorm:"size:64;index"`
	OrderRef *uuid.UUID `json:"order_ref,omitempty" gorm:"type:uuid;index"`

	Version     int64     `json:"version" gorm:"not null;default:0"`
	LastUpdated time.Time `json:"last_updated" gorm:"autoUpdateTime"`
}

func (SeatState) TableName() string {
	return "event_seat_states"
}

// SeatHold groups the seats one session is holding for one event. A session
// has at most one live hold per event; holding more seats extends the
// existing hold and refreshes its deadline.
type SeatHold struct {
	HoldID    string    `json:"hold_id" gorm:"size:64;primaryKey"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_session,priority:1"`
	SessionID string    `json:"session_id" gorm:"size:64;not null;uniqueIndex:idx_event_session,priority:2"`
	UserID    *string   `json:"user_id,omitempty" gorm:"size:64"`
	SeatIDs   []string  `json:"seat_ids" gorm:"serializer:json;type:jsonb;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (SeatHold) TableName() string {
	return "seat_holds"
}

// Expired reports whether the hold deadline has passed at the given instant.
func (h *SeatHold) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}
