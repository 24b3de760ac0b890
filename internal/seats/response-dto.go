package seats

import "time"

// HoldResponse describes the session's live hold after a grant or extension.
type HoldResponse struct {
	HoldID    string    `json:"hold_id"`
	EventID   string    `json:"event_id"`
	SeatIDs   []string  `json:"seat_ids"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SeatStatusEntry is one seat in the event status snapshot.
type SeatStatusEntry struct {
	SeatID string     `json:"seat_id"`
	Status SeatStatus `json:"status"`
	// Mine is set when the seat is held by the requesting session.
	Mine bool `json:"mine,omitempty"`
}

// EventSeatStatusResponse is the full seat map of an event, the snapshot
// clients reconcile against after missing realtime pushes.
type EventSeatStatusResponse struct {
	EventID     string            `json:"event_id"`
	Seats       []SeatStatusEntry `json:"seats"`
	Available   int               `json:"available"`
	Held        int               `json:"held"`
	Sold        int               `json:"sold"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// PlanSeat is one seat in the rendered plan: grid coordinates parsed from
// the seat id plus the seat's current status.
type PlanSeat struct {
	SeatID string     `json:"seat_id"`
	Row    int        `json:"row"`
	Seat   int        `json:"seat"`
	Status SeatStatus `json:"status"`
}

// SeatPlanResponse is the seat layout of an event, grouped by section, with
// an inline SVG rendering of the grid.
type SeatPlanResponse struct {
	EventID  string                `json:"event_id"`
	Sections map[string][]PlanSeat `json:"sections"`
	Total    int                   `json:"total"`
	SVG      string                `json:"svg"`
}

// ReleaseResponse reports how many seats an explicit release freed.
type ReleaseResponse struct {
	HoldID        string   `json:"hold_id"`
	ReleasedSeats []string `json:"released_seats"`
}
