package seats

// HoldSeatsRequest asks the arbiter to hold seats for the caller's session.
type HoldSeatsRequest struct {
	EventID string   `json:"event_id" binding:"required,uuid"`
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,seatid"`
}

// ReleaseHoldRequest gives back a hold before it expires.
type ReleaseHoldRequest struct {
	EventID string `json:"event_id" binding:"required,uuid"`
	HoldID  string `json:"hold_id" binding:"required"`
}
