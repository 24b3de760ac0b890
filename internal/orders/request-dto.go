package orders

// CheckoutRequest opens a payment intent over the requested seats. Each seat
// must be AVAILABLE or already held by the calling session; the session's
// hold is created or extended to cover them before the order is cut.
type CheckoutRequest struct {
	EventID       string   `json:"event_id" binding:"required,uuid"`
	SeatIDs       []string `json:"seat_ids" binding:"required,min=1,dive,seatid"`
	CustomerName  string   `json:"customer_name" binding:"required,min=2,max=255"`
	CustomerEmail string   `json:"customer_email" binding:"required,email"`
}
