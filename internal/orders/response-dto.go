package orders

import "time"

type OrderResponse struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"order_number"`
	EventID       string        `json:"event_id"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	SeatIDs       []string      `json:"seat_ids"`
	Subtotal      float64       `json:"subtotal"`
	Fees          float64       `json:"fees"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Currency      string        `json:"currency"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`

	Tickets []TicketResponse `json:"tickets,omitempty"`
}

type TicketResponse struct {
	TicketCode string    `json:"ticket_code"`
	SeatID     string    `json:"seat_id"`
	Price      float64   `json:"price"`
	IssuedAt   time.Time `json:"issued_at"`
}

// CheckoutResponse is returned from checkout. ClientSecret is what the
// frontend hands to the payment widget; it is empty in mock mode, where the
// order is already finalized by the time this response is built.
type CheckoutResponse struct {
	Order           OrderResponse `json:"order"`
	PaymentIntentID string        `json:"payment_intent_id"`
	ClientSecret    string        `json:"client_secret,omitempty"`
}

func (o *Order) ToResponse() OrderResponse {
	resp := OrderResponse{
		ID:            o.ID.String(),
		OrderNumber:   o.OrderNumber,
		EventID:       o.EventID.String(),
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		SeatIDs:       o.SeatIDs,
		Subtotal:      o.Subtotal,
		Fees:          o.Fees,
		Tax:           o.Tax,
		Total:         o.Total,
		Currency:      o.Currency,
		PaymentStatus: o.PaymentStatus,
		CreatedAt:     o.CreatedAt,
		CompletedAt:   o.CompletedAt,
	}
	for _, t := range o.Tickets {
		resp.Tickets = append(resp.Tickets, TicketResponse{
			TicketCode: t.TicketCode,
			SeatID:     t.SeatID,
			Price:      t.Price,
			IssuedAt:   t.IssuedAt,
		})
	}
	return resp
}
