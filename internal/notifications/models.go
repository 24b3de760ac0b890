package notifications

import (
	"encoding/json"
	"time"
)

// OrderConfirmation is the message queued after a sale finalizes. It
// carries everything the email template needs, so the consumer never reads
// the order store.
type OrderConfirmation struct {
	OrderID        string       `json:"order_id"`
	OrderNumber    string       `json:"order_number"`
	EventID        string       `json:"event_id"`
	CustomerName   string       `json:"customer_name"`
	RecipientEmail string       `json:"recipient_email"`
	Tickets        []TicketInfo `json:"tickets"`
	Total          float64      `json:"total"`
	Currency       string       `json:"currency"`
	CreatedAt      time.Time    `json:"created_at"`
}

type TicketInfo struct {
	SeatID     string  `json:"seat_id"`
	TicketCode string  `json:"ticket_code"`
	Price      float64 `json:"price"`
}

func (c *OrderConfirmation) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// PartitionKey routes all messages for one recipient to one partition, so
// their emails arrive in order.
func (c *OrderConfirmation) PartitionKey() string {
	return c.RecipientEmail
}
