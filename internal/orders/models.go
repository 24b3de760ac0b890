package orders

import (
	"time"

	"github.com/google/uuid"
)

// Order is the durable record of a checkout. The seat set is snapshotted at
// creation so the order stays readable after the hold is gone.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderNumber string    `gorm:"unique;not null;size:32" json:"order_number"`
	EventID     uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	HoldID      string    `gorm:"size:64;index;not null" json:"-"`
	SessionID   string    `gorm:"size:64;index;not null" json:"session_id"`
	UserID      *string   `gorm:"size:64;index" json:"user_id,omitempty"`

	CustomerName  string `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:255;not null" json:"customer_email"`

	SeatIDs []string `gorm:"serializer:json;type:jsonb;not null" json:"seat_ids"`

	Subtotal float64 `gorm:"not null" json:"subtotal"`
	Fees     float64 `gorm:"not null" json:"fees"`
	Tax      float64 `gorm:"not null" json:"tax"`
	Total    float64 `gorm:"not null" json:"total"`
	Currency string  `gorm:"type:varchar(3);default:'USD'" json:"currency"`

	PaymentStatus   PaymentStatus `gorm:"type:varchar(20);check:payment_status IN ('PENDING', 'SUCCEEDED', 'FAILED', 'REFUNDED');default:'PENDING'" json:"payment_status"`
	PaymentIntentID *string       `gorm:"size:128;index" json:"payment_intent_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Tickets []Ticket `json:"tickets,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;"`
}

// Ticket is issued per seat once the order succeeds.
type Ticket struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	EventID    uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	SeatID     string    `gorm:"size:64;not null" json:"seat_id"`
	TicketCode string    `gorm:"unique;not null;size:64" json:"ticket_code"`
	Price      float64   `gorm:"not null" json:"price"`
	IssuedAt   time.Time `gorm:"autoCreateTime" json:"issued_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (Ticket) TableName() string {
	return "tickets"
}
