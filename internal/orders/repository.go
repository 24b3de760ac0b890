package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByPaymentIntentID(ctx context.Context, intentID string) (*Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	// MarkSucceeded flips a PENDING order to SUCCEEDED and reports whether
	// this call was the one that did it, so concurrent webhook deliveries
	// finalize exactly once.
	MarkSucceeded(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error)
	CreateTickets(ctx context.Context, tickets []Ticket) error
	ListBySession(ctx context.Context, sessionID string) ([]Order, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).Preload("Tickets").Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) GetByPaymentIntentID(ctx context.Context, intentID string) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).Where("payment_intent_id = ?", intentID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) MarkSucceeded(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND payment_status = ?", id, PaymentPending).
		Updates(map[string]interface{}{
			"payment_status": PaymentSucceeded,
			"completed_at":   completedAt,
		})
	return result.RowsAffected == 1, result.Error
}

func (r *repository) CreateTickets(ctx context.Context, tickets []Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tickets).Error
}

func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
