package seats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Seat state
	CreateSeatStates(ctx context.Context, states []SeatState) error
	ListSeatStates(ctx context.Context, eventID uuid.UUID) ([]SeatState, error)
	GetSeatStates(ctx context.Context, eventID uuid.UUID, seatIDs []string) ([]SeatState, error)

	// Conditional transitions. Each returns the number of rows that actually
	// moved; a count below the request size means contention.
	HoldAvailableSeats(ctx context.Context, eventID uuid.UUID, seatIDs []string, holdID string) (int64, error)
	ReleaseHeldSeats(ctx context.Context, eventID uuid.UUID, seatIDs []string, holdID string) (int64, error)
	MarkSeatsSold(ctx context.Context, eventID uuid.UUID, seatIDs []string, holdID string, orderID uuid.UUID) error
	ListSeatsByOrder(ctx context.Context, eventID uuid.UUID, orderID uuid.UUID) ([]SeatState, error)

	// Hold records
	CreateHold(ctx context.Context, hold *SeatHold) error
	GetHold(ctx context.Context, holdID string) (*SeatHold, error)
	GetHoldBySession(ctx context.Context, eventID uuid.UUID, sessionID string) (*SeatHold, error)
	UpdateHold(ctx context.Context, holdID string, seatIDs []string, expiresAt time.Time) error
	DeleteHold(ctx context.Context, holdID string) error
	ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]SeatHold, error)
	ListHoldsExpiringBefore(ctx context.Context, now, deadline time.Time) ([]SeatHold, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// SEAT STATE

func (r *repository) CreateSeatStates(ctx context.Context, states []SeatState) error {
	if len(states) == 0 {
		return nil
	}
	// Re-publishing must not wipe seats that already progressed.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "seat_id"}},
			DoNothing: true,
		}).
		CreateInBatches(&states, 500).Error
}

func (r *repository) ListSeatStates(ctx context.Context, eventID uuid.UUID) ([]SeatState, error) {
	var states []SeatState
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("seat_id ASC").
		Find(&states).Error
	return states, err
}

func (r *repository) GetSeatStates(ctx context.Context, eventID uuid.UUID, seatIDs []string) ([]SeatState, error) {
	var states []SeatState
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND seat_id IN ?", eventID, seatIDs).
		Find(&states).Error
	return states, err
}

// CONDITIONAL TRANSITIONS

// HoldAvailableSeats moves AVAILABLE seats to HELD under the given hold.
// The status predicate makes the update a compare-and-swap: a seat another
// session grabbed in the meantime simply does not match, and the caller
// sees it in the row count.
func (r *repository) HoldAvailableSeats(ctx context.Context, eventID uuid.UUID, seatIDs []string, holdID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&SeatState{}).
		Where("event_id = ? AND seat_id IN ? AND status = ?", eventID, seatIDs, SeatAvailable).
		Updates(map[string]interface{}{
			"status":   SeatHeld,
			"hold_ref": holdID,
			"version":  gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// ReleaseHeldSeats moves HELD seats back to AVAILABLE, but only the ones
// still owned by the given hold. Seats that already moved on (sold, or
// reclaimed and re-held by someone else) are left alone.
func (r *repository) ReleaseHeldSeats(ctx context.Context, eventID uuid.UUID, seatIDs []string, holdID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&SeatState{}).
		Where("event_id = ? AND seat_id IN ? AND status = ? AND hold_ref = ?", eventID, seatIDs, SeatHeld, holdID).
		Updates(map[string]interface{}{
			"status":   SeatAvailable,
			"hold_ref": nil,
			"version":  gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// MarkSeatsSold finalizes every seat of a hold inside one transaction. If
// any seat is no longer HELD under the hold the whole transaction rolls
// back, so an order can never end up with a partial seat set.
func (r *repository) MarkSeatsSold(ctx context.Context, eventID uuid.UUID, seatIDs []string, holdID string, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&SeatState{}).
			Where("event_id = ? AND seat_id IN ? AND status = ? AND hold_ref = ?", eventID, seatIDs, SeatHeld, holdID).
			Updates(map[string]interface{}{
				"status":    SeatSold,
				"hold_ref":  nil,
				"order_ref": orderID,
				"version":   gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(seatIDs)) {
			return gorm.ErrInvalidTransaction
		}
		return nil
	})
}

func (r *repository) ListSeatsByOrder(ctx context.Context, eventID uuid.UUID, orderID uuid.UUID) ([]SeatState, error) {
	var states []SeatState
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND order_ref = ?", eventID, orderID).
		Order("seat_id ASC").
		Find(&states).Error
	return states, err
}

// HOLD RECORDS

func (r *repository) CreateHold(ctx context.Context, hold *SeatHold) error {
	return r.db.WithContext(ctx).Create(hold).Error
}

func (r *repository) GetHold(ctx context.Context, holdID string) (*SeatHold, error) {
	var hold SeatHold
	err := r.db.WithContext(ctx).Where("hold_id = ?", holdID).First(&hold).Error
	if err != nil {
		return nil, err
	}
	return &hold, nil
}

func (r *repository) GetHoldBySession(ctx context.Context, eventID uuid.UUID, sessionID string) (*SeatHold, error) {
	var hold SeatHold
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND session_id = ?", eventID, sessionID).
		First(&hold).Error
	if err != nil {
		return nil, err
	}
	return &hold, nil
}

func (r *repository) UpdateHold(ctx context.Context, holdID string, seatIDs []string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&SeatHold{}).
		Where("hold_id = ?", holdID).
		Updates(map[string]interface{}{
			"seat_ids":   seatIDs,
			"expires_at": expiresAt,
		}).Error
}

func (r *repository) DeleteHold(ctx context.Context, holdID string) error {
	return r.db.WithContext(ctx).Delete(&SeatHold{}, "hold_id = ?", holdID).Error
}

func (r *repository) ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]SeatHold, error) {
	var holds []SeatHold
	err := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&holds).Error
	return holds, err
}

func (r *repository) ListHoldsExpiringBefore(ctx context.Context, now, deadline time.Time) ([]SeatHold, error) {
	var holds []SeatHold
	err := r.db.WithContext(ctx).
		Where("expires_at > ? AND expires_at <= ?", now, deadline).
		Find(&holds).Error
	return holds, err
}
