package events

import (
	"time"

	"github.com/google/uuid"
)

// PricingZone maps a venue section to its ticket price. Zones are keyed by
// section code in the event's pricing map; a seat's section is derived from
// its seat id.
type PricingZone struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Venue       string    `json:"venue" gorm:"not null;size:255"`
	DateTime    time.Time `json:"date_time" gorm:"not null"`
	Status      Status    `json:"status" gorm:"type:varchar(20);default:'DRAFT'"`

	// PricingZones and SeatIndex are fixed at publish time. The seat index
	// is the authoritative list of sellable seat ids for this event.
	PricingZones map[string]PricingZone `json:"pricing_zones" gorm:"serializer:json;type:jsonb"`
	SeatIndex    []string               `json:"-" gorm:"serializer:json;type:jsonb"`

	TotalCapacity int `json:"total_capacity" gorm:"not null;check:total_capacity >= 0"`
	SoldCount     int `json:"sold_count" gorm:"default:0;check:sold_count >= 0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

type EventResponse struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Venue         string                 `json:"venue"`
	DateTime      time.Time              `json:"date_time"`
	Status        Status                 `json:"status"`
	PricingZones  map[string]PricingZone `json:"pricing_zones"`
	TotalCapacity int                    `json:"total_capacity"`
	SoldCount     int                    `json:"sold_count"`
	Remaining     int                    `json:"remaining"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

type CreateEventRequest struct {
	Name         string                 `json:"name" binding:"required,min=3,max=255"`
	Description  string                 `json:"description" binding:"max=2000"`
	Venue        string                 `json:"venue" binding:"required,min=3,max=255"`
	DateTime     time.Time              `json:"date_time" binding:"required"`
	PricingZones map[string]PricingZone `json:"pricing_zones" binding:"required,min=1"`
	SeatIDs      []string               `json:"seat_ids" binding:"required,min=1,max=100000,dive,seatid"`
}

type EventListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ENDED"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

func (e *Event) ToResponse() EventResponse {
	remaining := e.TotalCapacity - e.SoldCount
	if remaining < 0 {
		remaining = 0
	}

	return EventResponse{
		ID:            e.ID.String(),
		Name:          e.Name,
		Description:   e.Description,
		Venue:         e.Venue,
		DateTime:      e.DateTime,
		Status:        e.Status,
		PricingZones:  e.PricingZones,
		TotalCapacity: e.TotalCapacity,
		SoldCount:     e.SoldCount,
		Remaining:     remaining,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
