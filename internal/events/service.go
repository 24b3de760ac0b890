package events

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ticketly/internal/shared/constants"
	"ticketly/internal/shared/errs"
	"ticketly/internal/shared/utils/seatid"
	"ticketly/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	SetSeatPlanner(planner SeatPlanner)
	SetCacheService(cacheService cache.Service)

	CreateEvent(req CreateEventRequest) (*EventResponse, error)
	PublishEvent(id uuid.UUID) (*EventResponse, error)
	GetEventByID(id uuid.UUID) (*EventResponse, error)
	GetAllEvents(query EventListQuery) (*PaginatedEvents, error)

	// IsBookable reports whether seats of the event can be held or sold.
	IsBookable(eventID uuid.UUID) (bool, error)
	// SeatPrice resolves the pricing zone covering a seat.
	SeatPrice(eventID uuid.UUID, seatID string) (*PricingZone, error)
	// RecordSale bumps the sold counter after an order finalizes.
	RecordSale(eventID uuid.UUID, seatCount int) error
}

// SeatPlanner creates the per-seat state rows when an event is published.
// Implemented by the seats package; declared here to avoid a circular import.
type SeatPlanner interface {
	CreateSeatStates(ctx context.Context, eventID string, seatIDs []string) error
}

type service struct {
	repo         Repository
	seatPlanner  SeatPlanner
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetSeatPlanner(planner SeatPlanner) {
	s.seatPlanner = planner
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.cacheService == nil {
		return nil
	}
	return s.cacheService.Set(ctx, key, value, ttl)
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return cache.ErrCacheMiss
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) invalidateEventCache(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	s.cacheService.Delete(ctx, constants.BuildEventDetailKey(eventID.String()))
}

func (s *service) CreateEvent(req CreateEventRequest) (*EventResponse, error) {
	if req.DateTime.Before(time.Now()) {
		return nil, errs.New(errs.KindInvalidInput, "event date must be in the future")
	}

	// Every seat must be unique and covered by a pricing zone.
	seen := make(map[string]bool, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		if seen[id] {
			return nil, errs.Newf(errs.KindInvalidInput, "duplicate seat id: %s", id)
		}
		seen[id] = true

		section := seatid.Section(id)
		if _, ok := req.PricingZones[section]; !ok {
			return nil, errs.Newf(errs.KindInvalidInput, "no pricing zone for section %s (seat %s)", section, id)
		}
	}

	event := &Event{
		Name:          req.Name,
		Description:   req.Description,
		Venue:         req.Venue,
		DateTime:      req.DateTime,
		Status:        StatusDraft,
		PricingZones:  req.PricingZones,
		SeatIndex:     req.SeatIDs,
		TotalCapacity: len(req.SeatIDs),
	}

	if err := s.repo.Create(event); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to create event", err)
	}

	response := event.ToResponse()
	return &response, nil
}

// PublishEvent opens the event for booking. The seat plan is materialized
// into one state row per seat; publishing is what makes seats holdable.
func (s *service) PublishEvent(id uuid.UUID) (*EventResponse, error) {
	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "event not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to get event", err)
	}

	if !event.Status.CanBePublished() {
		return nil, errs.Newf(errs.KindInvalidState, "cannot publish event with status %s", event.Status)
	}

	if s.seatPlanner == nil {
		return nil, errs.New(errs.KindInternal, "seat planner not configured")
	}
	if err := s.seatPlanner.CreateSeatStates(context.Background(), id.String(), event.SeatIndex); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to materialize seat plan", err)
	}

	updated, err := s.repo.Update(id, map[string]interface{}{
		"status":     StatusPublished,
		"updated_at": time.Now(),
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to publish event", err)
	}

	s.invalidateEventCache(context.Background(), id)

	response := updated.ToResponse()
	return &response, nil
}

func (s *service) GetEventByID(id uuid.UUID) (*EventResponse, error) {
	ctx := context.Background()
	cacheKey := constants.BuildEventDetailKey(id.String())

	var cached EventResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "event not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to get event", err)
	}

	response := event.ToResponse()
	s.setCache(ctx, cacheKey, response, constants.TTL_SEMI_STATIC)
	return &response, nil
}

func (s *service) GetAllEvents(query EventListQuery) (*PaginatedEvents, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	events, totalCount, err := s.repo.GetAll(query)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to list events", err)
	}

	responses := make([]EventResponse, len(events))
	for i, event := range events {
		responses[i] = event.ToResponse()
	}

	return &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}, nil
}

func (s *service) IsBookable(eventID uuid.UUID) (bool, error) {
	event, err := s.repo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.New(errs.KindNotFound, "event not found")
		}
		return false, errs.Wrap(errs.KindInternal, "failed to get event", err)
	}
	return event.Status.CanBeBooked(), nil
}

func (s *service) SeatPrice(eventID uuid.UUID, seatID string) (*PricingZone, error) {
	event, err := s.repo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "event not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to get event", err)
	}

	section := seatid.Section(seatID)
	zone, ok := event.PricingZones[section]
	if !ok {
		return nil, errs.Newf(errs.KindInvalidInput, "no pricing zone for seat %s", seatID)
	}
	return &zone, nil
}

func (s *service) RecordSale(eventID uuid.UUID, seatCount int) error {
	if seatCount <= 0 {
		return fmt.Errorf("seat count must be positive")
	}
	if err := s.repo.IncrementSoldCount(eventID, seatCount); err != nil {
		return errs.Wrap(errs.KindInternal, "failed to update sold count", err)
	}
	s.invalidateEventCache(context.Background(), eventID)
	return nil
}
