package seats

import (
	"context"
	"errors"
	"sort"
	"time"

	"ticketly/internal/realtime"
	"ticketly/internal/shared/constants"
	"ticketly/internal/shared/errs"
	"ticketly/internal/shared/utils/seatid"
	"ticketly/pkg/cache"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	SetEventDirectory(directory EventDirectory)
	SetCacheService(cacheService cache.Service)
	SetBroadcaster(broadcaster realtime.Broadcaster)

	// Seat plan materialization, called when an event is published.
	CreateSeatStates(ctx context.Context, eventID string, seatIDs []string) error

	// Hold arbitration
	HoldSeats(ctx context.Context, sessionID string, userID *string, req HoldSeatsRequest) (*HoldResponse, error)
	ReleaseHold(ctx context.Context, sessionID string, req ReleaseHoldRequest) (*ReleaseResponse, error)

	// Read paths
	GetEventSeatStatus(ctx context.Context, eventID uuid.UUID, sessionID string) (*EventSeatStatusResponse, error)
	GetSeatPlan(ctx context.Context, eventID uuid.UUID) (*SeatPlanResponse, error)

	// Checkout support
	ValidateCheckout(ctx context.Context, eventID uuid.UUID, sessionID, holdID string) (*SeatHold, error)
	FinalizeSeats(ctx context.Context, eventID uuid.UUID, holdID string, orderID uuid.UUID) ([]string, error)

	// Expiration sweep
	ReclaimExpiredHolds(ctx context.Context, batchSize int) (holds int, seats int, err error)
	WarnExpiringHolds(ctx context.Context, warnBefore time.Duration) (int, error)
}

// EventDirectory answers event-level questions the arbiter needs without
// importing the events package.
type EventDirectory interface {
	IsBookable(eventID uuid.UUID) (bool, error)
}

type service struct {
	repo        Repository
	directory   EventDirectory
	cache       cache.Service
	broadcaster realtime.Broadcaster
	log         *logger.Logger

	holdTTL    time.Duration
	maxPerHold int
}

func NewService(repo Repository, holdTTL time.Duration, maxPerHold int) Service {
	return &service{
		repo:       repo,
		log:        logger.GetDefault(),
		holdTTL:    holdTTL,
		maxPerHold: maxPerHold,
	}
}

func (s *service) SetEventDirectory(directory EventDirectory) {
	s.directory = directory
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cache = cacheService
}

func (s *service) SetBroadcaster(broadcaster realtime.Broadcaster) {
	s.broadcaster = broadcaster
}

// CreateSeatStates materializes one AVAILABLE row per seat. Safe to call
// twice for the same event; existing rows are untouched.
func (s *service) CreateSeatStates(ctx context.Context, eventID string, seatIDs []string) error {
	eid, err := uuid.Parse(eventID)
	if err != nil {
		return errs.Wrap(errs.KindInvalidInput, "invalid event id", err)
	}

	states := make([]SeatState, 0, len(seatIDs))
	for _, id := range seatIDs {
		if !seatid.Valid(id) {
			return errs.Newf(errs.KindInvalidInput, "invalid seat id: %s", id)
		}
		states = append(states, SeatState{
			EventID: eid,
			SeatID:  id,
			Status:  SeatAvailable,
		})
	}

	if err := s.repo.CreateSeatStates(ctx, states); err != nil {
		return errs.Wrap(errs.KindInternal, "failed to create seat states", err)
	}

	if s.cache != nil {
		s.cache.Delete(ctx, constants.BuildSeatPlanKey(eventID))
		s.cache.Delete(ctx, constants.BuildAvailabilityKey(eventID))
	}
	return nil
}

// HoldSeats grants or extends the caller's hold on the requested seats.
// The grant is all-or-nothing: losing any seat means winning none, and the
// seats won so far are rolled back before the conflict is reported.
func (s *service) HoldSeats(ctx context.Context, sessionID string, userID *string, req HoldSeatsRequest) (*HoldResponse, error) {
	if sessionID == "" {
		return nil, errs.New(errs.KindInvalidInput, "session id is required")
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidInput, "invalid event id", err)
	}

	seatIDs := dedupe(req.SeatIDs)

	if s.directory != nil {
		bookable, err := s.directory.IsBookable(eventID)
		if err != nil {
			return nil, err
		}
		if !bookable {
			return nil, errs.New(errs.KindInvalidState, "event is not open for booking")
		}
	}

	// Requested seats must all exist in this event's plan.
	states, err := s.repo.GetSeatStates(ctx, eventID, seatIDs)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to load seat states", err)
	}
	if len(states) != len(seatIDs) {
		return nil, errs.New(errs.KindNotFound, "one or more seats do not exist for this event")
	}

	existing, err := s.liveHoldForSession(ctx, eventID, sessionID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return s.extendHold(ctx, existing, seatIDs, states)
	}
	return s.grantNewHold(ctx, eventID, sessionID, userID, seatIDs, states)
}

// liveHoldForSession returns the session's hold for the event, reclaiming
// it inline if its deadline already passed. The sweep worker usually gets
// there first; this covers the window between deadline and sweep.
func (s *service) liveHoldForSession(ctx context.Context, eventID uuid.UUID, sessionID string) (*SeatHold, error) {
	hold, err := s.repo.GetHoldBySession(ctx, eventID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load hold", err)
	}

	if hold.Expired(time.Now()) {
		if err := s.reclaimHold(ctx, hold); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return hold, nil
}

func (s *service) grantNewHold(ctx context.Context, eventID uuid.UUID, sessionID string, userID *string, seatIDs []string, states []SeatState) (*HoldResponse, error) {
	if len(seatIDs) > s.maxPerHold {
		return nil, errs.Newf(errs.KindInvalidInput, "cannot hold more than %d seats", s.maxPerHold)
	}

	// Seats parked under lapsed holds are fair game; reclaim before racing.
	if err := s.reclaimStaleOwners(ctx, states); err != nil {
		return nil, err
	}

	holdID := "hold_" + uuid.New().String()

	// The hold record goes in before any seat flips. A concurrent grant that
	// reads a freshly HELD seat then always finds its owning hold and leaves
	// it alone; a HELD seat with no hold row is genuinely orphaned.
	hold := &SeatHold{
		HoldID:    holdID,
		EventID:   eventID,
		SessionID: sessionID,
		UserID:    userID,
		SeatIDs:   seatIDs,
		ExpiresAt: time.Now().Add(s.holdTTL),
	}
	if err := s.repo.CreateHold(ctx, hold); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to record hold", err)
	}

	won, err := s.repo.HoldAvailableSeats(ctx, eventID, seatIDs, holdID)
	if err != nil {
		s.dropHold(ctx, holdID)
		return nil, errs.Wrap(errs.KindInternal, "failed to hold seats", err)
	}
	if won != int64(len(seatIDs)) {
		// Partial win: compensate before reporting the conflict.
		if won > 0 {
			if _, rbErr := s.repo.ReleaseHeldSeats(ctx, eventID, seatIDs, holdID); rbErr != nil {
				s.log.ErrorWithContext(ctx, "hold rollback failed", rbErr, map[string]interface{}{
					"hold_id": holdID, "event_id": eventID.String(),
				})
			}
		}
		s.dropHold(ctx, holdID)
		s.log.LogSeatConflict(ctx, eventID.String(), seatIDs, "hold")
		return nil, errs.New(errs.KindSeatConflict, "one or more seats are no longer available")
	}

	s.afterHoldChanged(ctx, hold, seatIDs)
	s.log.LogHoldGranted(ctx, holdID, eventID.String(), sessionID, len(seatIDs))

	return holdToResponse(hold), nil
}

// extendHold adds seats to the session's live hold. Seats already in the
// hold are accepted as-is, so retried requests are idempotent. Any grant,
// including a pure retry, refreshes the deadline.
func (s *service) extendHold(ctx context.Context, hold *SeatHold, seatIDs []string, states []SeatState) (*HoldResponse, error) {
	held := make(map[string]bool, len(hold.SeatIDs))
	for _, id := range hold.SeatIDs {
		held[id] = true
	}

	var newSeats []string
	for _, id := range seatIDs {
		if !held[id] {
			newSeats = append(newSeats, id)
		}
	}

	if len(hold.SeatIDs)+len(newSeats) > s.maxPerHold {
		return nil, errs.Newf(errs.KindInvalidInput, "cannot hold more than %d seats", s.maxPerHold)
	}

	if len(newSeats) > 0 {
		if err := s.reclaimStaleOwners(ctx, states); err != nil {
			return nil, err
		}

		won, err := s.repo.HoldAvailableSeats(ctx, hold.EventID, newSeats, hold.HoldID)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "failed to hold seats", err)
		}
		if won != int64(len(newSeats)) {
			// Roll back only the augmentation; the original hold survives.
			if won > 0 {
				if _, rbErr := s.repo.ReleaseHeldSeats(ctx, hold.EventID, newSeats, hold.HoldID); rbErr != nil {
					s.log.ErrorWithContext(ctx, "hold rollback failed", rbErr, map[string]interface{}{
						"hold_id": hold.HoldID, "event_id": hold.EventID.String(),
					})
				}
			}
			s.log.LogSeatConflict(ctx, hold.EventID.String(), newSeats, "hold_extend")
			return nil, errs.New(errs.KindSeatConflict, "one or more seats are no longer available")
		}
	}

	allSeats := append(append([]string{}, hold.SeatIDs...), newSeats...)
	sort.Strings(allSeats)
	expiresAt := time.Now().Add(s.holdTTL)

	if err := s.repo.UpdateHold(ctx, hold.HoldID, allSeats, expiresAt); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to update hold", err)
	}

	hold.SeatIDs = allSeats
	hold.ExpiresAt = expiresAt

	s.afterHoldChanged(ctx, hold, newSeats)
	s.log.LogHoldGranted(ctx, hold.HoldID, hold.EventID.String(), hold.SessionID, len(allSeats))

	return holdToResponse(hold), nil
}

// dropHold removes a hold record during grant rollback. Best effort: a
// leftover empty hold blocks this session until the sweep deletes it, it
// cannot block anyone else's seats.
func (s *service) dropHold(ctx context.Context, holdID string) {
	if err := s.repo.DeleteHold(ctx, holdID); err != nil {
		s.log.ErrorWithContext(ctx, "failed to drop hold after rollback", err, map[string]interface{}{
			"hold_id": holdID,
		})
	}
}

// reclaimStaleOwners frees seats whose owning hold has lapsed but has not
// been swept yet, so they count as available for the current grant.
func (s *service) reclaimStaleOwners(ctx context.Context, states []SeatState) error {
	now := time.Now()
	checked := make(map[string]bool)

	for _, state := range states {
		if state.Status != SeatHeld || state.HoldRef == nil || checked[*state.HoldRef] {
			continue
		}
		checked[*state.HoldRef] = true

		owner, err := s.repo.GetHold(ctx, *state.HoldRef)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Orphaned hold ref, free the seat directly.
				s.repo.ReleaseHeldSeats(ctx, state.EventID, []string{state.SeatID}, *state.HoldRef)
				continue
			}
			return errs.Wrap(errs.KindInternal, "failed to load owning hold", err)
		}
		if owner.Expired(now) {
			if err := s.reclaimHold(ctx, owner); err != nil {
				return err
			}
		}
	}
	return nil
}

// reclaimHold releases every seat of a lapsed hold and removes the record.
func (s *service) reclaimHold(ctx context.Context, hold *SeatHold) error {
	released, err := s.repo.ReleaseHeldSeats(ctx, hold.EventID, hold.SeatIDs, hold.HoldID)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "failed to release expired hold seats", err)
	}
	if err := s.repo.DeleteHold(ctx, hold.HoldID); err != nil {
		return errs.Wrap(errs.KindInternal, "failed to delete expired hold", err)
	}

	if s.cache != nil {
		s.cache.Delete(ctx, constants.BuildHoldKey(hold.HoldID))
		s.cache.Delete(ctx, constants.BuildAvailabilityKey(hold.EventID.String()))
	}

	if released > 0 {
		s.broadcast(ctx, hold.EventID.String(), realtime.TypeSeatAvailability, realtime.SeatAvailabilityData{
			SeatIDs: hold.SeatIDs,
			Status:  string(SeatAvailable),
		})
	}
	s.broadcast(ctx, hold.EventID.String(), realtime.TypeHoldExpired, realtime.HoldExpiredData{
		HoldID:    hold.HoldID,
		SessionID: hold.SessionID,
		SeatIDs:   hold.SeatIDs,
	})
	return nil
}

// ReleaseHold gives a hold back before its deadline. Only the owning
// session may release it.
func (s *service) ReleaseHold(ctx context.Context, sessionID string, req ReleaseHoldRequest) (*ReleaseResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidInput, "invalid event id", err)
	}

	hold, err := s.repo.GetHold(ctx, req.HoldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "hold not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load hold", err)
	}

	if hold.SessionID != sessionID {
		return nil, errs.New(errs.KindUnauthorized, "hold belongs to a different session")
	}
	if hold.EventID != eventID {
		return nil, errs.New(errs.KindInvalidInput, "hold does not belong to this event")
	}

	released, err := s.repo.ReleaseHeldSeats(ctx, eventID, hold.SeatIDs, hold.HoldID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to release seats", err)
	}
	if err := s.repo.DeleteHold(ctx, hold.HoldID); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to delete hold", err)
	}

	if s.cache != nil {
		s.cache.Delete(ctx, constants.BuildHoldKey(hold.HoldID))
		s.cache.Delete(ctx, constants.BuildAvailabilityKey(eventID.String()))
	}
	if released > 0 {
		s.broadcast(ctx, eventID.String(), realtime.TypeSeatAvailability, realtime.SeatAvailabilityData{
			SeatIDs: hold.SeatIDs,
			Status:  string(SeatAvailable),
		})
	}

	s.log.LogHoldReleased(ctx, hold.HoldID, len(hold.SeatIDs))

	return &ReleaseResponse{
		HoldID:        hold.HoldID,
		ReleasedSeats: hold.SeatIDs,
	}, nil
}

// GetEventSeatStatus returns the full seat snapshot. The neutral snapshot
// is briefly cached; the caller's own-seat marking is applied per request.
func (s *service) GetEventSeatStatus(ctx context.Context, eventID uuid.UUID, sessionID string) (*EventSeatStatusResponse, error) {
	snapshot, err := s.neutralSnapshot(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if sessionID != "" {
		if hold, err := s.repo.GetHoldBySession(ctx, eventID, sessionID); err == nil && !hold.Expired(time.Now()) {
			mine := make(map[string]bool, len(hold.SeatIDs))
			for _, id := range hold.SeatIDs {
				mine[id] = true
			}
			for i := range snapshot.Seats {
				if snapshot.Seats[i].Status == SeatHeld && mine[snapshot.Seats[i].SeatID] {
					snapshot.Seats[i].Mine = true
				}
			}
		}
	}

	return snapshot, nil
}

func (s *service) neutralSnapshot(ctx context.Context, eventID uuid.UUID) (*EventSeatStatusResponse, error) {
	cacheKey := constants.BuildAvailabilityKey(eventID.String())

	if s.cache != nil {
		var cached EventSeatStatusResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	states, err := s.repo.ListSeatStates(ctx, eventID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to list seat states", err)
	}
	if len(states) == 0 {
		return nil, errs.New(errs.KindNotFound, "no seats found for this event")
	}

	resp := &EventSeatStatusResponse{
		EventID:     eventID.String(),
		Seats:       make([]SeatStatusEntry, len(states)),
		GeneratedAt: time.Now().UTC(),
	}
	for i, state := range states {
		resp.Seats[i] = SeatStatusEntry{SeatID: state.SeatID, Status: state.Status}
		switch state.Status {
		case SeatAvailable:
			resp.Available++
		case SeatHeld:
			resp.Held++
		case SeatSold:
			resp.Sold++
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, resp, constants.TTL_REALTIME)
	}
	return resp, nil
}

// GetSeatPlan returns the seat grid grouped by section, each seat with its
// parsed row and seat coordinates and current status, plus an SVG rendering.
// Because the plan carries live status it is cached on the realtime tier.
func (s *service) GetSeatPlan(ctx context.Context, eventID uuid.UUID) (*SeatPlanResponse, error) {
	cacheKey := constants.BuildSeatPlanKey(eventID.String())

	if s.cache != nil {
		var cached SeatPlanResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	states, err := s.repo.ListSeatStates(ctx, eventID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to list seat states", err)
	}
	if len(states) == 0 {
		return nil, errs.New(errs.KindNotFound, "no seats found for this event")
	}

	plan := &SeatPlanResponse{
		EventID:  eventID.String(),
		Sections: make(map[string][]PlanSeat),
		Total:    len(states),
	}
	for _, state := range states {
		parsed := seatid.Parse(state.SeatID)
		plan.Sections[parsed.Section] = append(plan.Sections[parsed.Section], PlanSeat{
			SeatID: state.SeatID,
			Row:    parsed.Row,
			Seat:   parsed.Seat,
			Status: state.Status,
		})
	}
	plan.SVG = renderPlanSVG(plan.Sections)

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, plan, constants.TTL_REALTIME)
	}
	return plan, nil
}

// ValidateCheckout confirms a hold is live, owned by the session, and still
// backs every one of its seats. Checkout coordinators call this before
// creating a payment intent.
func (s *service) ValidateCheckout(ctx context.Context, eventID uuid.UUID, sessionID, holdID string) (*SeatHold, error) {
	hold, err := s.repo.GetHold(ctx, holdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "hold not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load hold", err)
	}

	if hold.SessionID != sessionID {
		return nil, errs.New(errs.KindUnauthorized, "hold belongs to a different session")
	}
	if hold.EventID != eventID {
		return nil, errs.New(errs.KindInvalidInput, "hold does not belong to this event")
	}
	if hold.Expired(time.Now()) {
		return nil, errs.New(errs.KindInvalidState, "hold has expired")
	}

	states, err := s.repo.GetSeatStates(ctx, eventID, hold.SeatIDs)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to load seat states", err)
	}
	for _, state := range states {
		if state.Status != SeatHeld || state.HoldRef == nil || *state.HoldRef != holdID {
			return nil, errs.New(errs.KindInvalidState, "hold no longer backs all of its seats")
		}
	}

	return hold, nil
}

// FinalizeSeats flips every seat of the hold to SOLD in one transaction and
// retires the hold. Returns the seat ids that were sold. Calling it again
// for an order whose seats are already SOLD returns those seats, so a
// retried finalize converges instead of failing.
func (s *service) FinalizeSeats(ctx context.Context, eventID uuid.UUID, holdID string, orderID uuid.UUID) ([]string, error) {
	hold, err := s.repo.GetHold(ctx, holdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if sold, soldErr := s.seatsSoldToOrder(ctx, eventID, orderID); soldErr == nil && len(sold) > 0 {
				return sold, nil
			}
			return nil, errs.New(errs.KindNotFound, "hold not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load hold", err)
	}

	if err := s.repo.MarkSeatsSold(ctx, eventID, hold.SeatIDs, holdID, orderID); err != nil {
		s.log.LogSeatConflict(ctx, eventID.String(), hold.SeatIDs, "finalize")
		return nil, errs.Wrap(errs.KindSeatConflict, "hold no longer backs all of its seats", err)
	}

	if err := s.repo.DeleteHold(ctx, holdID); err != nil {
		// Seats are sold; a leftover hold record is swept later.
		s.log.ErrorWithContext(ctx, "failed to delete finalized hold", err, map[string]interface{}{
			"hold_id": holdID,
		})
	}

	if s.cache != nil {
		s.cache.Delete(ctx, constants.BuildHoldKey(holdID))
		s.cache.Delete(ctx, constants.BuildAvailabilityKey(eventID.String()))
	}
	s.broadcast(ctx, eventID.String(), realtime.TypeSeatAvailability, realtime.SeatAvailabilityData{
		SeatIDs: hold.SeatIDs,
		Status:  string(SeatSold),
	})

	return hold.SeatIDs, nil
}

// seatsSoldToOrder returns the seat ids already finalized under an order.
func (s *service) seatsSoldToOrder(ctx context.Context, eventID, orderID uuid.UUID) ([]string, error) {
	states, err := s.repo.ListSeatsByOrder(ctx, eventID, orderID)
	if err != nil {
		return nil, err
	}
	seatIDs := make([]string, 0, len(states))
	for _, state := range states {
		if state.Status == SeatSold {
			seatIDs = append(seatIDs, state.SeatID)
		}
	}
	return seatIDs, nil
}

// ReclaimExpiredHolds sweeps one batch of lapsed holds back to AVAILABLE.
func (s *service) ReclaimExpiredHolds(ctx context.Context, batchSize int) (int, int, error) {
	expired, err := s.repo.ListExpiredHolds(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, 0, errs.Wrap(errs.KindInternal, "failed to list expired holds", err)
	}

	var holds, seats int
	for _, hold := range expired {
		if err := s.reclaimHold(ctx, &hold); err != nil {
			s.log.ErrorWithContext(ctx, "failed to reclaim hold", err, map[string]interface{}{
				"hold_id": hold.HoldID,
			})
			continue
		}
		holds++
		seats += len(hold.SeatIDs)
	}

	if holds > 0 {
		s.log.LogHoldsReclaimed(ctx, holds, seats)
	}
	return holds, seats, nil
}

// WarnExpiringHolds pushes a hold_expiring_soon message for holds inside
// the warning window. The once-per-hold marker lives in the cache, so a
// cache outage at worst repeats a warning.
func (s *service) WarnExpiringHolds(ctx context.Context, warnBefore time.Duration) (int, error) {
	now := time.Now()
	holds, err := s.repo.ListHoldsExpiringBefore(ctx, now, now.Add(warnBefore))
	if err != nil {
		return 0, errs.Wrap(errs.KindInternal, "failed to list expiring holds", err)
	}

	var warned int
	for _, hold := range holds {
		if s.cache != nil {
			first, err := s.cache.SetIfAbsent(ctx, constants.BuildHoldWarnedKey(hold.HoldID), true, warnBefore*2)
			if err != nil || !first {
				continue
			}
		}
		s.broadcast(ctx, hold.EventID.String(), realtime.TypeHoldExpiringSoon, realtime.HoldExpiringSoonData{
			HoldID:    hold.HoldID,
			SessionID: hold.SessionID,
			ExpiresAt: hold.ExpiresAt,
		})
		warned++
	}
	return warned, nil
}

func (s *service) afterHoldChanged(ctx context.Context, hold *SeatHold, changedSeats []string) {
	if s.cache != nil {
		s.cache.Set(ctx, constants.BuildHoldKey(hold.HoldID), hold, time.Until(hold.ExpiresAt))
		s.cache.Delete(ctx, constants.BuildAvailabilityKey(hold.EventID.String()))
	}
	if len(changedSeats) > 0 {
		s.broadcast(ctx, hold.EventID.String(), realtime.TypeSeatAvailability, realtime.SeatAvailabilityData{
			SeatIDs: changedSeats,
			Status:  string(SeatHeld),
		})
	}
}

func (s *service) broadcast(ctx context.Context, eventID, msgType string, data interface{}) {
	if s.broadcaster == nil {
		return
	}
	msg := realtime.NewMessage(eventID, msgType, data)
	if err := s.broadcaster.Publish(ctx, eventID, msg); err != nil {
		s.log.ErrorWithContext(ctx, "broadcast failed", err, map[string]interface{}{
			"event_id": eventID, "type": msgType,
		})
	}
}

func holdToResponse(hold *SeatHold) *HoldResponse {
	return &HoldResponse{
		HoldID:    hold.HoldID,
		EventID:   hold.EventID.String(),
		SeatIDs:   hold.SeatIDs,
		ExpiresAt: hold.ExpiresAt,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
