package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"ticketly/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEventRepository struct {
	mu     sync.Mutex
	events map[uuid.UUID]*Event
}

func newFakeEventRepository() *fakeEventRepository {
	return &fakeEventRepository{events: make(map[uuid.UUID]*Event)}
}

func (f *fakeEventRepository) Create(event *Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now().UTC()
	c := *event
	f.events[event.ID] = &c
	return nil
}

func (f *fakeEventRepository) GetByID(id uuid.UUID) (*Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *e
	return &c, nil
}

func (f *fakeEventRepository) Update(id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"]; ok {
		e.Status = status.(Status)
	}
	e.UpdatedAt = time.Now().UTC()
	c := *e
	return &c, nil
}

func (f *fakeEventRepository) GetAll(query EventListQuery) ([]Event, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Event
	for _, e := range f.events {
		if query.Status != "" && string(e.Status) != query.Status {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEventRepository) IncrementSoldCount(eventID uuid.UUID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.SoldCount += delta
	return nil
}

// fakeSeatPlanner records the seat plans it was asked to materialize.
type fakeSeatPlanner struct {
	mu    sync.Mutex
	plans map[string][]string
}

func newFakeSeatPlanner() *fakeSeatPlanner {
	return &fakeSeatPlanner{plans: make(map[string][]string)}
}

func (f *fakeSeatPlanner) CreateSeatStates(ctx context.Context, eventID string, seatIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans[eventID] = seatIDs
	return nil
}

func setupEventService(t *testing.T) (Service, *fakeEventRepository, *fakeSeatPlanner) {
	t.Helper()

	repo := newFakeEventRepository()
	planner := newFakeSeatPlanner()

	svc := NewService(repo)
	svc.SetSeatPlanner(planner)

	return svc, repo, planner
}

func validCreateRequest() CreateEventRequest {
	return CreateEventRequest{
		Name:     "Orchestra Night",
		Venue:    "City Hall",
		DateTime: time.Now().Add(30 * 24 * time.Hour),
		PricingZones: map[string]PricingZone{
			"A": {Name: "Front", Price: 80.00, Currency: "USD"},
			"B": {Name: "Rear", Price: 45.00, Currency: "USD"},
		},
		SeatIDs: []string{"A-R1-S1", "A-R1-S2", "B-R1-S1"},
	}
}

func TestCreateEvent_StartsAsDraft(t *testing.T) {
	svc, _, _ := setupEventService(t)

	resp, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, resp.Status)
	assert.Equal(t, 3, resp.TotalCapacity)
	assert.Equal(t, 3, resp.Remaining)
	assert.Equal(t, 0, resp.SoldCount)
}

func TestCreateEvent_RejectsPastDate(t *testing.T) {
	svc, _, _ := setupEventService(t)

	req := validCreateRequest()
	req.DateTime = time.Now().Add(-time.Hour)

	_, err := svc.CreateEvent(req)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvalidInput))
}

func TestCreateEvent_RejectsDuplicateSeats(t *testing.T) {
	svc, _, _ := setupEventService(t)

	req := validCreateRequest()
	req.SeatIDs = append(req.SeatIDs, "A-R1-S1")

	_, err := svc.CreateEvent(req)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvalidInput))
}

func TestCreateEvent_RejectsUncoveredSection(t *testing.T) {
	svc, _, _ := setupEventService(t)

	req := validCreateRequest()
	req.SeatIDs = append(req.SeatIDs, "C-R1-S1")

	_, err := svc.CreateEvent(req)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvalidInput))
}

func TestPublishEvent_MaterializesSeatPlan(t *testing.T) {
	svc, _, planner := setupEventService(t)

	created, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)
	eventID := uuid.MustParse(created.ID)

	published, err := svc.PublishEvent(eventID)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, published.Status)

	assert.ElementsMatch(t, []string{"A-R1-S1", "A-R1-S2", "B-R1-S1"}, planner.plans[created.ID])

	bookable, err := svc.IsBookable(eventID)
	require.NoError(t, err)
	assert.True(t, bookable)
}

func TestPublishEvent_OnlyFromDraft(t *testing.T) {
	svc, _, _ := setupEventService(t)

	created, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)
	eventID := uuid.MustParse(created.ID)

	_, err = svc.PublishEvent(eventID)
	require.NoError(t, err)

	_, err = svc.PublishEvent(eventID)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvalidState))
}

func TestIsBookable_DraftEvent(t *testing.T) {
	svc, _, _ := setupEventService(t)

	created, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)

	bookable, err := svc.IsBookable(uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.False(t, bookable)
}

func TestSeatPrice_ResolvesZoneBySection(t *testing.T) {
	svc, _, _ := setupEventService(t)

	created, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)
	eventID := uuid.MustParse(created.ID)

	zone, err := svc.SeatPrice(eventID, "B-R1-S1")
	require.NoError(t, err)
	assert.Equal(t, 45.00, zone.Price)
	assert.Equal(t, "USD", zone.Currency)

	_, err = svc.SeatPrice(eventID, "Z-R1-S1")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvalidInput))
}

func TestRecordSale_BumpsSoldCount(t *testing.T) {
	svc, repo, _ := setupEventService(t)

	created, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)
	eventID := uuid.MustParse(created.ID)

	require.NoError(t, svc.RecordSale(eventID, 2))

	event, err := repo.GetByID(eventID)
	require.NoError(t, err)
	assert.Equal(t, 2, event.SoldCount)

	resp, err := svc.GetEventByID(eventID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Remaining)

	assert.Error(t, svc.RecordSale(eventID, 0))
}

func TestGetEventByID_NotFound(t *testing.T) {
	svc, _, _ := setupEventService(t)

	_, err := svc.GetEventByID(uuid.New())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestGetAllEvents_DefaultsPagination(t *testing.T) {
	svc, _, _ := setupEventService(t)

	_, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)

	page, err := svc.GetAllEvents(EventListQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Events, 1)
}

func TestGetAllEvents_FiltersByStatus(t *testing.T) {
	svc, _, _ := setupEventService(t)

	created, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)
	_, err = svc.PublishEvent(uuid.MustParse(created.ID))
	require.NoError(t, err)

	draft := validCreateRequest()
	draft.Name = "Jazz Evening"
	_, err = svc.CreateEvent(draft)
	require.NoError(t, err)

	page, err := svc.GetAllEvents(EventListQuery{Status: string(StatusPublished)})
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, StatusPublished, page.Events[0].Status)
}
