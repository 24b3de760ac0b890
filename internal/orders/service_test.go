package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"ticketly/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeOrderRepository struct {
	mu      sync.Mutex
	orders  map[uuid.UUID]*Order
	tickets []Ticket
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[uuid.UUID]*Order)}
}

func (f *fakeOrderRepository) Create(ctx context.Context, order *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *order
	c.CreatedAt = time.Now().UTC()
	f.orders[order.ID] = &c
	return nil
}

func (f *fakeOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *o
	for _, t := range f.tickets {
		if t.OrderID == id {
			c.Tickets = append(c.Tickets, t)
		}
	}
	return &c, nil
}

func (f *fakeOrderRepository) GetByPaymentIntentID(ctx context.Context, intentID string) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.PaymentIntentID != nil && *o.PaymentIntentID == intentID {
			c := *o
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["payment_status"]; ok {
		o.PaymentStatus = status.(PaymentStatus)
	}
	if completed, ok := updates["completed_at"]; ok {
		if completed == nil {
			o.CompletedAt = nil
		} else {
			t := completed.(time.Time)
			o.CompletedAt = &t
		}
	}
	return nil
}

func (f *fakeOrderRepository) MarkSucceeded(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.PaymentStatus != PaymentPending {
		return false, nil
	}
	o.PaymentStatus = PaymentSucceeded
	o.CompletedAt = &completedAt
	return true, nil
}

func (f *fakeOrderRepository) CreateTickets(ctx context.Context, tickets []Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets = append(f.tickets, tickets...)
	return nil
}

func (f *fakeOrderRepository) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Order
	for _, o := range f.orders {
		if o.SessionID == sessionID {
			out = append(out, *o)
		}
	}
	return out, nil
}

// fakeSeatArbiter stands in for the seat service. HoldForCheckout mints a
// hold over the requested seats; FinalizeSeats consumes it and remembers
// what each order bought, so retries converge like the real arbiter.
type fakeSeatArbiter struct {
	mu            sync.Mutex
	nextHold      int
	holds         map[string]*HoldDetails
	holdErr       error
	finalizeCalls int
	finalizeErr   error
	finalized     map[uuid.UUID][]string
}

func newFakeSeatArbiter() *fakeSeatArbiter {
	return &fakeSeatArbiter{
		holds:     make(map[string]*HoldDetails),
		finalized: make(map[uuid.UUID][]string),
	}
}

func (f *fakeSeatArbiter) HoldForCheckout(ctx context.Context, eventID uuid.UUID, sessionID string, userID *string, seatIDs []string) (*HoldDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.holdErr != nil {
		return nil, f.holdErr
	}
	f.nextHold++
	hold := &HoldDetails{
		HoldID:    fmt.Sprintf("hold_%d", f.nextHold),
		SeatIDs:   seatIDs,
		UserID:    userID,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	f.holds[hold.HoldID] = hold
	return hold, nil
}

func (f *fakeSeatArbiter) FinalizeSeats(ctx context.Context, eventID uuid.UUID, holdID string, orderID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalizeCalls++
	if f.finalizeErr != nil {
		return nil, f.finalizeErr
	}
	hold, ok := f.holds[holdID]
	if !ok {
		if sold, done := f.finalized[orderID]; done {
			return sold, nil
		}
		return nil, errs.New(errs.KindNotFound, "hold not found")
	}
	delete(f.holds, holdID)
	f.finalized[orderID] = hold.SeatIDs
	return hold.SeatIDs, nil
}

// fakePricing resolves every seat to a fixed zone price unless a per-seat
// override is registered.
type fakePricing struct {
	mu        sync.Mutex
	price     float64
	currency  string
	overrides map[string]ZonePrice
	sales     int
}

func newFakePricing(price float64) *fakePricing {
	return &fakePricing{price: price, currency: "USD", overrides: make(map[string]ZonePrice)}
}

func (f *fakePricing) SeatPrice(eventID uuid.UUID, seatID string) (ZonePrice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if zone, ok := f.overrides[seatID]; ok {
		return zone, nil
	}
	return ZonePrice{Price: f.price, Currency: f.currency}, nil
}

func (f *fakePricing) RecordSale(eventID uuid.UUID, seatCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sales += seatCount
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	queued []*Order
}

func (f *fakeNotifier) EnqueueConfirmation(ctx context.Context, order *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, order)
	return nil
}

// scriptedProvider replays a prepared webhook event and never auto-succeeds.
type scriptedProvider struct {
	intentID string
	event    *WebhookEvent
}

func (p *scriptedProvider) CreateIntent(order *Order) (*PaymentIntent, error) {
	return &PaymentIntent{ID: p.intentID, ClientSecret: p.intentID + "_secret"}, nil
}

func (p *scriptedProvider) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if p.event == nil {
		return nil, errs.New(errs.KindUnauthenticated, "webhook signature verification failed")
	}
	return p.event, nil
}

func (p *scriptedProvider) Mock() bool { return false }

func setupOrderService(t *testing.T, provider PaymentProvider) (Service, *fakeOrderRepository, *fakeSeatArbiter, *fakePricing, *fakeNotifier) {
	t.Helper()

	repo := newFakeOrderRepository()
	arbiter := newFakeSeatArbiter()
	pricing := newFakePricing(50.00)
	notifier := &fakeNotifier{}

	svc := NewService(repo, provider)
	svc.SetSeatService(arbiter)
	svc.SetEventDirectory(pricing)
	svc.SetNotifier(notifier)

	return svc, repo, arbiter, pricing, notifier
}

func checkoutRequest(eventID uuid.UUID, seatIDs ...string) CheckoutRequest {
	return CheckoutRequest{
		EventID:       eventID.String(),
		SeatIDs:       seatIDs,
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
	}
}

func TestCreateCheckout_MockModeFinalizesImmediately(t *testing.T) {
	svc, repo, arbiter, pricing, notifier := setupOrderService(t, NewMockProvider())
	ctx := context.Background()

	eventID := uuid.New()
	resp, err := svc.CreateCheckout(ctx, "session-1", nil, checkoutRequest(eventID, "A-R1-S1", "A-R1-S2"))
	require.NoError(t, err)

	assert.Equal(t, PaymentSucceeded, resp.Order.PaymentStatus)
	assert.Empty(t, resp.ClientSecret)
	assert.True(t, strings.HasPrefix(resp.PaymentIntentID, "pi_mock_"))
	require.Len(t, resp.Order.Tickets, 2)
	for _, ticket := range resp.Order.Tickets {
		assert.True(t, strings.HasPrefix(ticket.TicketCode, "TIX-"))
		assert.Equal(t, 50.00, ticket.Price)
	}

	assert.Equal(t, 1, arbiter.finalizeCalls)
	assert.Equal(t, 2, pricing.sales)
	require.Len(t, notifier.queued, 1)
	assert.Equal(t, resp.Order.OrderNumber, notifier.queued[0].OrderNumber)

	stored, err := repo.GetByID(ctx, uuid.MustParse(resp.Order.ID))
	require.NoError(t, err)
	assert.NotNil(t, stored.CompletedAt)
}

func TestCreateCheckout_Pricing(t *testing.T) {
	svc, _, _, pricing, _ := setupOrderService(t, NewMockProvider())
	ctx := context.Background()

	eventID := uuid.New()
	pricing.overrides["B-R1-S1"] = ZonePrice{Price: 30.00, Currency: "USD"}

	resp, err := svc.CreateCheckout(ctx, "session-1", nil, checkoutRequest(eventID, "A-R1-S1", "B-R1-S1"))
	require.NoError(t, err)

	// 50.00 + 30.00 with 5% fees and 8% tax, rounded per component.
	assert.Equal(t, 80.00, resp.Order.Subtotal)
	assert.Equal(t, 4.00, resp.Order.Fees)
	assert.Equal(t, 6.40, resp.Order.Tax)
	assert.Equal(t, 90.40, resp.Order.Total)
	assert.Equal(t, "USD", resp.Order.Currency)
}

func TestCreateCheckout_RejectsMixedCurrencies(t *testing.T) {
	svc, _, _, pricing, _ := setupOrderService(t, NewMockProvider())
	ctx := context.Background()

	eventID := uuid.New()
	pricing.overrides["B-R1-S1"] = ZonePrice{Price: 40.00, Currency: "EUR"}

	_, err := svc.CreateCheckout(ctx, "session-1", nil, checkoutRequest(eventID, "A-R1-S1", "B-R1-S1"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvalidInput))
}

func TestCreateCheckout_SeatConflictSurfaces(t *testing.T) {
	svc, _, arbiter, _, _ := setupOrderService(t, NewMockProvider())

	arbiter.holdErr = errs.New(errs.KindSeatConflict, "one or more seats are no longer available")

	_, err := svc.CreateCheckout(context.Background(), "session-1", nil, checkoutRequest(uuid.New(), "A-R1-S1"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindSeatConflict))
}

func TestCreateCheckout_PendingUntilWebhook(t *testing.T) {
	provider := &scriptedProvider{intentID: "pi_test_1"}
	svc, repo, arbiter, _, _ := setupOrderService(t, provider)
	ctx := context.Background()

	eventID := uuid.New()
	resp, err := svc.CreateCheckout(ctx, "session-1", nil, checkoutRequest(eventID, "A-R1-S1"))
	require.NoError(t, err)

	assert.Equal(t, PaymentPending, resp.Order.PaymentStatus)
	assert.Equal(t, "pi_test_1", resp.PaymentIntentID)
	assert.Equal(t, "pi_test_1_secret", resp.ClientSecret)
	assert.Equal(t, 0, arbiter.finalizeCalls, "seats stay held until payment confirms")

	stored, err := repo.GetByID(ctx, uuid.MustParse(resp.Order.ID))
	require.NoError(t, err)
	assert.Equal(t, PaymentPending, stored.PaymentStatus)
}

func TestHandleWebhook_SucceededFinalizesOrder(t *testing.T) {
	provider := &scriptedProvider{intentID: "pi_test_1"}
	svc, repo, _, pricing, _ := setupOrderService(t, provider)
	ctx := context.Background()

	eventID := uuid.New()
	resp, err := svc.CreateCheckout(ctx, "session-1", nil, checkoutRequest(eventID, "A-R1-S1", "A-R1-S2"))
	require.NoError(t, err)

	provider.event = &WebhookEvent{Type: WebhookPaymentSucceeded, IntentID: "pi_test_1"}
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))

	stored, err := repo.GetByID(ctx, uuid.MustParse(resp.Order.ID))
	require.NoError(t, err)
	assert.Equal(t, PaymentSucceeded, stored.PaymentStatus)
	assert.Len(t, stored.Tickets, 2)
	assert.Equal(t, 2, pricing.sales)
}

func TestHandleWebhook_ReplayFinalizesOnce(t *testing.T) {
	provider := &scriptedProvider{intentID: "pi_test_1"}
	svc, repo, arbiter, _, notifier := setupOrderService(t, provider)
	ctx := context.Background()

	eventID := uuid.New()
	resp, err := svc.CreateCheckout(ctx, "session-1", nil, checkoutRequest(eventID, "A-R1-S1"))
	require.NoError(t, err)

	provider.event = &WebhookEvent{Type: WebhookPaymentSucceeded, IntentID: "pi_test_1"}
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))

	assert.Equal(t, 1, arbiter.finalizeCalls, "replayed webhook must not re-finalize")
	assert.Len(t, notifier.queued, 1)

	stored, err := repo.GetByID(ctx, uuid.MustParse(resp.Order.ID))
	require.NoError(t, err)
	assert.Len(t, stored.Tickets, 1)
}

func TestHandleWebhook_FailureMarksOrderFailed(t *testing.T) {
	provider := &scriptedProvider{intentID: "pi_test_1"}
	svc, repo, arbiter, _, _ := setupOrderService(t, provider)
	ctx := context.Background()

	eventID := uuid.New()
	resp, err := svc.CreateCheckout(ctx, "session-1", nil, checkoutRequest(eventID, "A-R1-S1"))
	require.NoError(t, err)

	provider.event = &WebhookEvent{Type: WebhookPaymentFailed, IntentID: "pi_test_1"}
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))

	stored, err := repo.GetByID(ctx, uuid.MustParse(resp.Order.ID))
	require.NoError(t, err)
	assert.Equal(t, PaymentFailed, stored.PaymentStatus)

	// The hold is untouched; the session may retry checkout.
	assert.Equal(t, 0, arbiter.finalizeCalls)
	assert.Len(t, arbiter.holds, 1)
}

func TestHandleWebhook_UnknownTypeIsAcknowledged(t *testing.T) {
	provider := &scriptedProvider{intentID: "pi_test_1", event: &WebhookEvent{Type: "charge.refund.updated"}}
	svc, _, _, _, _ := setupOrderService(t, provider)

	assert.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
}

func TestFinalizeOrder_SeatConflictLeavesOrderPending(t *testing.T) {
	provider := &scriptedProvider{intentID: "pi_test_1"}
	svc, repo, arbiter, _, _ := setupOrderService(t, provider)
	ctx := context.Background()

	eventID := uuid.New()
	resp, err := svc.CreateCheckout(ctx, "session-1", nil, checkoutRequest(eventID, "A-R1-S1"))
	require.NoError(t, err)
	orderID := uuid.MustParse(resp.Order.ID)

	arbiter.finalizeErr = errs.New(errs.KindSeatConflict, "hold no longer backs all of its seats")

	err = svc.FinalizeOrder(ctx, orderID)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindSeatConflict))

	stored, err := repo.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, PaymentPending, stored.PaymentStatus)
	assert.Nil(t, stored.CompletedAt)
	assert.Empty(t, stored.Tickets)

	// Once the conflict clears, the same order can still be finalized.
	arbiter.finalizeErr = nil
	require.NoError(t, svc.FinalizeOrder(ctx, orderID))

	stored, err = repo.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, PaymentSucceeded, stored.PaymentStatus)
	assert.Len(t, stored.Tickets, 1)
}

func TestFinalizeOrder_FailedOrderCannotBeFinalized(t *testing.T) {
	provider := &scriptedProvider{intentID: "pi_test_1"}
	svc, repo, _, _, _ := setupOrderService(t, provider)
	ctx := context.Background()

	eventID := uuid.New()
	resp, err := svc.CreateCheckout(ctx, "session-1", nil, checkoutRequest(eventID, "A-R1-S1"))
	require.NoError(t, err)

	orderID := uuid.MustParse(resp.Order.ID)
	require.NoError(t, repo.Update(ctx, orderID, map[string]interface{}{"payment_status": PaymentFailed}))

	err = svc.FinalizeOrder(ctx, orderID)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvalidState))
}

func TestGetOrder_SessionOwnership(t *testing.T) {
	svc, _, _, _, _ := setupOrderService(t, NewMockProvider())
	ctx := context.Background()

	eventID := uuid.New()
	resp, err := svc.CreateCheckout(ctx, "session-1", nil, checkoutRequest(eventID, "A-R1-S1"))
	require.NoError(t, err)

	orderID := uuid.MustParse(resp.Order.ID)

	_, err = svc.GetOrder(ctx, orderID, "other-session")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindUnauthorized))

	order, err := svc.GetOrder(ctx, orderID, "session-1")
	require.NoError(t, err)
	assert.Equal(t, resp.Order.OrderNumber, order.OrderNumber)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc, _, _, _, _ := setupOrderService(t, NewMockProvider())

	_, err := svc.GetOrder(context.Background(), uuid.New(), "session-1")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	number, err := generateOrderNumber()
	require.NoError(t, err)

	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "TKT", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 6)
}
