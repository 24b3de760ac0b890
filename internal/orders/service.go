package orders

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"ticketly/internal/shared/errs"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pricing applied on top of the seat subtotal.
const (
	feeRate = 0.05
	taxRate = 0.08
)

type Service interface {
	SetSeatService(seatService SeatService)
	SetEventDirectory(directory EventDirectory)
	SetNotifier(notifier Notifier)

	CreateCheckout(ctx context.Context, sessionID string, userID *string, req CheckoutRequest) (*CheckoutResponse, error)
	GetOrder(ctx context.Context, orderID uuid.UUID, sessionID string) (*OrderResponse, error)
	FinalizeOrder(ctx context.Context, orderID uuid.UUID) error
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// HoldDetails is what the checkout flow needs to know about a hold.
type HoldDetails struct {
	HoldID    string
	SeatIDs   []string
	UserID    *string
	ExpiresAt time.Time
}

// SeatService is the seat arbiter surface the checkout flow depends on.
type SeatService interface {
	// HoldForCheckout secures the requested seats under the session's hold,
	// creating or extending it, and returns the hold backing the checkout.
	// Seats held by another live session surface as SEAT_CONFLICT.
	HoldForCheckout(ctx context.Context, eventID uuid.UUID, sessionID string, userID *string, seatIDs []string) (*HoldDetails, error)
	FinalizeSeats(ctx context.Context, eventID uuid.UUID, holdID string, orderID uuid.UUID) ([]string, error)
}

// ZonePrice is a seat's resolved price.
type ZonePrice struct {
	Price    float64
	Currency string
}

// EventDirectory resolves prices and records sales on the owning event.
type EventDirectory interface {
	SeatPrice(eventID uuid.UUID, seatID string) (ZonePrice, error)
	RecordSale(eventID uuid.UUID, seatCount int) error
}

// Notifier queues the confirmation email after a sale. Failures are logged
// and swallowed; the sale is already durable.
type Notifier interface {
	EnqueueConfirmation(ctx context.Context, order *Order) error
}

type service struct {
	repo      Repository
	provider  PaymentProvider
	seats     SeatService
	directory EventDirectory
	notifier  Notifier
	log       *logger.Logger
}

func NewService(repo Repository, provider PaymentProvider) Service {
	return &service{
		repo:     repo,
		provider: provider,
		log:      logger.GetDefault(),
	}
}

func (s *service) SetSeatService(seatService SeatService) {
	s.seats = seatService
}

func (s *service) SetEventDirectory(directory EventDirectory) {
	s.directory = directory
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// CreateCheckout secures the requested seats under the session's hold,
// snapshots them into a PENDING order and opens a payment intent for it.
// Seats stay HELD; nothing is sold until the provider confirms payment (or
// immediately, in mock mode).
func (s *service) CreateCheckout(ctx context.Context, sessionID string, userID *string, req CheckoutRequest) (*CheckoutResponse, error) {
	if sessionID == "" {
		return nil, errs.New(errs.KindInvalidInput, "session id is required")
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidInput, "invalid event id", err)
	}

	hold, err := s.seats.HoldForCheckout(ctx, eventID, sessionID, userID, req.SeatIDs)
	if err != nil {
		return nil, err
	}

	subtotal, currency, err := s.priceSeats(eventID, hold.SeatIDs)
	if err != nil {
		return nil, err
	}
	fees := round2(subtotal * feeRate)
	tax := round2(subtotal * taxRate)
	total := round2(subtotal + fees + tax)

	orderNumber, err := generateOrderNumber()
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to generate order number", err)
	}

	order := &Order{
		ID:            uuid.New(),
		OrderNumber:   orderNumber,
		EventID:       eventID,
		HoldID:        hold.HoldID,
		SessionID:     sessionID,
		UserID:        userID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		SeatIDs:       hold.SeatIDs,
		Subtotal:      subtotal,
		Fees:          fees,
		Tax:           tax,
		Total:         total,
		Currency:      currency,
		PaymentStatus: PaymentPending,
	}

	intent, err := s.provider.CreateIntent(order)
	if err != nil {
		return nil, err
	}
	order.PaymentIntentID = &intent.ID

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to create order", err)
	}

	s.log.LogOrderCreated(ctx, order.ID.String(), order.OrderNumber, eventID.String(), total)

	// Mock mode has no webhook to wait for; the sale completes here.
	if s.provider.Mock() {
		if err := s.FinalizeOrder(ctx, order.ID); err != nil {
			return nil, err
		}
		finalized, err := s.repo.GetByID(ctx, order.ID)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "failed to reload order", err)
		}
		return &CheckoutResponse{
			Order:           finalized.ToResponse(),
			PaymentIntentID: intent.ID,
		}, nil
	}

	return &CheckoutResponse{
		Order:           order.ToResponse(),
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
	}, nil
}

func (s *service) priceSeats(eventID uuid.UUID, seatIDs []string) (float64, string, error) {
	var subtotal float64
	currency := ""
	for _, seatID := range seatIDs {
		zone, err := s.directory.SeatPrice(eventID, seatID)
		if err != nil {
			return 0, "", err
		}
		if currency == "" {
			currency = zone.Currency
		} else if currency != zone.Currency {
			return 0, "", errs.New(errs.KindInvalidInput, "seats span multiple currencies")
		}
		subtotal += zone.Price
	}
	if currency == "" {
		currency = "USD"
	}
	return round2(subtotal), currency, nil
}

// GetOrder returns an order to the session that placed it.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID, sessionID string) (*OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "order not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to get order", err)
	}

	if order.SessionID != sessionID {
		return nil, errs.New(errs.KindUnauthorized, "order belongs to a different session")
	}

	resp := order.ToResponse()
	return &resp, nil
}

// FinalizeOrder completes a paid order: seats flip to SOLD, tickets are
// issued, the event's sold counter moves, and the confirmation email is
// queued. Seats are sold before the order status moves, so a failure at any
// point leaves the order PENDING and the whole call safe to retry. The
// PENDING to SUCCEEDED flip is a conditional update; whichever delivery
// claims it issues the tickets, replays return clean.
func (s *service) FinalizeOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.New(errs.KindNotFound, "order not found")
		}
		return errs.Wrap(errs.KindInternal, "failed to get order", err)
	}

	if order.PaymentStatus == PaymentSucceeded {
		return nil
	}
	if order.PaymentStatus != PaymentPending {
		return errs.Newf(errs.KindInvalidState, "order is %s and cannot be finalized", order.PaymentStatus)
	}

	// The hold lapsing between payment and finalize surfaces here as
	// SEAT_CONFLICT; the order stays PENDING and a later retry can still
	// succeed while the seats last.
	soldSeats, err := s.seats.FinalizeSeats(ctx, order.EventID, order.HoldID, order.ID)
	if err != nil {
		return err
	}

	claimed, err := s.repo.MarkSucceeded(ctx, orderID, time.Now().UTC())
	if err != nil {
		return errs.Wrap(errs.KindInternal, "failed to update order status", err)
	}
	if !claimed {
		// A concurrent delivery won the claim and issues the tickets.
		return nil
	}

	tickets, err := buildTickets(order, soldSeats, s.directory)
	if err != nil {
		return err
	}
	if err := s.repo.CreateTickets(ctx, tickets); err != nil {
		return errs.Wrap(errs.KindInternal, "failed to issue tickets", err)
	}

	if s.directory != nil {
		if err := s.directory.RecordSale(order.EventID, len(soldSeats)); err != nil {
			s.log.ErrorWithContext(ctx, "failed to record sale on event", err, map[string]interface{}{
				"order_id": orderID.String(),
			})
		}
	}

	if s.notifier != nil {
		order.Tickets = tickets
		if err := s.notifier.EnqueueConfirmation(ctx, order); err != nil {
			s.log.ErrorWithContext(ctx, "failed to queue confirmation email", err, map[string]interface{}{
				"order_id": orderID.String(),
			})
		}
	}

	s.log.LogOrderFinalized(ctx, orderID.String(), len(soldSeats))
	return nil
}

// HandleWebhook verifies and dispatches a provider callback. Unrecognized
// event types are acknowledged without action.
func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case WebhookPaymentSucceeded:
		return s.handlePaymentSucceeded(ctx, event.IntentID)
	case WebhookPaymentFailed:
		return s.handlePaymentFailed(ctx, event.IntentID)
	default:
		return nil
	}
}

func (s *service) handlePaymentSucceeded(ctx context.Context, intentID string) error {
	order, err := s.repo.GetByPaymentIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.New(errs.KindNotFound, "no order for payment intent")
		}
		return errs.Wrap(errs.KindInternal, "failed to look up order", err)
	}
	return s.FinalizeOrder(ctx, order.ID)
}

// handlePaymentFailed marks the order FAILED. The hold is left alone: the
// session may retry checkout until the hold's own deadline reclaims it.
func (s *service) handlePaymentFailed(ctx context.Context, intentID string) error {
	order, err := s.repo.GetByPaymentIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.New(errs.KindNotFound, "no order for payment intent")
		}
		return errs.Wrap(errs.KindInternal, "failed to look up order", err)
	}

	if order.PaymentStatus != PaymentPending {
		return nil
	}
	return s.repo.Update(ctx, order.ID, map[string]interface{}{
		"payment_status": PaymentFailed,
	})
}

func buildTickets(order *Order, seatIDs []string, directory EventDirectory) ([]Ticket, error) {
	tickets := make([]Ticket, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		code, err := generateTicketCode()
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "failed to generate ticket code", err)
		}

		price := 0.0
		if directory != nil {
			if zone, err := directory.SeatPrice(order.EventID, seatID); err == nil {
				price = zone.Price
			}
		}

		tickets = append(tickets, Ticket{
			ID:         uuid.New(),
			OrderID:    order.ID,
			EventID:    order.EventID,
			SeatID:     seatID,
			TicketCode: code,
			Price:      price,
		})
	}
	return tickets, nil
}

// generateOrderNumber builds a human-readable order reference.
func generateOrderNumber() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("TKT-%s-%s", timestamp, string(randomPart)), nil
}

func generateTicketCode() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	code := make([]byte, 10)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		code[i] = alphabet[num.Int64()]
	}
	return "TIX-" + string(code), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
