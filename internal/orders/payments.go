package orders

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"ticketly/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
)

// PaymentIntent is the provider-side charge authorization backing an order.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// WebhookEvent is the decoded provider callback.
type WebhookEvent struct {
	Type     string
	IntentID string
}

const (
	WebhookPaymentSucceeded = "payment_intent.succeeded"
	WebhookPaymentFailed    = "payment_intent.payment_failed"
)

// PaymentProvider abstracts the external payment authority. The service
// only ever learns "intent created" and, later via webhook, "succeeded or
// failed"; it never talks to the provider about seats.
type PaymentProvider interface {
	CreateIntent(order *Order) (*PaymentIntent, error)
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
	// Mock reports whether intents auto-succeed without an external call.
	Mock() bool
}

// stripeProvider charges through Stripe payment intents.
type stripeProvider struct {
	webhookSecret string
}

func NewStripeProvider(apiKey, webhookSecret string) PaymentProvider {
	stripe.Key = apiKey
	return &stripeProvider{webhookSecret: webhookSecret}
}

func (p *stripeProvider) CreateIntent(order *Order) (*PaymentIntent, error) {
	intent, err := paymentintent.New(buildIntentParams(order))
	if err != nil {
		return nil, errs.Wrap(errs.KindExternalUnavailable, "payment provider rejected intent", err)
	}

	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// buildIntentParams carries the order's identity and seat set into the
// intent metadata, so a provider-side reconciliation can tie a charge back
// to the seats it paid for.
func buildIntentParams(order *Order) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(order.Total)),
		Currency: stripe.String(order.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("event_id", order.EventID.String())
	params.AddMetadata("seat_ids", strings.Join(order.SeatIDs, ","))
	params.AddMetadata("customer_email", order.CustomerEmail)
	params.AddMetadata("session_id", order.SessionID)
	return params
}

func (p *stripeProvider) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnauthenticated, "webhook signature verification failed", err)
	}

	switch event.Type {
	case WebhookPaymentSucceeded, WebhookPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, errs.Wrap(errs.KindInvalidInput, "failed to decode payment intent payload", err)
		}
		return &WebhookEvent{Type: string(event.Type), IntentID: intent.ID}, nil
	default:
		return &WebhookEvent{Type: string(event.Type)}, nil
	}
}

func (p *stripeProvider) Mock() bool {
	return false
}

// mockProvider stands in when no provider key is configured. Every intent
// "succeeds" immediately; the service finalizes the order synchronously
// instead of waiting for a webhook.
type mockProvider struct{}

func NewMockProvider() PaymentProvider {
	return &mockProvider{}
}

func (p *mockProvider) CreateIntent(order *Order) (*PaymentIntent, error) {
	id := fmt.Sprintf("pi_mock_%s", uuid.New().String())
	return &PaymentIntent{ID: id}, nil
}

func (p *mockProvider) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return nil, errs.New(errs.KindInvalidState, "webhooks are not supported in mock payment mode")
}

func (p *mockProvider) Mock() bool {
	return true
}

// toMinorUnits converts a decimal amount to the provider's integer minor
// units (cents).
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
