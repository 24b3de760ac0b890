package routes

import (
	"context"
	"time"

	"ticketly/internal/events"
	"ticketly/internal/notifications"
	"ticketly/internal/orders"
	"ticketly/internal/seats"

	"github.com/google/uuid"
)

// Adapters bridging the consumer-declared interfaces of one package to the
// concrete service of another, so the domain packages never import each
// other directly.

// seatsEventDirectory adapts events.Service to seats.EventDirectory.
type seatsEventDirectory struct {
	events events.Service
}

func (a *seatsEventDirectory) IsBookable(eventID uuid.UUID) (bool, error) {
	return a.events.IsBookable(eventID)
}

// ordersSeatService adapts seats.Service to orders.SeatService.
type ordersSeatService struct {
	seats seats.Service
}

func (a *ordersSeatService) HoldForCheckout(ctx context.Context, eventID uuid.UUID, sessionID string, userID *string, seatIDs []string) (*orders.HoldDetails, error) {
	granted, err := a.seats.HoldSeats(ctx, sessionID, userID, seats.HoldSeatsRequest{
		EventID: eventID.String(),
		SeatIDs: seatIDs,
	})
	if err != nil {
		return nil, err
	}

	hold, err := a.seats.ValidateCheckout(ctx, eventID, sessionID, granted.HoldID)
	if err != nil {
		return nil, err
	}
	return &orders.HoldDetails{
		HoldID:    hold.HoldID,
		SeatIDs:   hold.SeatIDs,
		UserID:    hold.UserID,
		ExpiresAt: hold.ExpiresAt,
	}, nil
}

func (a *ordersSeatService) FinalizeSeats(ctx context.Context, eventID uuid.UUID, holdID string, orderID uuid.UUID) ([]string, error) {
	return a.seats.FinalizeSeats(ctx, eventID, holdID, orderID)
}

// ordersEventDirectory adapts events.Service to orders.EventDirectory.
type ordersEventDirectory struct {
	events events.Service
}

func (a *ordersEventDirectory) SeatPrice(eventID uuid.UUID, seatID string) (orders.ZonePrice, error) {
	zone, err := a.events.SeatPrice(eventID, seatID)
	if err != nil {
		return orders.ZonePrice{}, err
	}
	return orders.ZonePrice{Price: zone.Price, Currency: zone.Currency}, nil
}

func (a *ordersEventDirectory) RecordSale(eventID uuid.UUID, seatCount int) error {
	return a.events.RecordSale(eventID, seatCount)
}

// confirmationNotifier adapts notifications.Producer to orders.Notifier.
type confirmationNotifier struct {
	producer notifications.Producer
}

func (a *confirmationNotifier) EnqueueConfirmation(ctx context.Context, order *orders.Order) error {
	confirmation := &notifications.OrderConfirmation{
		OrderID:        order.ID.String(),
		OrderNumber:    order.OrderNumber,
		EventID:        order.EventID.String(),
		CustomerName:   order.CustomerName,
		RecipientEmail: order.CustomerEmail,
		Total:          order.Total,
		Currency:       order.Currency,
		CreatedAt:      time.Now().UTC(),
	}
	for _, ticket := range order.Tickets {
		confirmation.Tickets = append(confirmation.Tickets, notifications.TicketInfo{
			SeatID:     ticket.SeatID,
			TicketCode: ticket.TicketCode,
			Price:      ticket.Price,
		})
	}
	return a.producer.PublishConfirmation(ctx, confirmation)
}
