package database

import (
	"ticketly/internal/events"
	"ticketly/internal/orders"
	"ticketly/internal/seats"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&events.Event{},
		&seats.SeatState{},
		&seats.SeatHold{},
		&orders.Order{},
		&orders.Ticket{},
	)
}
