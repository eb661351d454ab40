// Package queue publishes committed booking changes to RabbitMQ.
package queue

import (
	"time"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/shopspring/decimal"
)

// BookingMessage is the payload of every booking lifecycle message. It carries
// enough of the booking for consumers to act without reading the ledger.
type BookingMessage struct {
	Type            domain.NotificationType `json:"type"`
	ReferenceNumber string                  `json:"referenceNumber"`
	CustomerName    string                  `json:"customerName"`
	Phone           string                  `json:"phone"`
	HallID          int                     `json:"hallId"`
	HallName        string                  `json:"hallName"`
	EventID         string                  `json:"eventId"`
	EventName       string                  `json:"eventName"`
	Date            string                  `json:"date"`
	Time            string                  `json:"time"`
	Seats           []domain.SeatID         `json:"seats"`
	TotalPrice      decimal.Decimal         `json:"totalPrice"`
	CheckedIn       bool                    `json:"checkedIn"`
	OccurredAt      time.Time               `json:"occurredAt"`
}

func NewBookingMessage(n domain.Notification) BookingMessage {
	b := n.Booking

	return BookingMessage{
		Type:            n.Type,
		ReferenceNumber: b.ReferenceNumber,
		CustomerName:    b.CustomerName,
		Phone:           b.Phone,
		HallID:          b.EventDetails.HallID,
		HallName:        b.EventDetails.HallName,
		EventID:         b.EventDetails.EventID,
		EventName:       b.EventDetails.EventName,
		Date:            b.EventDetails.Date,
		Time:            b.EventDetails.Time,
		Seats:           b.Seats,
		TotalPrice:      b.TotalPrice,
		CheckedIn:       b.CheckedIn,
		OccurredAt:      n.OccurredAt.UTC(),
	}
}
