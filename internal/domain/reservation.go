package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ReferencePrefix starts every booking reference.
const ReferencePrefix = "BOK"

// Booking is one committed reservation. EventDetails is a copy of the event and hall
// display fields taken at booking time so later edits never alter issued tickets.
type Booking struct {
	ReferenceNumber string          `json:"referenceNumber"`
	CustomerName    string          `json:"customerName"`
	Phone           string          `json:"phone"`
	EventDetails    EventDetails    `json:"eventDetails"`
	Seats           []SeatID        `json:"seats"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	BookingDate     time.Time       `json:"bookingDate"`
	Status          BookingStatus   `json:"status"`
	CheckedIn       bool            `json:"checkedIn"`
}

type EventDetails struct {
	EventID   string `json:"eventId"`
	EventName string `json:"eventName"`
	HallID    int    `json:"hallId"`
	HallName  string `json:"hallName"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

type Customer struct {
	Name  string
	Phone string
}

type ReservationRequest struct {
	HallID   int
	EventID  string
	Seats    []string
	Customer Customer
}

// NewBooking builds a confirmed booking for seats of event in hall.
func NewBooking(reference string, hall *Hall, event *Event, seats []SeatID, customer Customer, now time.Time) Booking {
	return Booking{
		ReferenceNumber: reference,
		CustomerName:    customer.Name,
		Phone:           customer.Phone,
		EventDetails: EventDetails{
			EventID:   event.ID,
			EventName: event.Name,
			HallID:    hall.ID,
			HallName:  hall.Name,
			Date:      event.Date,
			Time:      event.Time,
		},
		Seats:       append([]SeatID(nil), seats...),
		TotalPrice:  event.Price.Mul(decimal.NewFromInt(int64(len(seats)))),
		BookingDate: now.UTC(),
		Status:      BookingStatusConfirmed,
	}
}

// NormalizeSeats trims the requested identifiers and drops duplicates, keeping the
// order of first occurrence.
func NormalizeSeats(requested []string) []SeatID {
	seen := make(map[SeatID]bool, len(requested))
	seats := make([]SeatID, 0, len(requested))

	for _, s := range requested {
		id := SeatID(strings.TrimSpace(s))
		if id == "" || seen[id] {
			continue
		}

		seen[id] = true
		seats = append(seats, id)
	}

	return seats
}

// Ledger is the booking snapshot.
type Ledger struct {
	Bookings []Booking `json:"bookings"`
}

func (l *Ledger) Find(reference string) (*Booking, bool) {
	for i := range l.Bookings {
		if l.Bookings[i].ReferenceNumber == reference {
			return &l.Bookings[i], true
		}
	}

	return nil, false
}

func (l *Ledger) Contains(reference string) bool {
	_, ok := l.Find(reference)
	return ok
}

func (l *Ledger) Append(b Booking) {
	l.Bookings = append(l.Bookings, b)
}

// Remove deletes the booking with the given reference and returns it.
func (l *Ledger) Remove(reference string) (Booking, bool) {
	for i := range l.Bookings {
		if l.Bookings[i].ReferenceNumber == reference {
			removed := l.Bookings[i]
			l.Bookings = append(l.Bookings[:i], l.Bookings[i+1:]...)
			return removed, true
		}
	}

	return Booking{}, false
}

// Newest returns a copy of the bookings ordered by reference, newest first.
// References sort in issuance order.
func (l *Ledger) Newest() []Booking {
	bookings := append([]Booking{}, l.Bookings...)

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].ReferenceNumber > bookings[j].ReferenceNumber
	})

	return bookings
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{Bookings: make([]Booking, len(l.Bookings))}

	for i, b := range l.Bookings {
		b.Seats = append([]SeatID(nil), b.Seats...)
		c.Bookings[i] = b
	}

	return c
}

func (l *Ledger) Normalize() {
	if l.Bookings == nil {
		l.Bookings = []Booking{}
	}
}
