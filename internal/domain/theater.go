package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Theatre is the inventory snapshot: every hall with its events and booked seats.
type Theatre struct {
	Halls []Hall `json:"halls"`
}

type Hall struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Rows        int     `json:"rows"`
	SeatsPerRow int     `json:"seatsPerRow"`
	Events      []Event `json:"events"`
}

type Event struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Price          decimal.Decimal `json:"price"`
	Image          string          `json:"image"`
	BookedSeats    []SeatID        `json:"bookedSeats"`
	AvailableSeats int             `json:"availableSeats"`
}

// Capacity is the number of seats in the hall grid.
func (h *Hall) Capacity() int {
	return h.Rows * h.SeatsPerRow
}

// Contains reports whether seat lies inside the hall geometry.
func (h *Hall) Contains(seat SeatID) bool {
	row, col, err := ParseSeatID(seat)
	if err != nil {
		return false
	}

	return row >= 0 && row < h.Rows && col >= 0 && col < h.SeatsPerRow
}

// Event returns a pointer into the hall's event list so callers can mutate it in place.
func (h *Hall) Event(id string) (*Event, bool) {
	for i := range h.Events {
		if h.Events[i].ID == id {
			return &h.Events[i], true
		}
	}

	return nil, false
}

func (t *Theatre) Hall(id int) (*Hall, bool) {
	for i := range t.Halls {
		if t.Halls[i].ID == id {
			return &t.Halls[i], true
		}
	}

	return nil, false
}

// Resolve finds the hall and event addressed by the id pair.
func (t *Theatre) Resolve(hallID int, eventID string) (*Hall, *Event, error) {
	hall, ok := t.Hall(hallID)
	if !ok {
		return nil, nil, fmt.Errorf("hall %d: %w", hallID, ErrNotFound)
	}

	event, ok := hall.Event(eventID)
	if !ok {
		return nil, nil, fmt.Errorf("event %q in hall %d: %w", eventID, hallID, ErrNotFound)
	}

	return hall, event, nil
}

// Normalize de-duplicates and sorts every event's booked seats and recomputes
// availability from the hall geometry.
func (t *Theatre) Normalize() {
	if t.Halls == nil {
		t.Halls = []Hall{}
	}

	for i := range t.Halls {
		hall := &t.Halls[i]
		if hall.Events == nil {
			hall.Events = []Event{}
		}

		for j := range hall.Events {
			event := &hall.Events[j]
			event.BookedSeats = NewSeatSet(event.BookedSeats...).Sorted()
			event.AvailableSeats = hall.Capacity() - len(event.BookedSeats)
		}
	}
}

// Booked returns the event's booked seats as a set.
func (e *Event) Booked() SeatSet {
	return NewSeatSet(e.BookedSeats...)
}

// Book adds seats to the event inventory. The hall supplies the capacity used to
// recompute availability.
func (e *Event) Book(hall *Hall, seats []SeatID) {
	set := e.Booked()
	for _, s := range seats {
		set[s] = struct{}{}
	}

	e.BookedSeats = set.Sorted()
	e.AvailableSeats = hall.Capacity() - len(e.BookedSeats)
}

// Release removes seats from the event inventory.
func (e *Event) Release(hall *Hall, seats []SeatID) {
	set := e.Booked()
	for _, s := range seats {
		delete(set, s)
	}

	e.BookedSeats = set.Sorted()
	e.AvailableSeats = hall.Capacity() - len(e.BookedSeats)
}

// Clone returns a deep copy of the snapshot.
func (t *Theatre) Clone() *Theatre {
	c := &Theatre{Halls: make([]Hall, len(t.Halls))}

	for i, h := range t.Halls {
		events := make([]Event, len(h.Events))
		for j, e := range h.Events {
			e.BookedSeats = append([]SeatID(nil), e.BookedSeats...)
			events[j] = e
		}

		h.Events = events
		c.Halls[i] = h
	}

	return c
}
