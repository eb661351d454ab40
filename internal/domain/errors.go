package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrSeatUnavailable     = errors.New("seat(s) are no longer available")
	ErrInvalidSeat         = errors.New("seat(s) are outside the hall layout")
	ErrNoSeats             = errors.New("at least one seat must be selected")
	ErrUnauthorized        = errors.New("invalid admin credentials")
	ErrIO                  = errors.New("store is unavailable")
	ErrConcurrencyConflict = errors.New("concurrent update detected")
)

// SeatUnavailableError lists the requested seats that are already booked.
type SeatUnavailableError struct {
	Seats []SeatID
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seats %s are no longer available", joinSeats(e.Seats))
}

func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

// InvalidSeatError lists the requested seats that do not exist in the hall.
type InvalidSeatError struct {
	Seats []SeatID
}

func (e *InvalidSeatError) Error() string {
	return fmt.Sprintf("seats %s do not exist in this hall", joinSeats(e.Seats))
}

func (e *InvalidSeatError) Is(target error) bool {
	return target == ErrInvalidSeat
}

func joinSeats(seats []SeatID) string {
	s := make([]string, len(seats))
	for i, v := range seats {
		s[i] = string(v)
	}

	return strings.Join(s, ", ")
}
