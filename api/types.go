// Package api holds the HTTP contract: the OpenAPI document and the request and
// response bodies it describes.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors,omitempty"`
	InvalidSeats     []string          `json:"invalidSeats,omitempty"`
}

type SeatConflictResponse struct {
	Message          string    `json:"message"`
	RequestId        string    `json:"requestId"`
	Timestamp        time.Time `json:"timestamp"`
	ConflictingSeats []string  `json:"conflictingSeats"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Event struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Price          decimal.Decimal `json:"price"`
	Image          string          `json:"image"`
	BookedSeats    []string        `json:"bookedSeats"`
	AvailableSeats int             `json:"availableSeats"`
}

type Hall struct {
	Id          int     `json:"id"`
	Name        string  `json:"name"`
	Rows        int     `json:"rows"`
	SeatsPerRow int     `json:"seatsPerRow"`
	Events      []Event `json:"events,omitempty"`
}

type TheatreResponse struct {
	Halls []Hall `json:"halls"`
}

type EventDetailResponse struct {
	Hall  Hall  `json:"hall"`
	Event Event `json:"event"`
}

type CreateBookingRequest struct {
	HallId       int      `json:"hallId" validate:"gt=0"`
	EventId      string   `json:"eventId" validate:"required,max=64"`
	Seats        []string `json:"seats" validate:"required,min=1,max=20,dive,max=16,seatid"`
	CustomerName string   `json:"customerName" validate:"required,min=2,max=100"`
	Phone        string   `json:"phone" validate:"required,phone"`
}

type EventDetails struct {
	EventId   string `json:"eventId"`
	EventName string `json:"eventName"`
	HallId    int    `json:"hallId"`
	HallName  string `json:"hallName"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

type Booking struct {
	ReferenceNumber string          `json:"referenceNumber"`
	CustomerName    string          `json:"customerName"`
	Phone           string          `json:"phone"`
	EventDetails    EventDetails    `json:"eventDetails"`
	Seats           []string        `json:"seats"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	BookingDate     time.Time       `json:"bookingDate"`
	Status          string          `json:"status"`
	CheckedIn       bool            `json:"checkedIn"`
}

type CreateBookingResponse struct {
	ReferenceNumber string  `json:"referenceNumber"`
	Booking         Booking `json:"booking"`
}

type BookingResponse struct {
	Booking Booking `json:"booking"`
}

type BookingListResponse struct {
	Bookings []Booking `json:"bookings"`
}

type CheckInRequest struct {
	ReferenceNumber string `json:"referenceNumber" validate:"required,reference"`
}

type CheckInResponse struct {
	Success bool    `json:"success"`
	Booking Booking `json:"booking"`
}

type AdminCredentials struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type DeleteBookingRequest struct {
	ReferenceNumber  string           `json:"referenceNumber" validate:"required,reference"`
	AdminCredentials AdminCredentials `json:"adminCredentials"`
}

type DeleteBookingResponse struct {
	Message         string `json:"message"`
	ReferenceNumber string `json:"referenceNumber"`
}

type AdminLoginResponse struct {
	Success bool `json:"success"`
}
