package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/api"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
)

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var input api.CreateBookingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	req := domain.ReservationRequest{
		HallID:  input.HallId,
		EventID: input.EventId,
		Seats:   input.Seats,
		Customer: domain.Customer{
			Name:  input.CustomerName,
			Phone: input.Phone,
		},
	}

	booking, err := app.reserver.Reserve(r.Context(), req)
	if err != nil {
		var unavailable *domain.SeatUnavailableError
		var invalid *domain.InvalidSeatError

		switch {
		case errors.As(err, &unavailable):
			app.seatConflictResponse(w, r, unavailable.Seats)
		case errors.As(err, &invalid):
			app.invalidSeatsResponse(w, r, invalid.Seats)
		case errors.Is(err, domain.ErrNoSeats):
			app.errorResponse(w, r, http.StatusUnprocessableEntity, ErrNoSeatsSelected)
		case errors.Is(err, domain.ErrNotFound):
			app.errorResponse(w, r, http.StatusNotFound, ErrEventNotFound)
		case errors.Is(err, domain.ErrConcurrencyConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.CreateBookingResponse{
		ReferenceNumber: booking.ReferenceNumber,
		Booking:         toBooking(*booking),
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/bookings/%s", booking.ReferenceNumber))

	err = app.writeJSON(w, http.StatusCreated, resp, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBooking(w http.ResponseWriter, r *http.Request, reference string) {
	booking, err := app.bookings.Get(r.Context(), reference)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.BookingResponse{Booking: toBooking(*booking)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := app.bookings.List(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingListResponse{Bookings: make([]api.Booking, len(bookings))}
	for i, b := range bookings {
		resp.Bookings[i] = toBooking(b)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CheckInBooking(w http.ResponseWriter, r *http.Request) {
	var input api.CheckInRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	booking, err := app.bookings.CheckIn(r.Context(), input.ReferenceNumber)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.CheckInResponse{
		Success: true,
		Booking: toBooking(*booking),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	var input api.DeleteBookingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	creds := domain.AdminCredentials{
		Username: input.AdminCredentials.Username,
		Password: input.AdminCredentials.Password,
	}

	booking, err := app.bookings.Delete(r.Context(), input.ReferenceNumber, creds)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	contextGetLogger(r).Info("booking deleted", "reference", booking.ReferenceNumber)

	resp := api.DeleteBookingResponse{
		Message:         "Booking deleted successfully",
		ReferenceNumber: booking.ReferenceNumber,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		app.invalidCredentialsResponse(w, r)
	case errors.Is(err, domain.ErrNotFound):
		app.errorResponse(w, r, http.StatusNotFound, ErrBookingNotFound)
	case errors.Is(err, domain.ErrConcurrencyConflict):
		app.editConflictResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
