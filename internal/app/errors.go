package app

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/api"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	appvalidator "github.com/OnsongoMabeya/simple-theatre-ticketing/internal/validator"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	ErrInternalServer     = "The server encountered a problem and could not process your request"
	ErrNotFound           = "The requested resource not found"
	ErrMethodNotAllowed   = "The method is not supported for this resource"
	ErrFailedValidation   = "One or more fields are invalid"
	ErrInvalidCredentials = "Invalid admin credentials"
	ErrRateLimitExceeded  = "Rate limit exceeded, please slow down"
	ErrSeatsUnavailable   = "Some of the selected seats are no longer available"
	ErrInvalidSeats       = "Some of the selected seats do not exist in this hall"
	ErrNoSeatsSelected    = "At least one seat must be selected"
	ErrConcurrentUpdate   = "The booking could not be completed because of a concurrent update, please try again"
	ErrBookingNotFound    = "Booking not found"
	ErrEventNotFound      = "Event not found"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeError(w, r, status, api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}, nil)
}

func (app *Application) writeError(w http.ResponseWriter, r *http.Request, status int, resp any, headers http.Header) {
	err := app.writeJSON(w, status, resp, headers)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// failedValidationResponse reports struct validation failures field by field.
func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:   ErrFailedValidation,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	for _, fieldErr := range validationErrs {
		resp.ValidationErrors = append(resp.ValidationErrors, api.ValidationError{
			Field: fieldName(fieldErr),
			Issue: appvalidator.ValidationMessage(fieldErr),
		})
	}

	app.writeError(w, r, http.StatusUnprocessableEntity, resp, nil)
}

// fieldName drops the root struct from the namespace, e.g. "seats[1]".
func fieldName(fieldErr validator.FieldError) string {
	_, name, ok := strings.Cut(fieldErr.Namespace(), ".")
	if !ok {
		return fieldErr.Field()
	}

	return name
}

func (app *Application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	app.writeError(w, r, http.StatusUnauthorized, api.ErrorResponse{
		Message:   ErrInvalidCredentials,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}, http.Header{"WWW-Authenticate": []string{`Basic realm="admin", charset="UTF-8"`}})
}

func (app *Application) seatConflictResponse(w http.ResponseWriter, r *http.Request, seats []domain.SeatID) {
	app.writeError(w, r, http.StatusConflict, api.SeatConflictResponse{
		Message:          ErrSeatsUnavailable,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ConflictingSeats: seatStrings(seats),
	}, nil)
}

func (app *Application) invalidSeatsResponse(w http.ResponseWriter, r *http.Request, seats []domain.SeatID) {
	app.writeError(w, r, http.StatusUnprocessableEntity, api.ValidationErrorResponse{
		Message:   ErrInvalidSeats,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
		ValidationErrors: []api.ValidationError{
			{Field: "seats", Issue: "must exist in the hall layout"},
		},
		InvalidSeats: seatStrings(seats),
	}, nil)
}

func (app *Application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, ErrRateLimitExceeded)
}

func (app *Application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusConflict, ErrConcurrentUpdate)
}
