package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/api"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
)

const maxBodyBytes = 1_048_576

type contextKey string

const loggerContextKey = contextKey("logger")

func contextSetLogger(r *http.Request, logger *slog.Logger) *http.Request {
	ctx := context.WithValue(r.Context(), loggerContextKey, logger)
	return r.WithContext(ctx)
}

// contextGetLogger returns the request scoped logger, falling back to the default logger.
func contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return slog.Default()
	}

	return logger
}

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)

		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid positive integer %q", s)
	}

	return n, nil
}

func seatStrings(seats []domain.SeatID) []string {
	s := make([]string, len(seats))
	for i, seat := range seats {
		s[i] = string(seat)
	}

	return s
}

func toEvent(e domain.Event) api.Event {
	return api.Event{
		Id:             e.ID,
		Name:           e.Name,
		Description:    e.Description,
		Date:           e.Date,
		Time:           e.Time,
		Price:          e.Price,
		Image:          e.Image,
		BookedSeats:    seatStrings(e.BookedSeats),
		AvailableSeats: e.AvailableSeats,
	}
}

func toHall(h domain.Hall, withEvents bool) api.Hall {
	hall := api.Hall{
		Id:          h.ID,
		Name:        h.Name,
		Rows:        h.Rows,
		SeatsPerRow: h.SeatsPerRow,
	}

	if withEvents {
		hall.Events = make([]api.Event, len(h.Events))
		for i, e := range h.Events {
			hall.Events[i] = toEvent(e)
		}
	}

	return hall
}

func toBooking(b domain.Booking) api.Booking {
	return api.Booking{
		ReferenceNumber: b.ReferenceNumber,
		CustomerName:    b.CustomerName,
		Phone:           b.Phone,
		EventDetails: api.EventDetails{
			EventId:   b.EventDetails.EventID,
			EventName: b.EventDetails.EventName,
			HallId:    b.EventDetails.HallID,
			HallName:  b.EventDetails.HallName,
			Date:      b.EventDetails.Date,
			Time:      b.EventDetails.Time,
		},
		Seats:       seatStrings(b.Seats),
		TotalPrice:  b.TotalPrice,
		BookingDate: b.BookingDate,
		Status:      string(b.Status),
		CheckedIn:   b.CheckedIn,
	}
}
