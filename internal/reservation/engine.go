// Package reservation commits seat reservations against the inventory and booking
// ledger and runs the booking lifecycle afterwards.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/OnsongoMabeya/simple-theatre-ticketing/internal/reservation"

const (
	defaultCommitAttempts    = 3
	defaultRetryBackoff      = 50 * time.Millisecond
	defaultReferenceAttempts = 5
)

// Engine validates reservation requests and commits them to both stores as one
// unit: the inventory is written first, then the ledger, and a failed ledger write
// puts the previous inventory back.
type Engine struct {
	inventory  domain.InventoryStore
	ledger     domain.LedgerStore
	references domain.ReferenceGenerator
	guard      *Guard
	notifier   domain.Notifier
	logger     *slog.Logger
	now        func() time.Time

	commitAttempts    int
	retryBackoff      time.Duration
	referenceAttempts int

	tracer       trace.Tracer
	reservations metric.Int64Counter
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithNotifier(n domain.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithGuard(g *Guard) Option {
	return func(e *Engine) { e.guard = g }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithCommitRetry sets how often a commit that hit a concurrent store update is
// attempted in total, and the pause between attempts.
func WithCommitRetry(attempts int, backoff time.Duration) Option {
	return func(e *Engine) {
		e.commitAttempts = max(attempts, 1)
		e.retryBackoff = backoff
	}
}

func NewEngine(
	inventory domain.InventoryStore,
	ledger domain.LedgerStore,
	references domain.ReferenceGenerator,
	opts ...Option) *Engine {

	e := &Engine{
		inventory:         inventory,
		ledger:            ledger,
		references:        references,
		guard:             NewGuard(),
		notifier:          domain.Notifiers(nil),
		logger:            slog.Default(),
		now:               time.Now,
		commitAttempts:    defaultCommitAttempts,
		retryBackoff:      defaultRetryBackoff,
		referenceAttempts: defaultReferenceAttempts,
		tracer:            otel.Tracer(instrumentationName),
	}

	for _, opt := range opts {
		opt(e)
	}

	meter := otel.Meter(instrumentationName)

	counter, err := meter.Int64Counter("reservations.total",
		metric.WithDescription("Reservation attempts by outcome"))
	if err != nil {
		e.logger.Warn("failed to create reservations counter", "error", err)
	}
	e.reservations = counter

	return e
}

// Reserve books the requested seats of one event for a customer.
func (e *Engine) Reserve(ctx context.Context, req domain.ReservationRequest) (*domain.Booking, error) {
	ctx, span := e.tracer.Start(ctx, "reservation.Reserve", trace.WithAttributes(
		attribute.Int("hall.id", req.HallID),
		attribute.String("event.id", req.EventID),
		attribute.Int("seats.requested", len(req.Seats)),
	))
	defer span.End()

	booking, err := e.reserve(ctx, req)

	e.count(ctx, reservationOutcome(err))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("booking.reference", booking.ReferenceNumber))

	e.logger.InfoContext(ctx, "booking committed",
		"reference", booking.ReferenceNumber,
		"hall_id", req.HallID,
		"event_id", req.EventID,
		"seats", len(booking.Seats))

	e.notifier.Notify(ctx, domain.Notification{
		Type:       domain.NotificationBookingConfirmed,
		Booking:    *booking,
		OccurredAt: booking.BookingDate,
	})

	return booking, nil
}

func (e *Engine) reserve(ctx context.Context, req domain.ReservationRequest) (*domain.Booking, error) {
	seats := domain.NormalizeSeats(req.Seats)
	if len(seats) == 0 {
		return nil, domain.ErrNoSeats
	}

	unlock, err := e.guard.LockEvent(ctx, req.HallID, req.EventID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	theatre, err := e.inventory.Load(ctx)
	if err != nil {
		return nil, storeError("load inventory", err)
	}

	hall, event, err := theatre.Resolve(req.HallID, req.EventID)
	if err != nil {
		return nil, err
	}

	err = checkSeats(hall, event, seats)
	if err != nil {
		return nil, err
	}

	reference, err := e.references.NextReference(ctx)
	if err != nil {
		return nil, err
	}

	booking := domain.NewBooking(reference, hall, event, seats, req.Customer, e.now())

	err = e.commit(ctx, func(theatre *domain.Theatre, ledger *domain.Ledger) (changes, error) {
		hall, event, err := theatre.Resolve(req.HallID, req.EventID)
		if err != nil {
			return changes{}, err
		}

		err = checkSeats(hall, event, seats)
		if err != nil {
			return changes{}, err
		}

		err = e.ensureUniqueReference(ctx, ledger, &booking)
		if err != nil {
			return changes{}, err
		}

		event.Book(hall, seats)
		ledger.Append(booking)

		return changes{inventory: true, ledger: true}, nil
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// checkSeats reports seats outside the hall first, then seats that are taken.
func checkSeats(hall *domain.Hall, event *domain.Event, seats []domain.SeatID) error {
	var invalid []domain.SeatID
	for _, s := range seats {
		if !hall.Contains(s) {
			invalid = append(invalid, s)
		}
	}

	if len(invalid) > 0 {
		return &domain.InvalidSeatError{Seats: invalid}
	}

	booked := event.Booked()

	conflict := domain.NewSeatSet()
	for _, s := range seats {
		if booked.Has(s) {
			conflict[s] = struct{}{}
		}
	}

	if len(conflict) > 0 {
		return &domain.SeatUnavailableError{Seats: conflict.Sorted()}
	}

	return nil
}

func (e *Engine) ensureUniqueReference(ctx context.Context, ledger *domain.Ledger, booking *domain.Booking) error {
	for attempt := 1; ledger.Contains(booking.ReferenceNumber); attempt++ {
		if attempt > e.referenceAttempts {
			return fmt.Errorf("reference %s already issued after %d attempts", booking.ReferenceNumber, e.referenceAttempts)
		}

		e.logger.WarnContext(ctx, "booking reference collision", "reference", booking.ReferenceNumber)

		reference, err := e.references.NextReference(ctx)
		if err != nil {
			return err
		}

		booking.ReferenceNumber = reference
	}

	return nil
}

// changes tells commit which snapshots an apply step modified.
type changes struct {
	inventory bool
	ledger    bool
}

type applyFunc func(theatre *domain.Theatre, ledger *domain.Ledger) (changes, error)

// commit runs apply against fresh snapshots under the commit lock and saves what
// it changed. Store conflicts are retried with a pause outside the lock.
func (e *Engine) commit(ctx context.Context, apply applyFunc) error {
	ctx, span := e.tracer.Start(ctx, "reservation.commit")
	defer span.End()

	var err error

	for attempt := 1; attempt <= e.commitAttempts; attempt++ {
		err = e.commitOnce(ctx, apply)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) || attempt == e.commitAttempts {
			break
		}

		e.logger.WarnContext(ctx, "concurrent store update, retrying commit", "attempt", attempt, "error", err)

		select {
		case <-time.After(e.retryBackoff * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (e *Engine) commitOnce(ctx context.Context, apply applyFunc) error {
	unlock, err := e.guard.LockCommit(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	theatre, err := e.inventory.Load(ctx)
	if err != nil {
		return storeError("load inventory", err)
	}

	ledger, err := e.ledger.Load(ctx)
	if err != nil {
		return storeError("load ledger", err)
	}

	previous := theatre.Clone()

	changed, err := apply(theatre, ledger)
	if err != nil {
		return err
	}

	if changed.inventory {
		err = e.inventory.Save(ctx, theatre)
		if err != nil {
			return storeError("save inventory", err)
		}
	}

	if changed.ledger {
		err = e.ledger.Save(ctx, ledger)
		if err != nil {
			saveErr := storeError("save ledger", err)

			if changed.inventory {
				return e.compensate(ctx, previous, saveErr)
			}

			return saveErr
		}
	}

	return nil
}

// compensate writes the inventory snapshot taken before the failed commit back.
func (e *Engine) compensate(ctx context.Context, previous *domain.Theatre, cause error) error {
	e.logger.WarnContext(ctx, "ledger write failed, restoring inventory", "error", cause)

	err := e.inventory.Save(context.WithoutCancel(ctx), previous)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to restore inventory after ledger write failure",
			"error", err, "cause", cause)

		return errors.Join(cause, storeError("restore inventory", err))
	}

	return cause
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrIO, op, err)
}

func (e *Engine) count(ctx context.Context, outcome string) {
	if e.reservations == nil {
		return
	}

	e.reservations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func reservationOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrSeatUnavailable):
		return "seat_unavailable"
	case errors.Is(err, domain.ErrInvalidSeat):
		return "invalid_seat"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrNoSeats):
		return "no_seats"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, domain.ErrIO):
		return "io_error"
	default:
		return "error"
	}
}
