package reservation

import (
	"context"
	"fmt"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Manager runs post-booking operations on the ledger. It commits through the
// engine so lifecycle writes and reservations never interleave.
type Manager struct {
	engine       *Engine
	admin        domain.AdminAuthenticator
	releaseSeats bool
	lifecycle    metric.Int64Counter
}

type ManagerOption func(*Manager)

// WithSeatRelease controls whether deleting a booking returns its seats to the
// event inventory.
func WithSeatRelease(release bool) ManagerOption {
	return func(m *Manager) { m.releaseSeats = release }
}

func NewManager(engine *Engine, admin domain.AdminAuthenticator, opts ...ManagerOption) *Manager {
	m := &Manager{
		engine:       engine,
		admin:        admin,
		releaseSeats: true,
	}

	for _, opt := range opts {
		opt(m)
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter("bookings.lifecycle.total",
		metric.WithDescription("Completed booking lifecycle operations by action"))
	if err != nil {
		engine.logger.Warn("failed to create lifecycle counter", "error", err)
	}
	m.lifecycle = counter

	return m
}

func (m *Manager) Get(ctx context.Context, reference string) (*domain.Booking, error) {
	ledger, err := m.engine.ledger.Load(ctx)
	if err != nil {
		return nil, storeError("load ledger", err)
	}

	booking, ok := ledger.Find(reference)
	if !ok {
		return nil, fmt.Errorf("booking %q: %w", reference, domain.ErrNotFound)
	}

	return booking, nil
}

// List returns every booking, newest first.
func (m *Manager) List(ctx context.Context) ([]domain.Booking, error) {
	ledger, err := m.engine.ledger.Load(ctx)
	if err != nil {
		return nil, storeError("load ledger", err)
	}

	return ledger.Newest(), nil
}

func (m *Manager) Authenticate(ctx context.Context, creds domain.AdminCredentials) error {
	return m.admin.Authenticate(ctx, creds)
}

// CheckIn marks the booking as checked in. Checking in twice succeeds without
// writing anything.
func (m *Manager) CheckIn(ctx context.Context, reference string) (*domain.Booking, error) {
	var (
		result  domain.Booking
		flipped bool
	)

	err := m.engine.commit(ctx, func(_ *domain.Theatre, ledger *domain.Ledger) (changes, error) {
		booking, ok := ledger.Find(reference)
		if !ok {
			return changes{}, fmt.Errorf("booking %q: %w", reference, domain.ErrNotFound)
		}

		flipped = !booking.CheckedIn
		booking.CheckedIn = true
		result = *booking

		return changes{ledger: flipped}, nil
	})
	if err != nil {
		return nil, err
	}

	if flipped {
		m.count(ctx, "check_in")
		m.engine.logger.InfoContext(ctx, "booking checked in", "reference", reference)
		m.engine.notifier.Notify(ctx, domain.Notification{
			Type:       domain.NotificationBookingCheckedIn,
			Booking:    result,
			OccurredAt: m.engine.now().UTC(),
		})
	}

	return &result, nil
}

// Delete removes the booking after checking the admin credentials. The ledger is
// not read before authentication succeeds.
func (m *Manager) Delete(ctx context.Context, reference string, creds domain.AdminCredentials) (*domain.Booking, error) {
	err := m.admin.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	if m.releaseSeats {
		existing, err := m.Get(ctx, reference)
		if err != nil {
			return nil, err
		}

		unlock, err := m.engine.guard.LockEvent(ctx, existing.EventDetails.HallID, existing.EventDetails.EventID)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	var removed domain.Booking

	err = m.engine.commit(ctx, func(theatre *domain.Theatre, ledger *domain.Ledger) (changes, error) {
		booking, ok := ledger.Remove(reference)
		if !ok {
			return changes{}, fmt.Errorf("booking %q: %w", reference, domain.ErrNotFound)
		}

		removed = booking
		changed := changes{ledger: true}

		if m.releaseSeats {
			hall, event, err := theatre.Resolve(booking.EventDetails.HallID, booking.EventDetails.EventID)
			if err == nil {
				event.Release(hall, booking.Seats)
				changed.inventory = true
			}
		}

		return changed, nil
	})
	if err != nil {
		return nil, err
	}

	m.count(ctx, "delete")
	m.engine.logger.InfoContext(ctx, "booking deleted",
		"reference", reference,
		"seats_released", m.releaseSeats)

	m.engine.notifier.Notify(ctx, domain.Notification{
		Type:       domain.NotificationBookingDeleted,
		Booking:    removed,
		OccurredAt: m.engine.now().UTC(),
	})

	return &removed, nil
}

func (m *Manager) count(ctx context.Context, action string) {
	if m.lifecycle == nil {
		return
	}

	m.lifecycle.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}
