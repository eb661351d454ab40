package domain

import (
	"context"
	"time"
)

type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "booking.confirmed"
	NotificationBookingCheckedIn NotificationType = "booking.checked_in"
	NotificationBookingDeleted   NotificationType = "booking.deleted"
)

// Notification describes a change to the ledger after it has been committed.
type Notification struct {
	Type       NotificationType
	Booking    Booking
	OccurredAt time.Time
}

// Notifier receives committed ledger changes. Implementations must not block the
// caller for long and handle their own failures.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Notifiers fans a notification out to every member.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, n Notification) {
	for _, notifier := range ns {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
