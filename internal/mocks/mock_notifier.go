package mocks

import (
	"context"
	"sync"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
)

// RecordingNotifier keeps every notification it receives.
type RecordingNotifier struct {
	mu            sync.Mutex
	Notifications []domain.Notification
}

func (n *RecordingNotifier) Notify(_ context.Context, notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.Notifications = append(n.Notifications, notification)
}

func (n *RecordingNotifier) Types() []domain.NotificationType {
	n.mu.Lock()
	defer n.mu.Unlock()

	types := make([]domain.NotificationType, len(n.Notifications))
	for i, notification := range n.Notifications {
		types[i] = notification.Type
	}

	return types
}
