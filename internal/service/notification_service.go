package service

import (
	"context"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// NotificationService exposes the delivery log and transport checks.
type NotificationService interface {
	// ListLog returns the most recent notification log entries.
	ListLog(ctx context.Context, limit int) ([]storage.NotificationLogEntry, error)
	// SendTest sends a test email to the given address using the configured transport.
	SendTest(ctx context.Context, to string) (notification.Result, error)
}

type notificationServiceImpl struct {
	notifier Notifier
	store    storage.NotificationStore
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifier Notifier, store storage.NotificationStore) NotificationService {
	return &notificationServiceImpl{notifier: notifier, store: store}
}

// ListLog returns the most recent notification log entries.
func (s *notificationServiceImpl) ListLog(ctx context.Context, limit int) ([]storage.NotificationLogEntry, error) {
	return s.store.ListNotifications(ctx, limit)
}

// SendTest sends a test email. Delivery failures are reported in the Result.
func (s *notificationServiceImpl) SendTest(ctx context.Context, to string) (notification.Result, error) {
	addrs, err := notification.ParseAddressList(to)
	if err != nil {
		return notification.Result{}, &ValidationError{Field: "to", Message: err.Error()}
	}
	return s.notifier.SendTestEmail(ctx, addrs), nil
}
