package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// MockNotificationStore is a mock implementation of storage.NotificationStore.
type MockNotificationStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockNotificationStore) LogNotification(ctx context.Context, entry storage.NotificationLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

//nolint:revive
func (m *MockNotificationStore) ListNotifications(ctx context.Context, limit int) ([]storage.NotificationLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.NotificationLogEntry), args.Error(1)
}
