package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// MockNotificationService is a mock implementation of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

//nolint:revive
func (m *MockNotificationService) ListLog(ctx context.Context, limit int) ([]storage.NotificationLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.NotificationLogEntry), args.Error(1)
}

//nolint:revive
func (m *MockNotificationService) SendTest(ctx context.Context, to string) (notification.Result, error) {
	args := m.Called(ctx, to)
	return args.Get(0).(notification.Result), args.Error(1)
}
