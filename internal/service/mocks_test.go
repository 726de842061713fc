package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendOTPEmail(ctx context.Context, ev notification.OTPRequested) (notification.Result, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(notification.Result), args.Error(1)
}

func (m *mockNotifier) SendQualificationExpiryEmail(ctx context.Context, ev notification.QualificationExpired) (notification.Result, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(notification.Result), args.Error(1)
}

func (m *mockNotifier) SendVolunteerTypeApprovalEmail(ctx context.Context, ev notification.VolunteerTypeRequested) (notification.Result, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(notification.Result), args.Error(1)
}

func (m *mockNotifier) SendTestEmail(ctx context.Context, to notification.AddressList) notification.Result {
	args := m.Called(ctx, to)
	return args.Get(0).(notification.Result)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(eventType string, payload map[string]string) {
	m.Called(eventType, payload)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}
