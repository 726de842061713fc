package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

//nolint:revive
func (m *MockAuthService) RequestLogin(ctx context.Context, email string) (notification.Result, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(notification.Result), args.Error(1)
}

//nolint:revive
func (m *MockAuthService) VerifyLogin(ctx context.Context, email, code string) (*storage.User, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}
