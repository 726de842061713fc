package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/service"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

//nolint:revive
func (m *MockUserService) CreateUser(ctx context.Context, u *storage.User) (*storage.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

//nolint:revive
func (m *MockUserService) GetUser(ctx context.Context, id string) (*storage.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

//nolint:revive
func (m *MockUserService) ListUsers(ctx context.Context) ([]*storage.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.User), args.Error(1)
}

//nolint:revive
func (m *MockUserService) ImportUsers(ctx context.Context, r io.Reader) (service.ImportResult, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(service.ImportResult), args.Error(1)
}

//nolint:revive
func (m *MockUserService) RequestVolunteerType(ctx context.Context, userID, volunteerType string) (notification.Result, error) {
	args := m.Called(ctx, userID, volunteerType)
	return args.Get(0).(notification.Result), args.Error(1)
}
