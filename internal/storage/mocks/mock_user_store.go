package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// MockUserStore is a mock implementation of storage.UserStore.
type MockUserStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockUserStore) CreateUser(ctx context.Context, u *storage.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

//nolint:revive
func (m *MockUserStore) GetUser(ctx context.Context, id string) (*storage.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

//nolint:revive
func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

//nolint:revive
func (m *MockUserStore) ListUsers(ctx context.Context, filter storage.UserFilter) ([]*storage.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.User), args.Error(1)
}

//nolint:revive
func (m *MockUserStore) CreateVolunteerTypeRequest(ctx context.Context, req *storage.VolunteerTypeRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
