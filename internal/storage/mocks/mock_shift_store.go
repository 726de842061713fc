package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// MockShiftStore is a mock implementation of storage.ShiftStore.
type MockShiftStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockShiftStore) CreateShift(ctx context.Context, shift *storage.Shift) error {
	args := m.Called(ctx, shift)
	return args.Error(0)
}

//nolint:revive
func (m *MockShiftStore) GetShift(ctx context.Context, id string) (*storage.Shift, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Shift), args.Error(1)
}

//nolint:revive
func (m *MockShiftStore) ListShifts(ctx context.Context) ([]*storage.Shift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Shift), args.Error(1)
}

//nolint:revive
func (m *MockShiftStore) AddSignup(ctx context.Context, shiftID, userID string, at time.Time) error {
	args := m.Called(ctx, shiftID, userID, at)
	return args.Error(0)
}

//nolint:revive
func (m *MockShiftStore) RemoveSignup(ctx context.Context, shiftID, userID string) (bool, error) {
	args := m.Called(ctx, shiftID, userID)
	return args.Bool(0), args.Error(1)
}
