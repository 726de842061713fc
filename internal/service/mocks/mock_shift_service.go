package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// MockShiftService is a mock implementation of service.ShiftService.
type MockShiftService struct {
	mock.Mock
}

//nolint:revive
func (m *MockShiftService) CreateShift(ctx context.Context, shift *storage.Shift) (*storage.Shift, error) {
	args := m.Called(ctx, shift)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Shift), args.Error(1)
}

//nolint:revive
func (m *MockShiftService) GetShift(ctx context.Context, id string) (*storage.Shift, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Shift), args.Error(1)
}

//nolint:revive
func (m *MockShiftService) ListShifts(ctx context.Context) ([]*storage.Shift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Shift), args.Error(1)
}

//nolint:revive
func (m *MockShiftService) SignUp(ctx context.Context, shiftID, userID string) error {
	args := m.Called(ctx, shiftID, userID)
	return args.Error(0)
}

//nolint:revive
func (m *MockShiftService) Cancel(ctx context.Context, shiftID, userID string) error {
	args := m.Called(ctx, shiftID, userID)
	return args.Error(0)
}
