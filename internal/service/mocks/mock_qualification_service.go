package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// MockQualificationService is a mock implementation of service.QualificationService.
type MockQualificationService struct {
	mock.Mock
}

//nolint:revive
func (m *MockQualificationService) AddQualification(ctx context.Context, userID, title string, expiresAt time.Time) (*storage.Qualification, error) {
	args := m.Called(ctx, userID, title, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Qualification), args.Error(1)
}

//nolint:revive
func (m *MockQualificationService) ListQualifications(ctx context.Context, userID string) ([]*storage.Qualification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Qualification), args.Error(1)
}

//nolint:revive
func (m *MockQualificationService) NotifyExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
