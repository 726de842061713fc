package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// MockQualificationStore is a mock implementation of storage.QualificationStore.
type MockQualificationStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockQualificationStore) AddQualification(ctx context.Context, q *storage.Qualification) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

//nolint:revive
func (m *MockQualificationStore) ListQualifications(ctx context.Context, userID string) ([]*storage.Qualification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Qualification), args.Error(1)
}

//nolint:revive
func (m *MockQualificationStore) ListExpiredUnnotified(ctx context.Context, now time.Time) ([]*storage.ExpiredQualification, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.ExpiredQualification), args.Error(1)
}

//nolint:revive
func (m *MockQualificationStore) MarkExpiryNotified(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
