package storage

import (
	"context"
	"time"
)

// Shift is a volunteer shift created by an administrator.
type Shift struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	// Capacity is the maximum number of signups; 0 means unlimited.
	Capacity    int       `json:"capacity"`
	SignupCount int       `json:"signup_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Full reports whether the shift has reached its capacity.
func (s *Shift) Full() bool {
	return s.Capacity > 0 && s.SignupCount >= s.Capacity
}

// ShiftStore defines the interface for persisting shifts and signups.
type ShiftStore interface {
	CreateShift(ctx context.Context, shift *Shift) error
	// GetShift returns the shift with id (with SignupCount filled), or nil.
	GetShift(ctx context.Context, id string) (*Shift, error)
	// ListShifts returns all shifts ordered by start time.
	ListShifts(ctx context.Context) ([]*Shift, error)
	// AddSignup records userID on shiftID. Capacity is enforced by the same
	// statement that inserts. Returns ErrConflict on a duplicate, ErrFull when
	// the shift has no free place and ErrNotFound when the shift is gone.
	AddSignup(ctx context.Context, shiftID, userID string, at time.Time) error
	// RemoveSignup deletes the signup and reports whether one existed.
	RemoveSignup(ctx context.Context, shiftID, userID string) (bool, error)
}
