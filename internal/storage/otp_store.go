package storage

import (
	"context"
	"time"
)

// OTPRecord is the stored, hashed form of an outstanding login code.
type OTPRecord struct {
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
	CreatedAt time.Time
}

// OTPStore defines the interface for persisting login codes. There is at
// most one outstanding code per email.
type OTPStore interface {
	// SaveOTP stores rec, replacing any earlier code for the same email.
	SaveOTP(ctx context.Context, rec OTPRecord) error
	// GetOTP returns the outstanding code for email, or nil.
	GetOTP(ctx context.Context, email string) (*OTPRecord, error)
	// ReserveOTPAttempt counts one verification attempt for email if fewer
	// than max have been made, and reports whether the attempt was granted.
	// It returns false when no code is outstanding.
	ReserveOTPAttempt(ctx context.Context, email string, max int) (bool, error)
	// DeleteOTP removes the code for email. Deleting a missing code is not an error.
	DeleteOTP(ctx context.Context, email string) error
	// DeleteExpiredOTPs removes codes that expired at or before now and
	// returns how many were removed.
	DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error)
}
