package storage

import (
	"context"
	"time"
)

// Qualification is a time-limited certification held by a user.
type Qualification struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Title            string     `json:"title"`
	ExpiresAt        time.Time  `json:"expires_at"`
	ExpiryNotifiedAt *time.Time `json:"expiry_notified_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ExpiredQualification pairs an expired qualification with its holder.
type ExpiredQualification struct {
	Qualification
	User User
}

// QualificationStore defines the interface for persisting qualifications.
type QualificationStore interface {
	AddQualification(ctx context.Context, q *Qualification) error
	// ListQualifications returns the user's qualifications ordered by expiry.
	ListQualifications(ctx context.Context, userID string) ([]*Qualification, error)
	// ListExpiredUnnotified returns qualifications that expired at or before
	// now and whose expiry has not been notified yet.
	ListExpiredUnnotified(ctx context.Context, now time.Time) ([]*ExpiredQualification, error)
	// MarkExpiryNotified stamps the qualification as notified.
	MarkExpiryNotified(ctx context.Context, id string, at time.Time) error
}
