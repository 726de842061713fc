package storage

import (
	"context"
	"strings"
	"time"
)

// User is a volunteer or administrator.
type User struct {
	ID            string    `json:"id" yaml:"id"`
	FirstName     string    `json:"first_name" yaml:"first_name"`
	LastName      string    `json:"last_name" yaml:"last_name"`
	Email         string    `json:"email" yaml:"email"`
	IsAdmin       bool      `json:"is_admin" yaml:"is_admin"`
	VolunteerType string    `json:"volunteer_type" yaml:"volunteer_type"`
	CreatedAt     time.Time `json:"created_at" yaml:"-"`
}

// FullName returns the first and last name joined by a space.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserFilter narrows ListUsers. Nil fields match everything.
type UserFilter struct {
	IsAdmin *bool
}

// Volunteer type request statuses.
const (
	RequestStatusPending = "pending"
)

// VolunteerTypeRequest records a user's request to change volunteer type.
type VolunteerTypeRequest struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	VolunteerType string    `json:"volunteer_type"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserStore defines the interface for persisting users.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, u *User) error
	// GetUser returns the user with id, or nil if none exists.
	GetUser(ctx context.Context, id string) (*User, error)
	// GetUserByEmail returns the user with email (case-insensitive), or nil.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// ListUsers returns matching users in insertion order.
	ListUsers(ctx context.Context, filter UserFilter) ([]*User, error)
	// CreateVolunteerTypeRequest stores a pending volunteer type request.
	CreateVolunteerTypeRequest(ctx context.Context, req *VolunteerTypeRequest) error
}
