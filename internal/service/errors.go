package service

import "fmt"

// NotFoundError is returned when a user, shift or signup does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ConflictError is returned when a write collides with existing state: a
// duplicate email, a repeated signup or a full shift. Reason, when set,
// replaces the generic "already exists" wording.
type ConflictError struct {
	Resource string
	ID       string
	Reason   string
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %q: %s", e.Resource, e.ID, e.Reason)
	}
	return fmt.Sprintf("%s %q already exists", e.Resource, e.ID)
}

// ValidationError is returned when request data fails validation. Field
// names use the JSON spelling so API clients can map them to inputs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
