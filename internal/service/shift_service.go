package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shaharia-lab/shiftcrew/internal/eventbus"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// ShiftService defines the business logic for shifts and signups.
type ShiftService interface {
	CreateShift(ctx context.Context, shift *storage.Shift) (*storage.Shift, error)
	GetShift(ctx context.Context, id string) (*storage.Shift, error)
	ListShifts(ctx context.Context) ([]*storage.Shift, error)
	// SignUp adds the user to the shift and triggers the confirmation email.
	SignUp(ctx context.Context, shiftID, userID string) error
	// Cancel removes the user from the shift and triggers the cancellation email.
	Cancel(ctx context.Context, shiftID, userID string) error
}

type shiftService struct {
	shifts    storage.ShiftStore
	users     storage.UserStore
	publisher EventPublisher
	logger    *slog.Logger
}

// NewShiftService returns a new ShiftService. Signup events are published
// on publisher; the email is sent by whoever listens.
func NewShiftService(shifts storage.ShiftStore, users storage.UserStore, publisher EventPublisher, logger *slog.Logger) ShiftService {
	return &shiftService{shifts: shifts, users: users, publisher: publisher, logger: logger}
}

func (s *shiftService) CreateShift(ctx context.Context, shift *storage.Shift) (*storage.Shift, error) {
	if err := validateShift(shift); err != nil {
		return nil, err
	}
	shift.ID = uuid.NewString()
	shift.CreatedAt = time.Now().UTC()
	shift.SignupCount = 0

	if err := s.shifts.CreateShift(ctx, shift); err != nil {
		return nil, fmt.Errorf("creating shift: %w", err)
	}
	s.logger.Info("shift created", "shift_id", shift.ID, "name", shift.Name)
	return shift, nil
}

func (s *shiftService) GetShift(ctx context.Context, id string) (*storage.Shift, error) {
	shift, err := s.shifts.GetShift(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting shift %q: %w", id, err)
	}
	if shift == nil {
		return nil, &NotFoundError{Resource: "shift", ID: id}
	}
	return shift, nil
}

func (s *shiftService) ListShifts(ctx context.Context) ([]*storage.Shift, error) {
	shifts, err := s.shifts.ListShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	return shifts, nil
}

func (s *shiftService) SignUp(ctx context.Context, shiftID, userID string) error {
	shift, user, err := s.load(ctx, shiftID, userID)
	if err != nil {
		return err
	}
	if shift.Full() {
		return shiftFullError(shiftID)
	}

	// The store re-checks capacity atomically; the check above only saves a write.
	if err := s.shifts.AddSignup(ctx, shiftID, userID, time.Now().UTC()); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			return &ConflictError{Resource: "user", ID: userID, Reason: "already signed up for this shift"}
		case errors.Is(err, storage.ErrFull):
			return shiftFullError(shiftID)
		case errors.Is(err, storage.ErrNotFound):
			return &NotFoundError{Resource: "shift", ID: shiftID}
		}
		return fmt.Errorf("adding signup: %w", err)
	}

	s.logger.Info("shift signup", "shift_id", shiftID, "user_id", userID)
	s.publisher.Publish(eventbus.EventShiftSignedUp, shiftPayload(shift, user))
	return nil
}

func (s *shiftService) Cancel(ctx context.Context, shiftID, userID string) error {
	shift, user, err := s.load(ctx, shiftID, userID)
	if err != nil {
		return err
	}

	removed, err := s.shifts.RemoveSignup(ctx, shiftID, userID)
	if err != nil {
		return fmt.Errorf("removing signup: %w", err)
	}
	if !removed {
		return &NotFoundError{Resource: "signup", ID: userID}
	}

	s.logger.Info("shift cancellation", "shift_id", shiftID, "user_id", userID)
	s.publisher.Publish(eventbus.EventShiftCancelled, shiftPayload(shift, user))
	return nil
}

func (s *shiftService) load(ctx context.Context, shiftID, userID string) (*storage.Shift, *storage.User, error) {
	shift, err := s.GetShift(ctx, shiftID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("getting user %q: %w", userID, err)
	}
	if user == nil {
		return nil, nil, &NotFoundError{Resource: "user", ID: userID}
	}
	return shift, user, nil
}

func shiftFullError(shiftID string) error {
	return &ConflictError{Resource: "shift", ID: shiftID, Reason: "shift is full"}
}

func shiftPayload(shift *storage.Shift, user *storage.User) map[string]string {
	return map[string]string{
		eventbus.KeyShiftID:       shift.ID,
		eventbus.KeyShiftName:     shift.Name,
		eventbus.KeyShiftLocation: shift.Location,
		eventbus.KeyStartTime:     shift.StartTime.Format(time.RFC3339),
		eventbus.KeyEndTime:       shift.EndTime.Format(time.RFC3339),
		eventbus.KeyUserID:        user.ID,
		eventbus.KeyUserName:      user.FirstName,
		eventbus.KeyUserEmail:     user.Email,
	}
}

func validateShift(shift *storage.Shift) error {
	shift.Name = strings.TrimSpace(shift.Name)
	if shift.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if shift.StartTime.IsZero() || shift.EndTime.IsZero() {
		return &ValidationError{Field: "start_time", Message: "start and end time are required"}
	}
	if !shift.EndTime.After(shift.StartTime) {
		return &ValidationError{Field: "end_time", Message: "end time must be after start time"}
	}
	if shift.Capacity < 0 {
		return &ValidationError{Field: "capacity", Message: "capacity must not be negative"}
	}
	return nil
}
