package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// UserService defines the business logic for users and their requests.
type UserService interface {
	CreateUser(ctx context.Context, u *storage.User) (*storage.User, error)
	GetUser(ctx context.Context, id string) (*storage.User, error)
	ListUsers(ctx context.Context) ([]*storage.User, error)
	// ImportUsers reads a YAML document with a top-level "users" list and
	// creates every user whose email is not yet registered.
	ImportUsers(ctx context.Context, r io.Reader) (ImportResult, error)
	// RequestVolunteerType records the request and asks all admins to approve it.
	RequestVolunteerType(ctx context.Context, userID, volunteerType string) (notification.Result, error)
}

// ImportResult summarizes an ImportUsers run.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type userImportFile struct {
	Users []*storage.User `yaml:"users"`
}

type userService struct {
	users    storage.UserStore
	notifier Notifier
	logger   *slog.Logger
}

// NewUserService returns a new UserService.
func NewUserService(users storage.UserStore, notifier Notifier, logger *slog.Logger) UserService {
	return &userService{users: users, notifier: notifier, logger: logger}
}

func (s *userService) CreateUser(ctx context.Context, u *storage.User) (*storage.User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, &ConflictError{Resource: "user", ID: u.Email}
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	s.logger.Info("user created", "user_id", u.ID, "is_admin", u.IsAdmin)
	return u, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*storage.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", id, err)
	}
	if u == nil {
		return nil, &NotFoundError{Resource: "user", ID: id}
	}
	return u, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*storage.User, error) {
	users, err := s.users.ListUsers(ctx, storage.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (s *userService) ImportUsers(ctx context.Context, r io.Reader) (ImportResult, error) {
	var file userImportFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return ImportResult{}, &ValidationError{Message: fmt.Sprintf("parsing users file: %v", err)}
	}

	var res ImportResult
	for i, u := range file.Users {
		if u == nil {
			continue
		}
		if err := validateUser(u); err != nil {
			return res, fmt.Errorf("user #%d: %w", i+1, err)
		}
		_, err := s.CreateUser(ctx, u)
		var conflict *ConflictError
		switch {
		case errors.As(err, &conflict):
			res.Skipped++
		case err != nil:
			return res, err
		default:
			res.Created++
		}
	}
	return res, nil
}

func (s *userService) RequestVolunteerType(ctx context.Context, userID, volunteerType string) (notification.Result, error) {
	volunteerType = strings.TrimSpace(volunteerType)
	if volunteerType == "" {
		return notification.Result{}, &ValidationError{Field: "volunteer_type", Message: "volunteer type is required"}
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return notification.Result{}, err
	}

	req := &storage.VolunteerTypeRequest{
		ID:            uuid.NewString(),
		UserID:        u.ID,
		VolunteerType: volunteerType,
		Status:        storage.RequestStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.users.CreateVolunteerTypeRequest(ctx, req); err != nil {
		return notification.Result{}, fmt.Errorf("saving volunteer type request: %w", err)
	}

	admins, err := notification.AdminEmails(ctx, s.users)
	if err != nil {
		return notification.Result{}, err
	}
	return s.notifier.SendVolunteerTypeApprovalEmail(ctx, notification.VolunteerTypeRequested{
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		UserID:        u.ID,
		Recipients:    admins,
		VolunteerType: volunteerType,
	})
}

func validateUser(u *storage.User) error {
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Email = strings.TrimSpace(u.Email)
	if u.FirstName == "" {
		return &ValidationError{Field: "first_name", Message: "first name is required"}
	}
	if u.Email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return &ValidationError{Field: "email", Message: "email is not a valid address"}
	}
	return nil
}
