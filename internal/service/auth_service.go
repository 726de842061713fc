package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// AuthService handles passwordless login with emailed one-time codes.
type AuthService interface {
	// RequestLogin mails a fresh login code to a registered user.
	RequestLogin(ctx context.Context, email string) (notification.Result, error)
	// VerifyLogin checks the code and returns the user it belongs to.
	VerifyLogin(ctx context.Context, email, code string) (*storage.User, error)
}

type authService struct {
	users    storage.UserStore
	notifier Notifier
	verifier CodeVerifier
	logger   *slog.Logger
}

// NewAuthService returns a new AuthService.
func NewAuthService(users storage.UserStore, notifier Notifier, verifier CodeVerifier, logger *slog.Logger) AuthService {
	return &authService{users: users, notifier: notifier, verifier: verifier, logger: logger}
}

func (s *authService) RequestLogin(ctx context.Context, email string) (notification.Result, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return notification.Result{}, &ValidationError{Field: "email", Message: "email is required"}
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return notification.Result{}, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return notification.Result{}, &NotFoundError{Resource: "user", ID: email}
	}

	res, err := s.notifier.SendOTPEmail(ctx, notification.OTPRequested{
		RecipientName:  user.FirstName,
		RecipientEmail: user.Email,
	})
	if err != nil {
		return notification.Result{}, err
	}
	if !res.Delivered {
		s.logger.Warn("login code not delivered", "user_id", user.ID, "reason", res.FailureReason)
	}
	return res, nil
}

func (s *authService) VerifyLogin(ctx context.Context, email, code string) (*storage.User, error) {
	if strings.TrimSpace(code) == "" {
		return nil, &ValidationError{Field: "code", Message: "code is required"}
	}
	if err := s.verifier.Verify(ctx, email, code); err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, &NotFoundError{Resource: "user", ID: email}
	}
	return user, nil
}
