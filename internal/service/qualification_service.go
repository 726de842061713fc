package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// QualificationService defines the business logic for qualifications.
type QualificationService interface {
	AddQualification(ctx context.Context, userID, title string, expiresAt time.Time) (*storage.Qualification, error)
	ListQualifications(ctx context.Context, userID string) ([]*storage.Qualification, error)
	// NotifyExpired emails all admins about every expired qualification not
	// reported yet and returns how many were reported.
	NotifyExpired(ctx context.Context) (int, error)
}

type qualificationService struct {
	quals    storage.QualificationStore
	users    storage.UserStore
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	// scanMu serializes expiry scans from the scheduler and the API.
	scanMu sync.Mutex
}

// NewQualificationService returns a new QualificationService.
func NewQualificationService(quals storage.QualificationStore, users storage.UserStore, notifier Notifier, logger *slog.Logger) QualificationService {
	return &qualificationService{quals: quals, users: users, notifier: notifier, logger: logger, now: time.Now}
}

func (s *qualificationService) AddQualification(ctx context.Context, userID, title string, expiresAt time.Time) (*storage.Qualification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	if expiresAt.IsZero() {
		return nil, &ValidationError{Field: "expires_at", Message: "expiry date is required"}
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", userID, err)
	}
	if u == nil {
		return nil, &NotFoundError{Resource: "user", ID: userID}
	}

	q := &storage.Qualification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: s.now().UTC(),
	}
	if err := s.quals.AddQualification(ctx, q); err != nil {
		return nil, fmt.Errorf("adding qualification: %w", err)
	}
	return q, nil
}

func (s *qualificationService) ListQualifications(ctx context.Context, userID string) ([]*storage.Qualification, error) {
	quals, err := s.quals.ListQualifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing qualifications: %w", err)
	}
	return quals, nil
}

func (s *qualificationService) NotifyExpired(ctx context.Context) (int, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	now := s.now()
	expired, err := s.quals.ListExpiredUnnotified(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("listing expired qualifications: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	admins, err := notification.AdminEmails(ctx, s.users)
	if err != nil {
		return 0, err
	}
	if admins.Empty() {
		// Leave them un-notified so they are reported once an admin exists.
		s.logger.Warn("expired qualifications found but no admins to notify", "count", len(expired))
		return 0, nil
	}

	notified := 0
	for _, q := range expired {
		res, err := s.notifier.SendQualificationExpiryEmail(ctx, notification.QualificationExpired{
			FirstName:          q.User.FirstName,
			LastName:           q.User.LastName,
			UserID:             q.User.ID,
			Recipients:         admins,
			QualificationTitle: q.Title,
		})
		if err != nil {
			return notified, err
		}
		if !res.Delivered {
			s.logger.Warn("qualification expiry not delivered, will retry on next scan",
				"qualification_id", q.ID, "reason", res.FailureReason)
			continue
		}
		if err := s.quals.MarkExpiryNotified(ctx, q.ID, now); err != nil {
			return notified, fmt.Errorf("marking qualification notified: %w", err)
		}
		notified++
	}
	s.logger.Info("expired qualifications reported", "found", len(expired), "notified", notified)
	return notified, nil
}
