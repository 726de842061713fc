package service

import (
	"context"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
)

// EventPublisher is the interface for publishing application events.
// Services use this interface to emit events without depending on a concrete
// event bus implementation.
type EventPublisher interface {
	Publish(eventType string, payload map[string]string)
}

// Notifier is the part of notification.Dispatcher the services call directly.
type Notifier interface {
	SendOTPEmail(ctx context.Context, ev notification.OTPRequested) (notification.Result, error)
	SendQualificationExpiryEmail(ctx context.Context, ev notification.QualificationExpired) (notification.Result, error)
	SendVolunteerTypeApprovalEmail(ctx context.Context, ev notification.VolunteerTypeRequested) (notification.Result, error)
	SendTestEmail(ctx context.Context, to notification.AddressList) notification.Result
}

// CodeVerifier checks login codes.
type CodeVerifier interface {
	Verify(ctx context.Context, email, code string) error
}
