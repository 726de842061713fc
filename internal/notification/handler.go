package notification

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shaharia-lab/shiftcrew/internal/eventbus"
)

// handleTimeout bounds one event's delivery, including admin resolution.
const handleTimeout = 30 * time.Second

// ShiftNotifier is the part of the Dispatcher used by Handler.
type ShiftNotifier interface {
	SendSignedUpShiftEmail(ctx context.Context, ev ShiftSignedUp) (Result, error)
	SendCancelledShiftEmail(ctx context.Context, ev ShiftCancelled) (Result, error)
}

// Handler receives shift events from the bus and sends the matching
// notification.
type Handler struct {
	notifier ShiftNotifier
	logger   *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(notifier ShiftNotifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{notifier: notifier, logger: logger}
}

// Handle processes one event. Unknown event types are ignored.
func (h *Handler) Handle(e eventbus.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	var (
		res Result
		err error
	)
	switch e.Type {
	case eventbus.EventShiftSignedUp:
		var ev ShiftSignedUp
		if ev, err = signedUpFromPayload(e.Payload); err == nil {
			res, err = h.notifier.SendSignedUpShiftEmail(ctx, ev)
		}
	case eventbus.EventShiftCancelled:
		var ev ShiftCancelled
		if ev, err = cancelledFromPayload(e.Payload); err == nil {
			res, err = h.notifier.SendCancelledShiftEmail(ctx, ev)
		}
	default:
		return
	}

	if err != nil {
		h.logger.Error("notification: handling event failed", "event", e.Type, "error", err)
		return
	}
	if !res.Delivered {
		h.logger.Warn("notification: not delivered", "event", e.Type, "reason", res.FailureReason)
	}
}

func signedUpFromPayload(p map[string]string) (ShiftSignedUp, error) {
	start, err := parsePayloadTime(p, eventbus.KeyStartTime)
	if err != nil {
		return ShiftSignedUp{}, err
	}
	end, err := parsePayloadTime(p, eventbus.KeyEndTime)
	if err != nil {
		return ShiftSignedUp{}, err
	}
	return ShiftSignedUp{
		RecipientName:  p[eventbus.KeyUserName],
		RecipientEmail: p[eventbus.KeyUserEmail],
		ShiftName:      p[eventbus.KeyShiftName],
		ShiftLocation:  p[eventbus.KeyShiftLocation],
		StartTime:      start,
		EndTime:        end,
	}, nil
}

func cancelledFromPayload(p map[string]string) (ShiftCancelled, error) {
	start, err := parsePayloadTime(p, eventbus.KeyStartTime)
	if err != nil {
		return ShiftCancelled{}, err
	}
	return ShiftCancelled{
		RecipientName:  p[eventbus.KeyUserName],
		RecipientEmail: p[eventbus.KeyUserEmail],
		ShiftName:      p[eventbus.KeyShiftName],
		ShiftLocation:  p[eventbus.KeyShiftLocation],
		StartTime:      start,
	}, nil
}

func parsePayloadTime(p map[string]string, key string) (time.Time, error) {
	raw, ok := p[key]
	if !ok {
		return time.Time{}, fmt.Errorf("payload missing %q", key)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w", key, err)
	}
	return t, nil
}
