package notification

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// TimeLayout renders shift times in notification bodies.
const TimeLayout = "Mon Jan 02 2006 15:04:05 MST"

// UserDirectory is the read-only view of users the dispatcher needs to
// resolve the admin broadcast list.
type UserDirectory interface {
	ListUsers(ctx context.Context, filter storage.UserFilter) ([]*storage.User, error)
}

// OTPIssuer creates and stores a fresh one-time password for an address.
type OTPIssuer interface {
	Issue(ctx context.Context, email string) (string, error)
}

// DispatcherConfig holds the process-wide values used when building mail.
type DispatcherConfig struct {
	From       string
	SiteName   string
	PublicHost string
	// Location is used to render shift times. Defaults to time.Local.
	Location *time.Location
	// HTML wraps every body in the branded HTML template.
	HTML bool
}

// Dispatcher builds notification envelopes and hands them to a Transport.
// It is safe for concurrent use.
type Dispatcher struct {
	cfg        DispatcherConfig
	transport  Transport
	directory  UserDirectory
	issuer     OTPIssuer
	logger     *slog.Logger
	metrics    *Metrics
	deliveries storage.NotificationStore
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for delivery outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithMetrics records delivery outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithDeliveryLog records every delivery attempt in store.
func WithDeliveryLog(store storage.NotificationStore) Option {
	return func(d *Dispatcher) { d.deliveries = store }
}

// NewDispatcher creates a Dispatcher. issuer may be nil when OTP emails are
// never sent through this instance.
func NewDispatcher(cfg DispatcherConfig, transport Transport, directory UserDirectory, issuer OTPIssuer, opts ...Option) *Dispatcher {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	cfg.PublicHost = strings.TrimRight(cfg.PublicHost, "/")
	d := &Dispatcher{
		cfg:       cfg,
		transport: transport,
		directory: directory,
		issuer:    issuer,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SendOTPEmail issues a login code for the recipient and mails it.
func (d *Dispatcher) SendOTPEmail(ctx context.Context, ev OTPRequested) (Result, error) {
	if d.issuer == nil {
		return Result{}, fmt.Errorf("no OTP issuer configured")
	}
	code, err := d.issuer.Issue(ctx, ev.RecipientEmail)
	if err != nil {
		return Result{}, fmt.Errorf("issuing OTP: %w", err)
	}

	subject := fmt.Sprintf("Your %s Login Code", d.cfg.SiteName)
	body := fmt.Sprintf("Hey %s,\n\nYour one-time login code is %s. It expires shortly, so use it soon.",
		ev.RecipientName, code)

	return d.sendEmail(ctx, KindOTP, subject, body, Addresses(ev.RecipientEmail), nil, d.cfg.HTML), nil
}

// SendSignedUpShiftEmail confirms a shift signup to the volunteer and copies
// all admins. An admin signing up is addressed once, in To.
func (d *Dispatcher) SendSignedUpShiftEmail(ctx context.Context, ev ShiftSignedUp) (Result, error) {
	admins, err := d.resolveAdminEmails(ctx)
	if err != nil {
		return Result{}, err
	}

	subject := fmt.Sprintf("Your %s Shift Details", d.cfg.SiteName)
	body := fmt.Sprintf("Hey %s,\n\nYou've signed up for the shift '%s' at %s from %s to %s. See you there!",
		ev.RecipientName, ev.ShiftName, ev.ShiftLocation, d.formatTime(ev.StartTime), d.formatTime(ev.EndTime))

	to := Addresses(ev.RecipientEmail)
	return d.sendEmail(ctx, KindShiftSignedUp, subject, body, to, admins.Without(to), d.cfg.HTML), nil
}

// SendCancelledShiftEmail confirms a shift cancellation to the volunteer and copies all admins.
func (d *Dispatcher) SendCancelledShiftEmail(ctx context.Context, ev ShiftCancelled) (Result, error) {
	admins, err := d.resolveAdminEmails(ctx)
	if err != nil {
		return Result{}, err
	}

	subject := fmt.Sprintf("Your %s Shift Cancellation", d.cfg.SiteName)
	body := fmt.Sprintf("Hey %s,\n\nYou've cancelled your shift '%s' at %s on %s. We hope to see you at another shift soon!",
		ev.RecipientName, ev.ShiftName, ev.ShiftLocation, d.formatTime(ev.StartTime))

	to := Addresses(ev.RecipientEmail)
	return d.sendEmail(ctx, KindShiftCancelled, subject, body, to, admins.Without(to), d.cfg.HTML), nil
}

// SendQualificationExpiryEmail tells the given admins that a user's
// qualification has expired.
func (d *Dispatcher) SendQualificationExpiryEmail(ctx context.Context, ev QualificationExpired) (Result, error) {
	subject := fmt.Sprintf("%s Qualification Expired: %s %s", d.cfg.SiteName, ev.FirstName, ev.LastName)
	body := fmt.Sprintf("Hello,\n\n%s %s's qualification '%s' has expired. "+
		"Please review their profile and follow up: %s",
		ev.FirstName, ev.LastName, ev.QualificationTitle, d.profileURL(ev.UserID))

	return d.sendEmail(ctx, KindQualificationExpired, subject, body, ev.Recipients, nil, d.cfg.HTML), nil
}

// SendVolunteerTypeApprovalEmail asks the given admins to approve a user's
// requested volunteer type.
func (d *Dispatcher) SendVolunteerTypeApprovalEmail(ctx context.Context, ev VolunteerTypeRequested) (Result, error) {
	subject := fmt.Sprintf("%s Volunteer Type Approval Request: %s %s", d.cfg.SiteName, ev.FirstName, ev.LastName)
	body := fmt.Sprintf("Hello,\n\n%s %s has requested to become a '%s' volunteer. "+
		"Please review their profile to approve or decline the request: %s",
		ev.FirstName, ev.LastName, ev.VolunteerType, d.profileURL(ev.UserID))

	return d.sendEmail(ctx, KindVolunteerTypeApproval, subject, body, ev.Recipients, nil, d.cfg.HTML), nil
}

// SendTestEmail sends a short message to verify transport settings.
func (d *Dispatcher) SendTestEmail(ctx context.Context, to AddressList) Result {
	subject := fmt.Sprintf("%s Test Notification", d.cfg.SiteName)
	body := fmt.Sprintf("This is a test notification from %s.\n\nYour mail transport (%s) is working correctly.",
		d.cfg.SiteName, d.transport.Name())
	return d.sendEmail(ctx, KindTest, subject, body, to, nil, d.cfg.HTML)
}

// sendEmail assembles the envelope and submits it. Transport errors are
// logged and reported in the Result, never returned.
func (d *Dispatcher) sendEmail(ctx context.Context, kind Kind, subject, content string, to, cc AddressList, html bool) Result {
	if to.Empty() {
		d.logger.Error("notification has no recipients", "kind", kind, "subject", subject)
		d.metrics.observe(kind, statusFailed, 0, 0)
		return Result{FailureReason: "no recipients"}
	}

	env := Envelope{
		From:    d.cfg.From,
		To:      to,
		Cc:      cc,
		Subject: subject,
		Body:    Body{Kind: BodyText, Content: content},
	}
	if html {
		rendered, err := buildEmailHTML(d.cfg.SiteName, subject, content)
		if err != nil {
			d.logger.Warn("rendering html body failed, sending plain text", "kind", kind, "error", err)
		} else {
			env.Body = Body{Kind: BodyHTML, Content: rendered}
		}
	}

	start := time.Now()
	receipt, err := d.transport.Send(ctx, env)
	elapsed := time.Since(start)

	res := Result{Delivered: err == nil, Rejected: receipt.Rejected}
	status := statusSent
	switch {
	case err != nil:
		status = statusFailed
		res.FailureReason = err.Error()
		d.logger.Error("sending notification failed",
			"kind", kind,
			"transport", d.transport.Name(),
			"to", to.String(),
			"error", err,
		)
	case len(receipt.Rejected) > 0:
		status = statusPartial
		d.logger.Warn("notification partially rejected",
			"kind", kind,
			"transport", d.transport.Name(),
			"accepted", receipt.Accepted.String(),
			"rejected", receipt.Rejected.String(),
		)
	default:
		d.logger.Info("notification sent",
			"kind", kind,
			"transport", d.transport.Name(),
			"message_id", receipt.MessageID,
		)
	}

	d.metrics.observe(kind, status, len(receipt.Rejected), elapsed)
	d.record(kind, env, status, res.FailureReason)
	return res
}

// record writes the attempt to the delivery log. Failures are only logged.
func (d *Dispatcher) record(kind Kind, env Envelope, status, errMsg string) {
	if d.deliveries == nil {
		return
	}
	recipients := env.To
	if !env.Cc.Empty() {
		recipients = append(append(AddressList{}, env.To...), env.Cc...)
	}
	entry := storage.NotificationLogEntry{
		Kind:       string(kind),
		Provider:   d.transport.Name(),
		Recipients: recipients.String(),
		Subject:    env.Subject,
		Status:     status,
		ErrorMsg:   errMsg,
		CreatedAt:  time.Now().UTC(),
	}
	// The caller's context may already be done once the send returned.
	if err := d.deliveries.LogNotification(context.Background(), entry); err != nil {
		d.logger.Warn("recording notification delivery failed", "kind", kind, "error", err)
	}
}

// resolveAdminEmails returns the addresses of every admin, in directory order.
func (d *Dispatcher) resolveAdminEmails(ctx context.Context) (AddressList, error) {
	return AdminEmails(ctx, d.directory)
}

func (d *Dispatcher) formatTime(t time.Time) string {
	return t.In(d.cfg.Location).Format(TimeLayout)
}

func (d *Dispatcher) profileURL(userID string) string {
	return d.cfg.PublicHost + "/profile/" + userID
}

// AdminEmails lists the email addresses of all admins in dir. No admins
// yields an empty, non-nil list.
func AdminEmails(ctx context.Context, dir UserDirectory) (AddressList, error) {
	isAdmin := true
	users, err := dir.ListUsers(ctx, storage.UserFilter{IsAdmin: &isAdmin})
	if err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	emails := make(AddressList, 0, len(users))
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		emails = append(emails, u.Email)
	}
	return emails, nil
}
