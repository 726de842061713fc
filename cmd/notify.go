package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/shiftcrew/internal/config"
	"github.com/shaharia-lab/shiftcrew/internal/logger"
	"github.com/shaharia-lab/shiftcrew/internal/notification"
)

// NewNotifyCmd returns the "notify" command group. Each subcommand sends one
// notification through the configured transport and prints the Result.
func NewNotifyCmd(cfg *config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a single notification through the configured transport",
	}
	cmd.AddCommand(
		newNotifyOTPCmd(cfg),
		newNotifySignupCmd(cfg),
		newNotifyCancelCmd(cfg),
		newNotifyQualificationCmd(cfg),
		newNotifyVolunteerTypeCmd(cfg),
		newNotifyTestCmd(cfg),
	)
	return cmd
}

// withDispatcher opens the app with mail enabled, runs fn and prints its Result.
func withDispatcher(cmd *cobra.Command, cfg *config.AppConfig, fn func(ctx context.Context, d *notification.Dispatcher) (notification.Result, error)) error {
	return withDispatcherAndDirectory(cmd, cfg, func(ctx context.Context, d *notification.Dispatcher, _ notification.UserDirectory) (notification.Result, error) {
		return fn(ctx, d)
	})
}

func newNotifyOTPCmd(cfg *config.AppConfig) *cobra.Command {
	var ev notification.OTPRequested
	cmd := &cobra.Command{
		Use:   "otp",
		Short: "Issue a login code and email it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDispatcher(cmd, cfg, func(ctx context.Context, d *notification.Dispatcher) (notification.Result, error) {
				return d.SendOTPEmail(ctx, ev)
			})
		},
	}
	cmd.Flags().StringVar(&ev.RecipientEmail, "email", "", "Recipient email address")
	cmd.Flags().StringVar(&ev.RecipientName, "name", "", "Recipient first name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

type shiftFlags struct {
	email, name, shift, location, start, end string
}

func (f *shiftFlags) bind(cmd *cobra.Command, withEnd bool) {
	cmd.Flags().StringVar(&f.email, "email", "", "Volunteer email address")
	cmd.Flags().StringVar(&f.name, "name", "", "Volunteer first name")
	cmd.Flags().StringVar(&f.shift, "shift", "", "Shift name")
	cmd.Flags().StringVar(&f.location, "location", "", "Shift location")
	cmd.Flags().StringVar(&f.start, "start", "", "Shift start time (RFC3339)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("start")
	if withEnd {
		cmd.Flags().StringVar(&f.end, "end", "", "Shift end time (RFC3339)")
		_ = cmd.MarkFlagRequired("end")
	}
}

func parseFlagTime(name, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}

func newNotifySignupCmd(cfg *config.AppConfig) *cobra.Command {
	var f shiftFlags
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Send a shift signup confirmation (admins copied)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseFlagTime("start", f.start)
			if err != nil {
				return err
			}
			end, err := parseFlagTime("end", f.end)
			if err != nil {
				return err
			}
			return withDispatcher(cmd, cfg, func(ctx context.Context, d *notification.Dispatcher) (notification.Result, error) {
				return d.SendSignedUpShiftEmail(ctx, notification.ShiftSignedUp{
					RecipientName:  f.name,
					RecipientEmail: f.email,
					ShiftName:      f.shift,
					ShiftLocation:  f.location,
					StartTime:      start,
					EndTime:        end,
				})
			})
		},
	}
	f.bind(cmd, true)
	return cmd
}

func newNotifyCancelCmd(cfg *config.AppConfig) *cobra.Command {
	var f shiftFlags
	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Send a shift cancellation confirmation (admins copied)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseFlagTime("start", f.start)
			if err != nil {
				return err
			}
			return withDispatcher(cmd, cfg, func(ctx context.Context, d *notification.Dispatcher) (notification.Result, error) {
				return d.SendCancelledShiftEmail(ctx, notification.ShiftCancelled{
					RecipientName:  f.name,
					RecipientEmail: f.email,
					ShiftName:      f.shift,
					ShiftLocation:  f.location,
					StartTime:      start,
				})
			})
		},
	}
	f.bind(cmd, false)
	return cmd
}

type adminRequestFlags struct {
	first, last, userID string
	to                  []string
}

func (f *adminRequestFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.first, "first-name", "", "Subject user's first name")
	cmd.Flags().StringVar(&f.last, "last-name", "", "Subject user's last name")
	cmd.Flags().StringVar(&f.userID, "user-id", "", "Subject user's ID, used in the profile link")
	cmd.Flags().StringSliceVar(&f.to, "to", nil, "Recipients (defaults to all admins)")
	_ = cmd.MarkFlagRequired("user-id")
}

// recipients returns --to when given, otherwise every admin in the directory.
func (f *adminRequestFlags) recipients(ctx context.Context, dir notification.UserDirectory) (notification.AddressList, error) {
	if len(f.to) > 0 {
		return notification.ParseAddressList(f.to...)
	}
	return notification.AdminEmails(ctx, dir)
}

func newNotifyQualificationCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		f     adminRequestFlags
		title string
	)
	cmd := &cobra.Command{
		Use:   "qualification",
		Short: "Tell admins that a user's qualification expired",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDispatcherAndDirectory(cmd, cfg, func(ctx context.Context, d *notification.Dispatcher, dir notification.UserDirectory) (notification.Result, error) {
				to, err := f.recipients(ctx, dir)
				if err != nil {
					return notification.Result{}, err
				}
				return d.SendQualificationExpiryEmail(ctx, notification.QualificationExpired{
					FirstName:          f.first,
					LastName:           f.last,
					UserID:             f.userID,
					Recipients:         to,
					QualificationTitle: title,
				})
			})
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&title, "title", "", "Qualification title")
	return cmd
}

func newNotifyVolunteerTypeCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		f     adminRequestFlags
		vType string
	)
	cmd := &cobra.Command{
		Use:   "volunteer-type",
		Short: "Ask admins to approve a requested volunteer type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDispatcherAndDirectory(cmd, cfg, func(ctx context.Context, d *notification.Dispatcher, dir notification.UserDirectory) (notification.Result, error) {
				to, err := f.recipients(ctx, dir)
				if err != nil {
					return notification.Result{}, err
				}
				return d.SendVolunteerTypeApprovalEmail(ctx, notification.VolunteerTypeRequested{
					FirstName:     f.first,
					LastName:      f.last,
					UserID:        f.userID,
					Recipients:    to,
					VolunteerType: vType,
				})
			})
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&vType, "type", "", "Requested volunteer type")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newNotifyTestCmd(cfg *config.AppConfig) *cobra.Command {
	var to []string
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send a test email to check transport settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := notification.ParseAddressList(to...)
			if err != nil {
				return err
			}
			return withDispatcher(cmd, cfg, func(ctx context.Context, d *notification.Dispatcher) (notification.Result, error) {
				return d.SendTestEmail(ctx, addrs), nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&to, "to", nil, "Recipient address (repeatable)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func withDispatcherAndDirectory(cmd *cobra.Command, cfg *config.AppConfig, fn func(ctx context.Context, d *notification.Dispatcher, dir notification.UserDirectory) (notification.Result, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.NewConsoleLogger(os.Stderr, cfg.SlogLevel())

	a, err := openApp(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res, err := fn(ctx, a.dispatcher, a.users)
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}

func printResult(cmd *cobra.Command, res notification.Result) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if !res.Delivered {
		return fmt.Errorf("notification not delivered: %s", res.FailureReason)
	}
	return nil
}
