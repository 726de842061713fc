package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shaharia-lab/shiftcrew/internal/config"
	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/otp"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// app holds the components shared by serve and the one-shot commands.
type app struct {
	db             *sql.DB
	users          *storage.SQLiteUserStore
	shifts         *storage.SQLiteShiftStore
	qualifications *storage.SQLiteQualificationStore
	deliveries     *storage.SQLiteNotificationStore
	otp            *otp.Service
	dispatcher     *notification.Dispatcher
	registry       *prometheus.Registry
}

// openApp opens the database and builds the dispatcher on the configured
// transport. withMail=false skips the transport for commands that never send.
func openApp(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger, withMail bool) (*app, error) {
	db, created, err := storage.NewSQLiteDB(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if created {
		logger.Info("database created", "path", cfg.DBPath())
	}

	a := &app{
		db:             db,
		users:          storage.NewSQLiteUserStore(db),
		shifts:         storage.NewSQLiteShiftStore(db),
		qualifications: storage.NewSQLiteQualificationStore(db),
		deliveries:     storage.NewSQLiteNotificationStore(db),
		registry:       prometheus.NewRegistry(),
	}
	a.otp = otp.NewService(storage.NewSQLiteOTPStore(db), otp.Config{TTL: cfg.OTPTTL})

	if !withMail {
		return a, nil
	}

	if err := cfg.Validate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	transport, err := notification.NewTransport(ctx, cfg.TransportConfig(), logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating mail transport: %w", err)
	}
	a.dispatcher = notification.NewDispatcher(cfg.DispatcherConfig(), transport, a.users, a.otp,
		notification.WithLogger(logger),
		notification.WithMetrics(notification.NewMetrics(a.registry)),
		notification.WithDeliveryLog(a.deliveries),
	)
	logger.Info("mail transport ready", "transport", transport.Name())
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
