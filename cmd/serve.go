package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/shaharia-lab/shiftcrew/internal/api"
	"github.com/shaharia-lab/shiftcrew/internal/build"
	"github.com/shaharia-lab/shiftcrew/internal/config"
	"github.com/shaharia-lab/shiftcrew/internal/eventbus"
	"github.com/shaharia-lab/shiftcrew/internal/logger"
	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/scheduler"
	"github.com/shaharia-lab/shiftcrew/internal/server"
	"github.com/shaharia-lab/shiftcrew/internal/service"
)

// NewServeCmd returns the "serve" subcommand that starts the HTTP server.
func NewServeCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		port    int
		origins []string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ShiftCrew API server",
		Long: `Start the HTTP API server, the notification worker pool and the
qualification expiry scheduler.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// CLI flags override env config.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			logFile := filepath.Join(cfg.LogDir(), "system.log")
			printBanner(build.Version, fmt.Sprintf("http://localhost:%d", cfg.Port), logFile, cfg.MailTransport)

			if err := runServe(cfg, origins, verbose); err != nil {
				fmt.Fprintf(os.Stderr, "An error occurred: %v\nPlease check the logs at: %s\n", err, logFile)
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", cfg.Port, "HTTP server port (overrides PORT env var)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed browser origin (repeatable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also write logs to stderr")
	return cmd
}

func runServe(cfg *config.AppConfig, origins []string, verbose bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var tee io.Writer
	if verbose {
		tee = os.Stderr
	}
	sysLogger, logCloser, err := logger.NewSystemLogger(cfg.LogDir(), cfg.SlogLevel(), tee)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	sysLogger.Info("shiftcrew starting",
		slog.Int("port", cfg.Port),
		slog.String("data_dir", cfg.DataDir),
		slog.String("mail_transport", cfg.MailTransport),
		slog.String("version", build.Version),
		slog.String("commit", build.CommitSHA),
		slog.String("build_date", build.BuildDate),
	)

	a, err := openApp(ctx, cfg, sysLogger, true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Shift emails are sent off the request path by the bus workers.
	bus := eventbus.New(eventbus.Options{Workers: 4, BufferSize: 256, Logger: sysLogger})
	bus.Subscribe(notification.NewHandler(a.dispatcher, sysLogger).Handle)
	defer bus.Close()

	authSvc := service.NewAuthService(a.users, a.dispatcher, a.otp, sysLogger)
	userSvc := service.NewUserService(a.users, a.dispatcher, sysLogger)
	shiftSvc := service.NewShiftService(a.shifts, a.users, bus, sysLogger)
	qualSvc := service.NewQualificationService(a.qualifications, a.users, a.dispatcher, sysLogger)
	notifSvc := service.NewNotificationService(a.dispatcher, a.deliveries)

	sched, err := scheduler.New(scheduler.Config{
		Scanner:        qualSvc,
		Purger:         a.otp,
		Logger:         sysLogger,
		Location:       cfg.Location(),
		ExpiryScanCron: cfg.QualificationScanCron,
	})
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			sysLogger.Warn("stopping scheduler", "error", err)
		}
	}()

	apiSrv := api.New(api.Services{
		Auth:           authSvc,
		Users:          userSvc,
		Shifts:         shiftSvc,
		Qualifications: qualSvc,
		Notifications:  notifSvc,
	}, sysLogger)
	srv := server.New(apiSrv, server.Options{
		Port:           cfg.Port,
		AllowedOrigins: origins,
		Gatherer:       a.registry,
	}, sysLogger)

	sysLogger.Info("server ready", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
	return srv.Run(ctx)
}

var (
	bannerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	bannerLabel = lipgloss.NewStyle().Faint(true).Width(11)
	bannerBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7D56F4")).Padding(0, 2)
)

// printBanner writes the startup banner to stdout. All structured logs go
// to the log file instead.
func printBanner(version, serverURL, logFile, transport string) {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, bannerLabel.Render(label), value)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		bannerTitle.Render("ShiftCrew "+version),
		"",
		row("API", serverURL+"/api"),
		row("Mail", transport),
		row("Logs", logFile),
	)
	fmt.Println(bannerBox.Render(body))
	fmt.Println()
}
