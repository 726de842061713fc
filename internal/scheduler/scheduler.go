// Package scheduler runs the periodic maintenance jobs: the qualification
// expiry scan and the purge of expired login codes.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Job names.
const (
	JobQualificationExpiry = "qualification-expiry-scan"
	JobOTPPurge            = "otp-purge"
)

// DefaultExpiryScanCron runs the expiry scan every morning at 07:00.
const DefaultExpiryScanCron = "0 7 * * *"

const (
	defaultOTPPurgeInterval = time.Hour
	defaultJobTimeout       = 5 * time.Minute
)

// ExpiryScanner reports expired qualifications to the admins.
type ExpiryScanner interface {
	NotifyExpired(ctx context.Context) (int, error)
}

// OTPPurger deletes login codes that are past their expiry.
type OTPPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Config holds the scheduler configuration.
type Config struct {
	Scanner ExpiryScanner
	// Purger is optional. When nil the purge job is not scheduled.
	Purger OTPPurger
	Logger *slog.Logger
	// Location is the time zone cron expressions are evaluated in.
	Location         *time.Location
	ExpiryScanCron   string
	OTPPurgeInterval time.Duration
	JobTimeout       time.Duration
}

// Scheduler manages the maintenance jobs using gocron.
type Scheduler struct {
	cron   gocron.Scheduler
	cfg    Config
	jobs   map[string]uuid.UUID // job name → gocron job UUID
	mu     sync.Mutex
	logger *slog.Logger
}

// New creates a Scheduler and registers its jobs. Nothing runs until Start.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Scanner == nil {
		return nil, fmt.Errorf("scheduler: expiry scanner is required")
	}
	if cfg.ExpiryScanCron == "" {
		cfg.ExpiryScanCron = DefaultExpiryScanCron
	}
	if cfg.OTPPurgeInterval <= 0 {
		cfg.OTPPurgeInterval = defaultOTPPurgeInterval
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = defaultJobTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	cron, err := gocron.NewScheduler(gocron.WithLocation(cfg.Location))
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}

	s := &Scheduler{
		cron:   cron,
		cfg:    cfg,
		jobs:   make(map[string]uuid.UUID),
		logger: cfg.Logger,
	}

	if err := s.register(JobQualificationExpiry, gocron.CronJob(cfg.ExpiryScanCron, false), s.runExpiryScan); err != nil {
		_ = cron.Shutdown()
		return nil, err
	}
	if cfg.Purger != nil {
		if err := s.register(JobOTPPurge, gocron.DurationJob(cfg.OTPPurgeInterval), s.runOTPPurge); err != nil {
			_ = cron.Shutdown()
			return nil, err
		}
	}
	return s, nil
}

// Start starts the gocron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.jobs), "expiry_scan_cron", s.cfg.ExpiryScanCron)
}

// Stop shuts down the gocron scheduler, waiting for running jobs.
func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// register adds a job that never overlaps with itself.
func (s *Scheduler) register(name string, def gocron.JobDefinition, run func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.cron.NewJob(def,
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
			defer cancel()
			run(ctx)
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduling job %q: %w", name, err)
	}
	s.jobs[name] = job.ID()
	return nil
}

func (s *Scheduler) runExpiryScan(ctx context.Context) {
	start := time.Now()
	n, err := s.cfg.Scanner.NotifyExpired(ctx)
	if err != nil {
		s.logger.Error("qualification expiry scan failed", "error", err, "notified", n)
		return
	}
	s.logger.Info("qualification expiry scan finished", "notified", n, "duration", time.Since(start))
}

func (s *Scheduler) runOTPPurge(ctx context.Context) {
	n, err := s.cfg.Purger.PurgeExpired(ctx)
	if err != nil {
		s.logger.Error("otp purge failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("expired login codes purged", "count", n)
	}
}
