package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
)

// AppConfig holds all application-level configuration loaded from environment variables.
type AppConfig struct {
	// Port is the HTTP server port. Defaults to 8990.
	Port int `envconfig:"PORT" default:"8990"`

	// DataDir is the root data directory. Defaults to ~/.shiftcrew.
	DataDir string `envconfig:"SHIFTCREW_DATA_DIR"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// MailTransport selects how email leaves the process: smtp, ses, resend or log.
	MailTransport string `envconfig:"MAIL_TRANSPORT" default:"smtp"`

	// MailFrom is the sender address on every notification.
	MailFrom string `envconfig:"MAIL_FROM"`

	// MailHTML wraps notification bodies in the branded HTML template.
	MailHTML bool `envconfig:"MAIL_HTML" default:"false"`

	// SiteName appears in every subject line.
	SiteName string `envconfig:"SITE_NAME" default:"ShiftCrew"`

	// PublicHost is the base URL used for profile links, e.g. https://crew.example.org.
	PublicHost string `envconfig:"PUBLIC_HOST" default:"http://localhost:8990"`

	// SiteTimezone is the IANA zone shift times are rendered in.
	SiteTimezone string `envconfig:"SITE_TIMEZONE" default:"UTC"`

	SMTPHost       string `envconfig:"SMTP_HOST"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername   string `envconfig:"SMTP_USERNAME"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	SMTPEncryption string `envconfig:"SMTP_ENCRYPTION" default:"starttls"`

	// AWS settings for the ses transport. Empty keys use the default credential chain.
	AWSRegion          string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`

	ResendAPIKey string `envconfig:"RESEND_API_KEY"`

	// OTPTTL is how long an emailed login code stays valid.
	OTPTTL time.Duration `envconfig:"OTP_TTL" default:"10m"`

	// QualificationScanCron is the cron expression for the expiry scan.
	QualificationScanCron string `envconfig:"QUALIFICATION_SCAN_CRON" default:"0 7 * * *"`
}

// Load reads AppConfig from environment variables using envconfig.
// DataDir defaults to ~/.shiftcrew if not set.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".shiftcrew")
	}
	c.MailTransport = strings.ToLower(strings.TrimSpace(c.MailTransport))
	return &c, nil
}

// Validate checks the mail settings that would otherwise fail on first send.
// Commands that never send mail skip it.
func (c *AppConfig) Validate() error {
	if _, err := time.LoadLocation(c.SiteTimezone); err != nil {
		return fmt.Errorf("invalid SITE_TIMEZONE %q: %w", c.SiteTimezone, err)
	}
	switch c.MailTransport {
	case notification.TransportSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required for the smtp transport")
		}
	case notification.TransportResend:
		if c.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required for the resend transport")
		}
	case notification.TransportSES, notification.TransportLog:
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.MailTransport)
	}
	if c.MailTransport != notification.TransportLog && c.MailFrom == "" {
		return fmt.Errorf("MAIL_FROM is required")
	}
	return nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Location returns the site time zone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.SiteTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogDir returns the path to the log directory (~/.shiftcrew/logs).
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DBPath returns the path to the SQLite database file.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.DataDir, "shiftcrew.db")
}

// TransportConfig returns the mail transport settings.
func (c *AppConfig) TransportConfig() notification.TransportConfig {
	return notification.TransportConfig{
		Kind: c.MailTransport,
		SMTP: notification.SMTPConfig{
			Host:       c.SMTPHost,
			Port:       c.SMTPPort,
			Username:   c.SMTPUsername,
			Password:   c.SMTPPassword,
			Encryption: c.SMTPEncryption,
		},
		SES: notification.SESConfig{
			Region:    c.AWSRegion,
			AccessKey: c.AWSAccessKeyID,
			SecretKey: c.AWSSecretAccessKey,
		},
		Resend: notification.ResendConfig{APIKey: c.ResendAPIKey},
	}
}

// DispatcherConfig returns the settings used to build notifications.
func (c *AppConfig) DispatcherConfig() notification.DispatcherConfig {
	return notification.DispatcherConfig{
		From:       c.MailFrom,
		SiteName:   c.SiteName,
		PublicHost: c.PublicHost,
		Location:   c.Location(),
		HTML:       c.MailHTML,
	}
}
