package notification

import (
	"context"
	"fmt"
	"log/slog"
)

// Transport names accepted by NewTransport.
const (
	TransportSMTP   = "smtp"
	TransportSES    = "ses"
	TransportResend = "resend"
	TransportLog    = "log"
)

// SMTPConfig holds connection parameters for the SMTP transport.
type SMTPConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Encryption string `json:"encryption"` // "none", "starttls", "ssl_tls"
}

// SESConfig holds parameters for the Amazon SES v2 transport. Empty keys
// fall back to the default AWS credential chain.
type SESConfig struct {
	Region    string `json:"region"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// ResendConfig holds parameters for the Resend transport.
type ResendConfig struct {
	APIKey string `json:"api_key"`
}

// TransportConfig selects and configures one transport.
type TransportConfig struct {
	Kind   string
	SMTP   SMTPConfig
	SES    SESConfig
	Resend ResendConfig
}

// NewTransport builds the transport named by cfg.Kind. The result is meant
// to be created once at startup and shared.
func NewTransport(ctx context.Context, cfg TransportConfig, logger *slog.Logger) (Transport, error) {
	switch cfg.Kind {
	case TransportSMTP, "":
		return NewSMTPTransport(cfg.SMTP)
	case TransportSES:
		return NewSESTransport(ctx, cfg.SES)
	case TransportResend:
		return NewResendTransport(cfg.Resend)
	case TransportLog:
		return NewLogTransport(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Kind)
	}
}
