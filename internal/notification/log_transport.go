package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogTransport writes envelopes to the logger instead of sending them.
// It is meant for local development.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport creates a LogTransport.
func NewLogTransport(logger *slog.Logger) *LogTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTransport{logger: logger}
}

// Name returns the transport identifier.
func (t *LogTransport) Name() string { return TransportLog }

// Send logs env and reports every recipient as accepted.
func (t *LogTransport) Send(_ context.Context, env Envelope) (Receipt, error) {
	id := uuid.NewString()
	t.logger.Info("mail (log transport)",
		"message_id", id,
		"from", env.From,
		"to", env.To.String(),
		"cc", env.Cc.String(),
		"subject", env.Subject,
		"body_kind", string(env.Body.Kind),
		"body", env.Body.Content,
	)
	return Receipt{
		MessageID: id,
		Accepted:  append(append(AddressList{}, env.To...), env.Cc...),
	}, nil
}
