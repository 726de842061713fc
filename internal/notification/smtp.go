package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wneessen/go-mail"
)

// SMTPTransport delivers mail via SMTP using the go-mail library.
type SMTPTransport struct {
	client *mail.Client
	// go-mail clients hold a single connection while sending.
	mu sync.Mutex
}

// NewSMTPTransport creates an SMTPTransport. No connection is made until
// the first Send.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(tlsPolicyFromEncryption(cfg.Encryption)),
	}
	if cfg.Encryption == "ssl_tls" {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return &SMTPTransport{client: c}, nil
}

// Name returns the transport identifier.
func (t *SMTPTransport) Name() string { return TransportSMTP }

// Send delivers env using the configured SMTP server.
func (t *SMTPTransport) Send(ctx context.Context, env Envelope) (Receipt, error) {
	m, err := buildSMTPMessage(env)
	if err != nil {
		return Receipt{}, err
	}

	t.mu.Lock()
	err = t.client.DialAndSendWithContext(ctx, m)
	t.mu.Unlock()

	if err != nil {
		return Receipt{}, classifySendError(err)
	}
	return Receipt{
		MessageID: m.GetMessageID(),
		Accepted:  append(append(AddressList{}, env.To...), env.Cc...),
	}, nil
}

// classifySendError tags RCPT TO refusals. go-mail aborts the whole message
// on the first refused recipient and does not expose which one, so the
// attempt is a failure with no per-recipient breakdown.
func classifySendError(err error) error {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) && sendErr.Reason == mail.ErrSMTPRcptTo {
		return fmt.Errorf("recipients refused: %w", err)
	}
	return err
}

// buildSMTPMessage converts an envelope to a go-mail message. Recipient
// lists cross this boundary in their comma-joined wire form.
func buildSMTPMessage(env Envelope) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(env.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.ToFromString(env.To.String()); err != nil {
		return nil, fmt.Errorf("invalid recipient list %q: %w", env.To.String(), err)
	}
	if !env.Cc.Empty() {
		if err := m.CcFromString(env.Cc.String()); err != nil {
			return nil, fmt.Errorf("invalid cc list %q: %w", env.Cc.String(), err)
		}
	}
	m.Subject(env.Subject)
	m.SetMessageID()

	switch env.Body.Kind {
	case BodyHTML:
		m.SetBodyString(mail.TypeTextHTML, env.Body.Content)
	default:
		m.SetBodyString(mail.TypeTextPlain, env.Body.Content)
	}
	return m, nil
}

// tlsPolicyFromEncryption converts the encryption string to a go-mail TLSPolicy.
func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	switch enc {
	case "ssl_tls":
		return mail.TLSMandatory
	case "starttls":
		return mail.TLSOpportunistic
	default:
		return mail.NoTLS
	}
}
