package notification

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// resendAPI is the subset of the Resend emails service used by ResendTransport.
type resendAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendTransport delivers mail through the Resend HTTP API.
type ResendTransport struct {
	emails resendAPI
}

// NewResendTransport creates a ResendTransport for the given API key.
func NewResendTransport(cfg ResendConfig) (*ResendTransport, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("resend: api key is required")
	}
	return &ResendTransport{emails: resend.NewClient(cfg.APIKey).Emails}, nil
}

// Name returns the transport identifier.
func (t *ResendTransport) Name() string { return TransportResend }

// Send delivers env with a single API call.
func (t *ResendTransport) Send(ctx context.Context, env Envelope) (Receipt, error) {
	params := &resend.SendEmailRequest{
		From:    env.From,
		To:      env.To,
		Cc:      env.Cc,
		Subject: env.Subject,
	}
	if env.Body.Kind == BodyHTML {
		params.Html = env.Body.Content
	} else {
		params.Text = env.Body.Content
	}

	resp, err := t.emails.SendWithContext(ctx, params)
	if err != nil {
		return Receipt{}, fmt.Errorf("resend: failed to send email: %w", err)
	}
	return Receipt{
		MessageID: resp.Id,
		Accepted:  append(append(AddressList{}, env.To...), env.Cc...),
	}, nil
}
