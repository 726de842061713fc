package notification

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI is the subset of the SES v2 client used by SESTransport.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESTransport delivers mail through Amazon SES v2.
type SESTransport struct {
	client sesAPI
}

// NewSESTransport loads AWS configuration and creates an SES client.
func NewSESTransport(ctx context.Context, cfg SESConfig) (*SESTransport, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &SESTransport{client: sesv2.NewFromConfig(awsCfg)}, nil
}

// Name returns the transport identifier.
func (t *SESTransport) Name() string { return TransportSES }

// Send delivers env with a single SendEmail call.
func (t *SESTransport) Send(ctx context.Context, env Envelope) (Receipt, error) {
	content := &types.Content{Data: aws.String(env.Body.Content), Charset: aws.String("UTF-8")}
	body := &types.Body{}
	if env.Body.Kind == BodyHTML {
		body.Html = content
	} else {
		body.Text = content
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(env.From),
		Destination: &types.Destination{
			ToAddresses: env.To,
			CcAddresses: env.Cc,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(env.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	}

	out, err := t.client.SendEmail(ctx, input)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to send email via SES: %w", err)
	}
	return Receipt{
		MessageID: aws.ToString(out.MessageId),
		Accepted:  append(append(AddressList{}, env.To...), env.Cc...),
	}, nil
}
