package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func TestBuildSMTPMessage(t *testing.T) {
	env := Envelope{
		From:    "noreply@crew.example",
		To:      Addresses("jane@x.com"),
		Cc:      Addresses("a1@x.com", "a2@x.com"),
		Subject: "Your Crew Shift Details",
		Body:    Body{Kind: BodyText, Content: "Hey Jane"},
	}

	m, err := buildSMTPMessage(env)
	require.NoError(t, err)
	assert.Equal(t, []string{"<jane@x.com>"}, m.GetToString())
	assert.Equal(t, []string{"<a1@x.com>", "<a2@x.com>"}, m.GetCcString())
	assert.Equal(t, []string{"Your Crew Shift Details"}, m.GetGenHeader(mail.HeaderSubject))
	assert.NotEmpty(t, m.GetMessageID())
}

func TestBuildSMTPMessage_NoCc(t *testing.T) {
	m, err := buildSMTPMessage(Envelope{
		From: "noreply@crew.example",
		To:   Addresses("admin@x.com"),
		Body: Body{Kind: BodyHTML, Content: "<p>hi</p>"},
	})
	require.NoError(t, err)
	assert.Empty(t, m.GetCcString())
}

func TestBuildSMTPMessage_InvalidAddresses(t *testing.T) {
	_, err := buildSMTPMessage(Envelope{From: "not an address", To: Addresses("a@x.com")})
	assert.ErrorContains(t, err, "from")

	_, err = buildSMTPMessage(Envelope{From: "noreply@crew.example", To: Addresses("@@")})
	assert.ErrorContains(t, err, "recipient")

	_, err = buildSMTPMessage(Envelope{From: "noreply@crew.example", To: Addresses("a@x.com"), Cc: Addresses("@@")})
	assert.ErrorContains(t, err, "cc")
}

func TestClassifySendError(t *testing.T) {
	rcptErr := &mail.SendError{Reason: mail.ErrSMTPRcptTo}

	err := classifySendError(fmt.Errorf("dial and send: %w", rcptErr))
	assert.ErrorContains(t, err, "recipients refused")
	var sendErr *mail.SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, mail.ErrSMTPRcptTo, sendErr.Reason)

	dataErr := &mail.SendError{Reason: mail.ErrSMTPData}
	assert.Same(t, error(dataErr), classifySendError(dataErr))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, classifySendError(plain))
}

func TestSMTPTransport_SendFailureHasNoReceipt(t *testing.T) {
	// Port 1 on loopback refuses connections, so the send fails before any
	// recipient is accepted.
	tr, err := NewSMTPTransport(SMTPConfig{Host: "127.0.0.1", Port: 1, Encryption: "none"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rec, err := tr.Send(ctx, Envelope{
		From: "noreply@crew.example",
		To:   Addresses("jane@x.com"),
		Body: Body{Kind: BodyText, Content: "hi"},
	})
	require.Error(t, err)
	assert.Empty(t, rec.MessageID)
	assert.Empty(t, rec.Accepted)
	assert.Empty(t, rec.Rejected)
}

func TestTLSPolicyFromEncryption(t *testing.T) {
	assert.Equal(t, mail.TLSMandatory, tlsPolicyFromEncryption("ssl_tls"))
	assert.Equal(t, mail.TLSOpportunistic, tlsPolicyFromEncryption("starttls"))
	assert.Equal(t, mail.NoTLS, tlsPolicyFromEncryption("none"))
	assert.Equal(t, mail.NoTLS, tlsPolicyFromEncryption(""))
}

func TestNewTransport(t *testing.T) {
	tr, err := NewTransport(t.Context(), TransportConfig{Kind: TransportLog}, nil)
	require.NoError(t, err)
	assert.Equal(t, TransportLog, tr.Name())

	tr, err = NewTransport(t.Context(), TransportConfig{
		Kind: TransportSMTP,
		SMTP: SMTPConfig{Host: "localhost", Port: 2525, Encryption: "starttls"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, TransportSMTP, tr.Name())

	_, err = NewTransport(t.Context(), TransportConfig{Kind: "pigeon"}, nil)
	assert.ErrorContains(t, err, "pigeon")
}

func TestLogTransport(t *testing.T) {
	tr := NewLogTransport(nil)
	rec, err := tr.Send(t.Context(), Envelope{
		To: Addresses("a@x.com"), Cc: Addresses("b@x.com"), Subject: "s",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.MessageID)
	assert.Equal(t, AddressList{"a@x.com", "b@x.com"}, rec.Accepted)
	assert.Empty(t, rec.Rejected)
}
