// Package notification builds and delivers the application's transactional
// emails: OTP login codes, shift signup and cancellation notices, and
// admin requests for qualification expiry and volunteer-type approval.
package notification

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// addressSeparator is the wire form used when an AddressList is flattened
// into a single header value.
const addressSeparator = ", "

// AddressList is an ordered list of email addresses.
type AddressList []string

// Addresses builds an AddressList from already-trusted addresses, dropping
// blank entries.
func Addresses(addrs ...string) AddressList {
	list := make(AddressList, 0, len(addrs))
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		list = append(list, a)
	}
	return list
}

// ParseAddressList validates every address and returns them in order.
// It fails on the first malformed entry or when no address is given.
func ParseAddressList(addrs ...string) (AddressList, error) {
	list := Addresses(addrs...)
	if len(list) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	for _, a := range list {
		if _, err := mail.ParseAddress(a); err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", a, err)
		}
	}
	return list, nil
}

// String returns the comma-joined wire form.
func (l AddressList) String() string {
	return strings.Join(l, addressSeparator)
}

// Empty reports whether the list has no addresses.
func (l AddressList) Empty() bool { return len(l) == 0 }

// Without returns the addresses of l that are not in other, preserving order.
func (l AddressList) Without(other AddressList) AddressList {
	if len(other) == 0 {
		return l
	}
	skip := make(map[string]struct{}, len(other))
	for _, a := range other {
		skip[strings.ToLower(a)] = struct{}{}
	}
	out := make(AddressList, 0, len(l))
	for _, a := range l {
		if _, ok := skip[strings.ToLower(a)]; ok {
			continue
		}
		out = append(out, a)
	}
	return out
}

// BodyKind tells the transport which content type to send.
type BodyKind string

// Body kinds.
const (
	BodyText BodyKind = "text"
	BodyHTML BodyKind = "html"
)

// Body is the message content. Exactly one representation is carried.
type Body struct {
	Kind    BodyKind
	Content string
}

// Envelope is the fully assembled message handed to a Transport.
type Envelope struct {
	From    string
	To      AddressList
	Cc      AddressList
	Subject string
	Body    Body
}

// Receipt is the delivery metadata reported by a Transport.
type Receipt struct {
	MessageID string
	Accepted  AddressList
	Rejected  AddressList
}

// Transport is the interface for mail delivery backends.
type Transport interface {
	// Name returns the transport identifier (e.g. "smtp").
	Name() string
	// Send delivers the envelope. A nil error with a non-empty
	// Receipt.Rejected means some recipients were refused.
	Send(ctx context.Context, env Envelope) (Receipt, error)
}

// Result is the outcome of a notification entry point. Delivery problems are
// reported here rather than as errors so the triggering operation never fails
// because of email.
type Result struct {
	Delivered     bool        `json:"delivered"`
	FailureReason string      `json:"failure_reason,omitempty"`
	Rejected      AddressList `json:"rejected,omitempty"`
}
