package notification

import "time"

// Kind identifies a notification type in logs, metrics and the delivery log.
type Kind string

// Notification kinds.
const (
	KindOTP                   Kind = "otp"
	KindShiftSignedUp         Kind = "shift_signed_up"
	KindShiftCancelled        Kind = "shift_cancelled"
	KindQualificationExpired  Kind = "qualification_expired"
	KindVolunteerTypeApproval Kind = "volunteer_type_approval"
	KindTest                  Kind = "test"
)

// OTPRequested asks for a login code to be mailed to a user.
type OTPRequested struct {
	RecipientName  string
	RecipientEmail string
}

// ShiftSignedUp confirms a volunteer's signup for a shift.
type ShiftSignedUp struct {
	RecipientName  string
	RecipientEmail string
	ShiftName      string
	ShiftLocation  string
	StartTime      time.Time
	EndTime        time.Time
}

// ShiftCancelled confirms a volunteer's cancellation of a shift.
type ShiftCancelled struct {
	RecipientName  string
	RecipientEmail string
	ShiftName      string
	ShiftLocation  string
	StartTime      time.Time
}

// QualificationExpired tells admins that a user's qualification lapsed.
// Recipients are the admins to notify, not the affected user.
type QualificationExpired struct {
	FirstName          string
	LastName           string
	UserID             string
	Recipients         AddressList
	QualificationTitle string
}

// VolunteerTypeRequested asks admins to approve a user's requested volunteer type.
type VolunteerTypeRequested struct {
	FirstName     string
	LastName      string
	UserID        string
	Recipients    AddressList
	VolunteerType string
}
