package eventbus

import "time"

// Event types published by the shift service.
const (
	EventShiftSignedUp  = "shift.signed_up"
	EventShiftCancelled = "shift.cancelled"
)

// Payload keys for shift events. Times are RFC 3339.
const (
	KeyShiftID       = "shift_id"
	KeyShiftName     = "shift_name"
	KeyShiftLocation = "shift_location"
	KeyStartTime     = "start_time"
	KeyEndTime       = "end_time"
	KeyUserID        = "user_id"
	KeyUserName      = "user_name"
	KeyUserEmail     = "user_email"
)

// Event represents an application event published to the bus.
type Event struct {
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   map[string]string `json:"payload"`
}

// Listener is a function that handles an event.
type Listener func(Event)
