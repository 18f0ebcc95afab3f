package appointments

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingOrgID is returned when the org context is absent
	ErrMissingOrgID = errors.New("org id is required")

	// ErrInvalidProfessional is returned for a non-positive professional id
	ErrInvalidProfessional = errors.New("professional id must be positive")

	// ErrInvalidDate is returned for a malformed appointment date
	ErrInvalidDate = errors.New("date must be a YYYY-MM-DD calendar date")

	// ErrInvalidTimeRange is returned for malformed or inverted slot times
	ErrInvalidTimeRange = errors.New("times must be HH:MM or HH:MM:SS with end after start")

	// ErrInvalidStatus is returned for an unknown appointment status
	ErrInvalidStatus = errors.New("unknown appointment status")

	// ErrAppointmentNotFound is returned when an appointment is not found
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// SlotUnavailableError reports that a candidate slot is blocked by an
// existing blackout period or appointment. Reason carries the staff-level
// formatted message and maps to a 409 at the HTTP boundary.
type SlotUnavailableError struct {
	Reason string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot unavailable: %s", e.Reason)
}
