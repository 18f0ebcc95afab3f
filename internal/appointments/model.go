package appointments

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/agendly/agendly-platform/internal/availability"
)

// CreateAppointmentRequest is the request body for booking an appointment.
type CreateAppointmentRequest struct {
	OrgID          string `json:"-"`
	ProfessionalID int64  `json:"professional_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	CustomerName   string `json:"customer_name"`
}

// Validate rejects malformed booking requests before any storage reads.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.OrgID) == "" {
		return ErrMissingOrgID
	}
	if r.ProfessionalID <= 0 {
		return ErrInvalidProfessional
	}
	if !isCalendarDate(availability.NormalizeDate(r.Date)) {
		return ErrInvalidDate
	}
	return validateTimes(r.StartTime, r.EndTime)
}

// Slot returns the candidate slot this request is asking for, with date and
// times normalized.
func (r *CreateAppointmentRequest) Slot() availability.CandidateSlot {
	return availability.CandidateSlot{
		ProfessionalID: r.ProfessionalID,
		Date:           availability.NormalizeDate(r.Date),
		Time: availability.TimeRange{
			Start: availability.NormalizeTime(r.StartTime),
			End:   availability.NormalizeTime(r.EndTime),
		},
	}
}

// RescheduleRequest is the request body for moving an existing appointment.
type RescheduleRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Validate rejects malformed reschedule requests.
func (r *RescheduleRequest) Validate() error {
	if !isCalendarDate(availability.NormalizeDate(r.Date)) {
		return ErrInvalidDate
	}
	return validateTimes(r.StartTime, r.EndTime)
}

func validateTimes(start, end string) error {
	if !availability.IsValidTimeFormat(start) || !availability.IsValidTimeFormat(end) {
		return ErrInvalidTimeRange
	}
	if availability.NormalizeTime(end) <= availability.NormalizeTime(start) {
		return ErrInvalidTimeRange
	}
	return nil
}

func isCalendarDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newConfirmationCode generates a short human-readable code like "APT-7KQ2MX"
// used on staff surfaces instead of the raw row id.
func newConfirmationCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read failing means the platform entropy source is broken;
		// fall back to a time-derived code rather than aborting the booking.
		return fmt.Sprintf("APT-%06d", time.Now().UnixNano()%1_000_000)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "APT-" + string(buf)
}
