package blackouts

import (
	"strings"
	"time"

	"github.com/agendly/agendly-platform/internal/availability"
)

// CreateBlackoutRequest is the request body for creating a blackout period.
type CreateBlackoutRequest struct {
	OrgID          string  `json:"-"`
	ProfessionalID *int64  `json:"professional_id,omitempty"`
	DateStart      string  `json:"date_start"`
	DateEnd        string  `json:"date_end"`
	HoursStart     *string `json:"hours_start,omitempty"`
	HoursEnd       *string `json:"hours_end,omitempty"`
	Title          string  `json:"title"`
}

// Validate rejects malformed blackout records before they reach storage.
// In particular a record with exactly one of HoursStart/HoursEnd set is
// refused here: the availability engine tolerates such rows by treating them
// as non-blocking, so letting them in would silently disable the blackout.
func (r *CreateBlackoutRequest) Validate() error {
	if strings.TrimSpace(r.OrgID) == "" {
		return ErrMissingOrgID
	}
	if !isCalendarDate(r.DateStart) || !isCalendarDate(r.DateEnd) {
		return ErrInvalidDateRange
	}
	if r.DateEnd < r.DateStart {
		return ErrInvalidDateRange
	}
	if (r.HoursStart == nil) != (r.HoursEnd == nil) {
		return ErrMixedHours
	}
	if r.HoursStart != nil {
		if !availability.IsValidTimeFormat(*r.HoursStart) || !availability.IsValidTimeFormat(*r.HoursEnd) {
			return ErrInvalidHours
		}
		if availability.NormalizeTime(*r.HoursEnd) <= availability.NormalizeTime(*r.HoursStart) {
			return ErrInvalidHours
		}
	}
	return nil
}

func isCalendarDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
