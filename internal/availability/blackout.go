package availability

import "github.com/google/uuid"

// BlackoutPeriod is a span of days during which bookings are suppressed,
// either for one professional or for the whole organization. Rows are owned
// by the blackout management endpoints; the engine only reads them.
type BlackoutPeriod struct {
	ID    uuid.UUID `json:"id"`
	OrgID string    `json:"org_id"`

	// ProfessionalID is nil for organization-wide blackouts.
	ProfessionalID *int64 `json:"professional_id,omitempty"`

	// Inclusive calendar-date span the blackout is active on.
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`

	// HoursStart/HoursEnd are both nil for a full-day blackout and both set
	// for a partial-hours blackout covering that sub-range on each day.
	HoursStart *string `json:"hours_start,omitempty"`
	HoursEnd   *string `json:"hours_end,omitempty"`

	Title string `json:"title"`
}

// Organizational reports whether the blackout applies to every professional.
func (b BlackoutPeriod) Organizational() bool {
	return b.ProfessionalID == nil
}

// BlackoutAffectsSlot decides whether a blackout period blocks the candidate
// slot. Checks run in order and short-circuit: professional scope, date-range
// containment, then full-day or partial-hours coverage.
//
// A record with exactly one of HoursStart/HoursEnd set is treated as
// non-blocking. The write boundary rejects such records, so hitting this case
// means a malformed row slipped into storage; tolerating it keeps the read
// path total.
func BlackoutAffectsSlot(b BlackoutPeriod, slot CandidateSlot) bool {
	if b.ProfessionalID != nil && *b.ProfessionalID != slot.ProfessionalID {
		return false
	}

	date := NormalizeDate(slot.Date)
	if date < NormalizeDate(b.DateStart) || date > NormalizeDate(b.DateEnd) {
		return false
	}

	if b.HoursStart == nil && b.HoursEnd == nil {
		return true
	}
	if b.HoursStart != nil && b.HoursEnd != nil {
		return RangesOverlap(slot.Time.Start, slot.Time.End, *b.HoursStart, *b.HoursEnd)
	}
	return false
}
