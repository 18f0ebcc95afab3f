package availability

import "github.com/google/uuid"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Blocks reports whether an appointment in this status occupies its slot.
// Cancelled and no-show appointments free their time range.
func (s AppointmentStatus) Blocks() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Valid reports whether s is a known status value.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is a booked slot as the engine sees it. Rows are owned by the
// booking endpoints; Code and CustomerName exist only for disclosure-level
// message formatting.
type Appointment struct {
	ID             uuid.UUID         `json:"id"`
	OrgID          string            `json:"org_id"`
	ProfessionalID int64             `json:"professional_id"`
	Date           string            `json:"date"`
	Time           TimeRange         `json:"time"`
	Status         AppointmentStatus `json:"status"`
	Code           string            `json:"code"`
	CustomerName   string            `json:"customer_name"`
}

// AppointmentBlocksSlot decides whether an existing appointment blocks the
// candidate slot: same professional, same normalized date, a status that
// occupies the slot, and overlapping time ranges.
func AppointmentBlocksSlot(a Appointment, slot CandidateSlot) bool {
	if a.ProfessionalID != slot.ProfessionalID {
		return false
	}
	if NormalizeDate(a.Date) != NormalizeDate(slot.Date) {
		return false
	}
	if !a.Status.Blocks() {
		return false
	}
	return RangesOverlap(slot.Time.Start, slot.Time.End, a.Time.Start, a.Time.End)
}
