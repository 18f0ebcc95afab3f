// Package availability implements the appointment-slot availability engine:
// date/time normalization, half-open interval overlap, blackout-period
// resolution and appointment-conflict detection.
//
// Every function here is pure and safe for concurrent use. Records are
// supplied by callers (the booking service and the calendar service); this
// package performs no I/O and never blocks.
package availability

// TimeRange is a half-open interval [Start, End) within a single day.
// Times are "HH:MM" or "HH:MM:SS" strings; the engine normalizes them to
// "HH:MM:SS" before comparing.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CandidateSlot is the slot being tested for availability. It is a query
// parameter, never persisted.
type CandidateSlot struct {
	ProfessionalID int64     `json:"professional_id"`
	Date           string    `json:"date"` // YYYY-MM-DD
	Time           TimeRange `json:"time"`
}
