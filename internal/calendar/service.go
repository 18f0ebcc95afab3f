// Package calendar is the read path for slot availability: it classifies
// many candidate slots against two aggregate fetches instead of issuing
// per-slot queries. Unavailability is data here, never an error, and the
// verdicts match what the booking write path would decide for the same
// records.
package calendar

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agendly/agendly-platform/internal/availability"
	"github.com/agendly/agendly-platform/internal/observability/metrics"
	"github.com/agendly/agendly-platform/pkg/logging"
)

var calendarTracer = otel.Tracer("agendly.internal.calendar")

// BlackoutSource supplies every blackout intersecting a date span for an org.
type BlackoutSource interface {
	ActiveInRange(ctx context.Context, orgID string, dateFrom, dateTo string) ([]availability.BlackoutPeriod, error)
}

// AppointmentSource supplies every blocking appointment in a date span for
// an org.
type AppointmentSource interface {
	ListInRange(ctx context.Context, orgID string, dateFrom, dateTo string) ([]availability.Appointment, error)
}

// SlotStatus is the per-slot classification the read path returns.
type SlotStatus struct {
	Slot      availability.CandidateSlot `json:"slot"`
	Available bool                       `json:"available"`
	Reason    string                     `json:"reason,omitempty"`
}

// DayGrid is one professional's day carved into fixed-duration slots.
type DayGrid struct {
	OrgID          string       `json:"org_id"`
	ProfessionalID int64        `json:"professional_id"`
	Date           string       `json:"date"`
	Slots          []SlotStatus `json:"slots"`
}

// Service classifies candidate slots against aggregate reads.
type Service struct {
	blackouts    BlackoutSource
	appointments AppointmentSource
	cache        *GridCache
	metrics      *metrics.SchedulingMetrics
	logger       *logging.Logger

	slotMinutes int
	dayOpen     string
	dayClose    string
}

// NewService constructs a calendar service. cache and metrics may be nil.
func NewService(blackouts BlackoutSource, appointments AppointmentSource, cache *GridCache, m *metrics.SchedulingMetrics, logger *logging.Logger, slotMinutes int, dayOpen, dayClose string) *Service {
	if blackouts == nil || appointments == nil {
		panic("calendar: blackout and appointment sources required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if slotMinutes <= 0 {
		slotMinutes = 30
	}
	return &Service{
		blackouts:    blackouts,
		appointments: appointments,
		cache:        cache,
		metrics:      m,
		logger:       logger,
		slotMinutes:  slotMinutes,
		dayOpen:      dayOpen,
		dayClose:     dayClose,
	}
}

// CheckSlots classifies the given candidate slots. Two aggregate fetches
// cover the whole span regardless of slot count; each slot is then resolved
// in memory. Reasons are rendered at the caller's disclosure level.
func (s *Service) CheckSlots(ctx context.Context, orgID string, slots []availability.CandidateSlot, level availability.DisclosureLevel) ([]SlotStatus, error) {
	ctx, span := calendarTracer.Start(ctx, "calendar.check_slots")
	defer span.End()
	span.SetAttributes(
		attribute.String("agendly.org_id", orgID),
		attribute.Int("agendly.slot_count", len(slots)),
	)

	if len(slots) == 0 {
		return []SlotStatus{}, nil
	}

	dateFrom, dateTo := dateSpan(slots)
	started := time.Now()

	blks, err := s.blackouts.ActiveInRange(ctx, orgID, dateFrom, dateTo)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("calendar: blackout fetch failed: %w", err)
	}
	appts, err := s.appointments.ListInRange(ctx, orgID, dateFrom, dateTo)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("calendar: appointment fetch failed: %w", err)
	}

	out := make([]SlotStatus, len(slots))
	for i, slot := range slots {
		out[i] = Classify(slot, blks, appts, level)
		s.metrics.ObserveCheck("query", out[i].Available)
	}
	s.metrics.ObserveBatchLatency("store", time.Since(started).Seconds())
	return out, nil
}

// DayGrid carves one professional's day into fixed slots and classifies each
// one. Basic-level grids are served from cache when available; grids at
// higher disclosure levels are always computed fresh.
func (s *Service) DayGrid(ctx context.Context, orgID string, professionalID int64, date string, level availability.DisclosureLevel) (*DayGrid, error) {
	ctx, span := calendarTracer.Start(ctx, "calendar.day_grid")
	defer span.End()

	date = availability.NormalizeDate(date)

	if level == availability.DisclosureBasic {
		started := time.Now()
		if grid, ok := s.cache.Get(ctx, orgID, professionalID, date); ok {
			s.metrics.ObserveBatchLatency("cache", time.Since(started).Seconds())
			return grid, nil
		}
	}

	slots := make([]availability.CandidateSlot, 0, 16)
	for _, tr := range gridTimes(s.dayOpen, s.dayClose, s.slotMinutes) {
		slots = append(slots, availability.CandidateSlot{
			ProfessionalID: professionalID,
			Date:           date,
			Time:           tr,
		})
	}

	statuses, err := s.CheckSlots(ctx, orgID, slots, level)
	if err != nil {
		return nil, err
	}

	grid := &DayGrid{
		OrgID:          orgID,
		ProfessionalID: professionalID,
		Date:           date,
		Slots:          statuses,
	}
	if level == availability.DisclosureBasic {
		s.cache.Put(ctx, grid)
	}
	return grid, nil
}

// Classify resolves one slot against in-memory record sets. Blackouts are
// checked before appointments, matching the write path's precedence, so the
// two paths report the same reason as well as the same verdict.
func Classify(slot availability.CandidateSlot, blks []availability.BlackoutPeriod, appts []availability.Appointment, level availability.DisclosureLevel) SlotStatus {
	for _, b := range blks {
		if availability.BlackoutAffectsSlot(b, slot) {
			return SlotStatus{
				Slot:      slot,
				Available: false,
				Reason:    availability.FormatBlackoutMessage(b, level),
			}
		}
	}
	for _, a := range appts {
		if availability.AppointmentBlocksSlot(a, slot) {
			return SlotStatus{
				Slot:      slot,
				Available: false,
				Reason:    availability.FormatAppointmentMessage(a, level),
			}
		}
	}
	return SlotStatus{Slot: slot, Available: true}
}

// dateSpan returns the min and max normalized dates across the slots.
func dateSpan(slots []availability.CandidateSlot) (string, string) {
	from := availability.NormalizeDate(slots[0].Date)
	to := from
	for _, s := range slots[1:] {
		d := availability.NormalizeDate(s.Date)
		if d < from {
			from = d
		}
		if d > to {
			to = d
		}
	}
	return from, to
}

// gridTimes builds consecutive half-open ranges of the given length between
// the opening and closing times. A trailing remainder shorter than one slot
// is dropped.
func gridTimes(open, close string, minutes int) []availability.TimeRange {
	start, err := time.Parse("15:04", open)
	if err != nil {
		return nil
	}
	end, err := time.Parse("15:04", close)
	if err != nil || !end.After(start) {
		return nil
	}

	step := time.Duration(minutes) * time.Minute
	var out []availability.TimeRange
	for cur := start; !cur.Add(step).After(end); cur = cur.Add(step) {
		out = append(out, availability.TimeRange{
			Start: cur.Format("15:04:05"),
			End:   cur.Add(step).Format("15:04:05"),
		})
	}
	return out
}
