package appointments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agendly/agendly-platform/internal/availability"
	"github.com/agendly/agendly-platform/internal/observability/metrics"
	"github.com/agendly/agendly-platform/pkg/logging"
)

var appointmentsTracer = otel.Tracer("agendly.internal.appointments")

// BlackoutSource supplies the blackout periods active for one professional on
// one date, organization-wide rows included.
type BlackoutSource interface {
	ActiveFor(ctx context.Context, orgID string, professionalID int64, date string) ([]availability.BlackoutPeriod, error)
}

// CacheInvalidator drops cached calendar grids after a mutation. A nil
// invalidator disables cache coordination.
type CacheInvalidator interface {
	InvalidateDay(ctx context.Context, orgID, date string) error
}

// Service is the write path for appointments: it validates a candidate slot
// against freshly-read blackouts and appointments, then mutates storage.
// Validation and insert are not atomic, so the appointments table's exclusion
// constraint remains the backstop against concurrent double booking.
type Service struct {
	repo      Repository
	blackouts BlackoutSource
	metrics   *metrics.SchedulingMetrics
	cache     CacheInvalidator
	logger    *logging.Logger
}

// NewService constructs an appointments service. metrics and cache may be nil.
func NewService(repo Repository, blackouts BlackoutSource, m *metrics.SchedulingMetrics, cache CacheInvalidator, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if blackouts == nil {
		panic("appointments: blackout source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:      repo,
		blackouts: blackouts,
		metrics:   m,
		cache:     cache,
		logger:    logger,
	}
}

// ValidateSlot checks one candidate slot against fresh reads for its exact
// professional and date. It returns SlotUnavailableError on the first
// blocking record, with the staff-level reason, and nil when the slot is
// free. exclude names an appointment to skip, so a reschedule does not
// conflict with itself; pass uuid.Nil for new bookings.
func (s *Service) ValidateSlot(ctx context.Context, orgID string, slot availability.CandidateSlot, exclude uuid.UUID) error {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.validate_slot")
	defer span.End()
	span.SetAttributes(
		attribute.String("agendly.org_id", orgID),
		attribute.Int64("agendly.professional_id", slot.ProfessionalID),
		attribute.String("agendly.date", slot.Date),
	)

	blackouts, err := s.blackouts.ActiveFor(ctx, orgID, slot.ProfessionalID, slot.Date)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("appointments: blackout lookup failed: %w", err)
	}
	for _, b := range blackouts {
		if availability.BlackoutAffectsSlot(b, slot) {
			span.AddEvent("slot blocked", trace.WithAttributes(attribute.String("kind", "blackout")))
			s.metrics.ObserveCheck("command", false)
			s.metrics.ObserveConflict("blackout")
			return &SlotUnavailableError{Reason: availability.FormatBlackoutMessage(b, availability.DisclosureAdmin)}
		}
	}

	existing, err := s.repo.ListForProfessionalDate(ctx, orgID, slot.ProfessionalID, slot.Date)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("appointments: conflict lookup failed: %w", err)
	}
	for _, a := range existing {
		if a.ID == exclude {
			continue
		}
		if availability.AppointmentBlocksSlot(a, slot) {
			span.AddEvent("slot blocked", trace.WithAttributes(attribute.String("kind", "appointment")))
			s.metrics.ObserveCheck("command", false)
			s.metrics.ObserveConflict("appointment")
			return &SlotUnavailableError{Reason: availability.FormatAppointmentMessage(a, availability.DisclosureAdmin)}
		}
	}

	s.metrics.ObserveCheck("command", true)
	return nil
}

// Book validates the requested slot and inserts a pending appointment.
func (s *Service) Book(ctx context.Context, req *CreateAppointmentRequest) (*availability.Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.book")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	slot := req.Slot()
	if err := s.ValidateSlot(ctx, req.OrgID, slot, uuid.Nil); err != nil {
		return nil, err
	}

	appt := &availability.Appointment{
		ID:             uuid.New(),
		OrgID:          req.OrgID,
		ProfessionalID: slot.ProfessionalID,
		Date:           slot.Date,
		Time:           slot.Time,
		Status:         availability.StatusPending,
		Code:           newConfirmationCode(),
		CustomerName:   req.CustomerName,
	}
	if err := s.repo.Insert(ctx, appt); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.invalidateDay(ctx, req.OrgID, slot.Date)
	s.logger.Info("appointment booked",
		"org_id", req.OrgID,
		"appointment_id", appt.ID,
		"professional_id", slot.ProfessionalID,
		"date", slot.Date,
	)
	return appt, nil
}

// Get returns one appointment scoped to the org.
func (s *Service) Get(ctx context.Context, orgID string, id uuid.UUID) (*availability.Appointment, error) {
	return s.repo.GetForOrg(ctx, orgID, id)
}

// Reschedule moves an appointment to a new slot after validating it. The
// appointment's own row is excluded from conflict checks so a partial shift
// into its current range is allowed.
func (s *Service) Reschedule(ctx context.Context, orgID string, id uuid.UUID, req *RescheduleRequest) (*availability.Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.reschedule")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetForOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	slot := availability.CandidateSlot{
		ProfessionalID: current.ProfessionalID,
		Date:           availability.NormalizeDate(req.Date),
		Time: availability.TimeRange{
			Start: availability.NormalizeTime(req.StartTime),
			End:   availability.NormalizeTime(req.EndTime),
		},
	}
	if err := s.ValidateSlot(ctx, orgID, slot, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSchedule(ctx, orgID, id, slot.Date, slot.Time); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.invalidateDay(ctx, orgID, current.Date)
	s.invalidateDay(ctx, orgID, slot.Date)
	s.logger.Info("appointment rescheduled",
		"org_id", orgID,
		"appointment_id", id,
		"from_date", current.Date,
		"to_date", slot.Date,
	)

	current.Date = slot.Date
	current.Time = slot.Time
	return current, nil
}

// SetStatus transitions an appointment's lifecycle state. Moving to a
// non-blocking state frees the slot, so the cached day grid is dropped.
func (s *Service) SetStatus(ctx context.Context, orgID string, id uuid.UUID, status availability.AppointmentStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	current, err := s.repo.GetForOrg(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, orgID, id, status); err != nil {
		return err
	}

	s.invalidateDay(ctx, orgID, current.Date)
	s.logger.Info("appointment status changed",
		"org_id", orgID,
		"appointment_id", id,
		"status", status,
	)
	return nil
}

// Cancel marks an appointment cancelled, freeing its slot.
func (s *Service) Cancel(ctx context.Context, orgID string, id uuid.UUID) error {
	return s.SetStatus(ctx, orgID, id, availability.StatusCancelled)
}

func (s *Service) invalidateDay(ctx context.Context, orgID, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDay(ctx, orgID, date); err != nil {
		s.logger.Warn("calendar cache invalidation failed", "error", err, "org_id", orgID, "date", date)
	}
}
