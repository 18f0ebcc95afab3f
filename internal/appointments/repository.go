package appointments

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/agendly/agendly-platform/internal/availability"
)

// Repository defines the interface for appointment storage.
type Repository interface {
	Insert(ctx context.Context, a *availability.Appointment) error
	GetForOrg(ctx context.Context, orgID string, id uuid.UUID) (*availability.Appointment, error)

	// ListForProfessionalDate returns the appointments that can block a slot
	// for one professional on one date: cancelled and no-show rows are
	// filtered out. Used by the command path.
	ListForProfessionalDate(ctx context.Context, orgID string, professionalID int64, date string) ([]availability.Appointment, error)

	// ListInRange returns blocking appointments for the org across
	// [dateFrom, dateTo], all professionals. Used by the batch query path.
	ListInRange(ctx context.Context, orgID string, dateFrom, dateTo string) ([]availability.Appointment, error)

	UpdateSchedule(ctx context.Context, orgID string, id uuid.UUID, date string, slot availability.TimeRange) error
	UpdateStatus(ctx context.Context, orgID string, id uuid.UUID, status availability.AppointmentStatus) error
}

// InMemoryRepository is a map-backed Repository used by service and handler
// tests and local development.
type InMemoryRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]availability.Appointment
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		appointments: make(map[uuid.UUID]availability.Appointment),
	}
}

// Insert stores a new appointment.
func (r *InMemoryRepository) Insert(ctx context.Context, a *availability.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[a.ID] = *a
	return nil
}

// GetForOrg returns one appointment scoped to the org.
func (r *InMemoryRepository) GetForOrg(ctx context.Context, orgID string, id uuid.UUID) (*availability.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok || a.OrgID != orgID {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

// ListForProfessionalDate filters blocking appointments for the professional
// on the normalized date.
func (r *InMemoryRepository) ListForProfessionalDate(ctx context.Context, orgID string, professionalID int64, date string) ([]availability.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d := availability.NormalizeDate(date)
	var out []availability.Appointment
	for _, a := range r.appointments {
		if a.OrgID != orgID || a.ProfessionalID != professionalID {
			continue
		}
		if availability.NormalizeDate(a.Date) != d {
			continue
		}
		if !a.Status.Blocks() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// ListInRange filters blocking appointments across the date span.
func (r *InMemoryRepository) ListInRange(ctx context.Context, orgID string, dateFrom, dateTo string) ([]availability.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []availability.Appointment
	for _, a := range r.appointments {
		if a.OrgID != orgID || !a.Status.Blocks() {
			continue
		}
		d := availability.NormalizeDate(a.Date)
		if d < dateFrom || d > dateTo {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// UpdateSchedule moves an appointment to a new date and time range.
func (r *InMemoryRepository) UpdateSchedule(ctx context.Context, orgID string, id uuid.UUID, date string, slot availability.TimeRange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok || a.OrgID != orgID {
		return ErrAppointmentNotFound
	}
	a.Date = date
	a.Time = slot
	r.appointments[id] = a
	return nil
}

// UpdateStatus transitions an appointment's lifecycle state.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, orgID string, id uuid.UUID, status availability.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok || a.OrgID != orgID {
		return ErrAppointmentNotFound
	}
	a.Status = status
	r.appointments[id] = a
	return nil
}
