package blackouts

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/agendly/agendly-platform/internal/availability"
)

// Repository defines the interface for blackout-period storage.
type Repository interface {
	Create(ctx context.Context, req *CreateBlackoutRequest) (*availability.BlackoutPeriod, error)
	ListForOrg(ctx context.Context, orgID string) ([]availability.BlackoutPeriod, error)
	Delete(ctx context.Context, orgID string, id uuid.UUID) error

	// ActiveFor returns blackouts active on date for one professional,
	// organization-wide blackouts included. Used by the command path.
	ActiveFor(ctx context.Context, orgID string, professionalID int64, date string) ([]availability.BlackoutPeriod, error)

	// ActiveInRange returns every blackout intersecting [dateFrom, dateTo]
	// for the org, regardless of professional. Used by the batch query path.
	ActiveInRange(ctx context.Context, orgID string, dateFrom, dateTo string) ([]availability.BlackoutPeriod, error)
}

// InMemoryRepository is a map-backed Repository used by handler tests and
// local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	periods map[uuid.UUID]availability.BlackoutPeriod
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		periods: make(map[uuid.UUID]availability.BlackoutPeriod),
	}
}

// Create validates and stores a new blackout period.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateBlackoutRequest) (*availability.BlackoutPeriod, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := availability.BlackoutPeriod{
		ID:             uuid.New(),
		OrgID:          req.OrgID,
		ProfessionalID: req.ProfessionalID,
		DateStart:      req.DateStart,
		DateEnd:        req.DateEnd,
		HoursStart:     req.HoursStart,
		HoursEnd:       req.HoursEnd,
		Title:          req.Title,
	}

	r.mu.Lock()
	r.periods[b.ID] = b
	r.mu.Unlock()

	return &b, nil
}

// ListForOrg returns all blackout periods for the org.
func (r *InMemoryRepository) ListForOrg(ctx context.Context, orgID string) ([]availability.BlackoutPeriod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []availability.BlackoutPeriod
	for _, b := range r.periods {
		if b.OrgID == orgID {
			out = append(out, b)
		}
	}
	return out, nil
}

// Delete removes a blackout period scoped to the org.
func (r *InMemoryRepository) Delete(ctx context.Context, orgID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.periods[id]
	if !ok || b.OrgID != orgID {
		return ErrBlackoutNotFound
	}
	delete(r.periods, id)
	return nil
}

// ActiveFor filters blackouts active on date for the professional.
func (r *InMemoryRepository) ActiveFor(ctx context.Context, orgID string, professionalID int64, date string) ([]availability.BlackoutPeriod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d := availability.NormalizeDate(date)
	var out []availability.BlackoutPeriod
	for _, b := range r.periods {
		if b.OrgID != orgID {
			continue
		}
		if b.ProfessionalID != nil && *b.ProfessionalID != professionalID {
			continue
		}
		if d < b.DateStart || d > b.DateEnd {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// ActiveInRange filters blackouts intersecting the date span.
func (r *InMemoryRepository) ActiveInRange(ctx context.Context, orgID string, dateFrom, dateTo string) ([]availability.BlackoutPeriod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []availability.BlackoutPeriod
	for _, b := range r.periods {
		if b.OrgID != orgID {
			continue
		}
		if b.DateStart > dateTo || b.DateEnd < dateFrom {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
