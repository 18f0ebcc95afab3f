// Package reports exposes scheduling statistics for staff dashboards.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agendly/agendly-platform/internal/tenancy"
	"github.com/agendly/agendly-platform/pkg/logging"
)

// SchedulingStats aggregates an org's booking activity over a date span.
type SchedulingStats struct {
	OrgID              string `json:"org_id"`
	AppointmentsBooked int64  `json:"appointments_booked"`
	AppointmentsActive int64  `json:"appointments_active"`
	Cancellations      int64  `json:"cancellations"`
	NoShows            int64  `json:"no_shows"`
	BlackoutPeriods    int64  `json:"blackout_periods"`
	PeriodStart        string `json:"period_start"`
	PeriodEnd          string `json:"period_end"`
}

// statsDB defines the database interface needed by StatsRepository
type statsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StatsRepository queries scheduling metrics from the database.
type StatsRepository struct {
	db statsDB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	if pool == nil {
		panic("reports: pgx pool required for stats")
	}
	return &StatsRepository{db: pool}
}

// NewStatsRepositoryWithDB allows injecting a mock database for testing.
func NewStatsRepositoryWithDB(db statsDB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStats retrieves aggregated scheduling metrics for an org. Optional
// dateFrom/dateTo (YYYY-MM-DD) filter the span; empty strings mean all-time.
func (r *StatsRepository) GetStats(ctx context.Context, orgID, dateFrom, dateTo string) (*SchedulingStats, error) {
	stats := &SchedulingStats{OrgID: orgID}

	var dateFilter string
	args := []any{orgID}
	if dateFrom != "" && dateTo != "" {
		dateFilter = " AND date >= $2::date AND date <= $3::date"
		args = append(args, dateFrom, dateTo)
		stats.PeriodStart = dateFrom
		stats.PeriodEnd = dateTo
	} else {
		stats.PeriodStart = "all-time"
		stats.PeriodEnd = "now"
	}

	bookedQuery := `SELECT COUNT(*) FROM appointments WHERE org_id = $1` + dateFilter
	if err := r.db.QueryRow(ctx, bookedQuery, args...).Scan(&stats.AppointmentsBooked); err != nil {
		return nil, fmt.Errorf("reports: count booked: %w", err)
	}

	activeQuery := `SELECT COUNT(*) FROM appointments WHERE org_id = $1 AND status NOT IN ('cancelled', 'no_show')` + dateFilter
	if err := r.db.QueryRow(ctx, activeQuery, args...).Scan(&stats.AppointmentsActive); err != nil {
		return nil, fmt.Errorf("reports: count active: %w", err)
	}

	cancelledQuery := `SELECT COUNT(*) FROM appointments WHERE org_id = $1 AND status = 'cancelled'` + dateFilter
	if err := r.db.QueryRow(ctx, cancelledQuery, args...).Scan(&stats.Cancellations); err != nil {
		return nil, fmt.Errorf("reports: count cancelled: %w", err)
	}

	noShowQuery := `SELECT COUNT(*) FROM appointments WHERE org_id = $1 AND status = 'no_show'` + dateFilter
	if err := r.db.QueryRow(ctx, noShowQuery, args...).Scan(&stats.NoShows); err != nil {
		return nil, fmt.Errorf("reports: count no-shows: %w", err)
	}

	// Blackout spans intersecting the period; blackout rows have no single
	// date column so the span filter differs.
	blackoutQuery := `SELECT COUNT(*) FROM blackout_periods WHERE org_id = $1`
	blackoutArgs := []any{orgID}
	if dateFrom != "" && dateTo != "" {
		blackoutQuery += ` AND date_start <= $3::date AND date_end >= $2::date`
		blackoutArgs = append(blackoutArgs, dateFrom, dateTo)
	}
	if err := r.db.QueryRow(ctx, blackoutQuery, blackoutArgs...).Scan(&stats.BlackoutPeriods); err != nil {
		return nil, fmt.Errorf("reports: count blackouts: %w", err)
	}

	return stats, nil
}

// StatsHandler provides HTTP endpoints for scheduling statistics.
type StatsHandler struct {
	repo   *StatsRepository
	logger *logging.Logger
}

// NewStatsHandler creates a new stats HTTP handler.
func NewStatsHandler(repo *StatsRepository, logger *logging.Logger) *StatsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsHandler{
		repo:   repo,
		logger: logger,
	}
}

// GetStats returns aggregated scheduling metrics for the org.
// GET /staff/reports/stats
// Query params:
//   - from: YYYY-MM-DD period start (optional)
//   - to: YYYY-MM-DD period end (optional)
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	dateFrom := r.URL.Query().Get("from")
	dateTo := r.URL.Query().Get("to")
	if (dateFrom == "") != (dateTo == "") {
		http.Error(w, `{"error": "both from and to must be provided, or neither"}`, http.StatusBadRequest)
		return
	}
	for _, d := range []string{dateFrom, dateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			http.Error(w, `{"error": "dates must be YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
	}
	if dateFrom != "" && dateTo < dateFrom {
		http.Error(w, `{"error": "to must not precede from"}`, http.StatusBadRequest)
		return
	}

	stats, err := h.repo.GetStats(r.Context(), orgID, dateFrom, dateTo)
	if err != nil {
		h.logger.Error("failed to get scheduling stats", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Error("failed to encode scheduling stats", "org_id", orgID, "error", err)
	}
}
