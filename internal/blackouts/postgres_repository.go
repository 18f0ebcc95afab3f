package blackouts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agendly/agendly-platform/internal/availability"
)

// db is the subset of pgxpool.Pool used by the repository; pgxmock satisfies
// it in tests.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores blackout periods in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("blackouts: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const blackoutColumns = `
	id, org_id, professional_id,
	to_char(date_start, 'YYYY-MM-DD'),
	to_char(date_end, 'YYYY-MM-DD'),
	to_char(hours_start, 'HH24:MI:SS'),
	to_char(hours_end, 'HH24:MI:SS'),
	title
`

// Create validates and inserts a new blackout period row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateBlackoutRequest) (*availability.BlackoutPeriod, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO blackout_periods (id, org_id, professional_id, date_start, date_end, hours_start, hours_end, title)
		VALUES ($1, $2, $3, $4::date, $5::date, $6::time, $7::time, $8)
	`
	if _, err := r.db.Exec(ctx, query,
		id,
		req.OrgID,
		req.ProfessionalID,
		req.DateStart,
		req.DateEnd,
		req.HoursStart,
		req.HoursEnd,
		req.Title,
	); err != nil {
		return nil, fmt.Errorf("blackouts: insert failed: %w", err)
	}

	return &availability.BlackoutPeriod{
		ID:             id,
		OrgID:          req.OrgID,
		ProfessionalID: req.ProfessionalID,
		DateStart:      req.DateStart,
		DateEnd:        req.DateEnd,
		HoursStart:     req.HoursStart,
		HoursEnd:       req.HoursEnd,
		Title:          req.Title,
	}, nil
}

// ListForOrg returns all blackout periods for the org, newest span first.
func (r *PostgresRepository) ListForOrg(ctx context.Context, orgID string) ([]availability.BlackoutPeriod, error) {
	query := `
		SELECT ` + blackoutColumns + `
		FROM blackout_periods
		WHERE org_id = $1
		ORDER BY date_start DESC
	`
	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("blackouts: list failed: %w", err)
	}
	defer rows.Close()
	return scanBlackouts(rows)
}

// Delete removes a blackout period scoped to the org.
func (r *PostgresRepository) Delete(ctx context.Context, orgID string, id uuid.UUID) error {
	query := `DELETE FROM blackout_periods WHERE id = $1 AND org_id = $2`
	ct, err := r.db.Exec(ctx, query, id, orgID)
	if err != nil {
		return fmt.Errorf("blackouts: delete failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrBlackoutNotFound
	}
	return nil
}

// ActiveFor returns blackouts active on date for one professional, including
// organization-wide rows.
func (r *PostgresRepository) ActiveFor(ctx context.Context, orgID string, professionalID int64, date string) ([]availability.BlackoutPeriod, error) {
	query := `
		SELECT ` + blackoutColumns + `
		FROM blackout_periods
		WHERE org_id = $1
		  AND (professional_id IS NULL OR professional_id = $2)
		  AND date_start <= $3::date
		  AND date_end >= $3::date
		ORDER BY date_start
	`
	rows, err := r.db.Query(ctx, query, orgID, professionalID, availability.NormalizeDate(date))
	if err != nil {
		return nil, fmt.Errorf("blackouts: active-for query failed: %w", err)
	}
	defer rows.Close()
	return scanBlackouts(rows)
}

// ActiveInRange returns every blackout intersecting [dateFrom, dateTo].
func (r *PostgresRepository) ActiveInRange(ctx context.Context, orgID string, dateFrom, dateTo string) ([]availability.BlackoutPeriod, error) {
	query := `
		SELECT ` + blackoutColumns + `
		FROM blackout_periods
		WHERE org_id = $1
		  AND date_start <= $3::date
		  AND date_end >= $2::date
		ORDER BY date_start
	`
	rows, err := r.db.Query(ctx, query, orgID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("blackouts: range query failed: %w", err)
	}
	defer rows.Close()
	return scanBlackouts(rows)
}

func scanBlackouts(rows pgx.Rows) ([]availability.BlackoutPeriod, error) {
	var out []availability.BlackoutPeriod
	for rows.Next() {
		var b availability.BlackoutPeriod
		if err := rows.Scan(
			&b.ID,
			&b.OrgID,
			&b.ProfessionalID,
			&b.DateStart,
			&b.DateEnd,
			&b.HoursStart,
			&b.HoursEnd,
			&b.Title,
		); err != nil {
			return nil, fmt.Errorf("blackouts: scan failed: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
