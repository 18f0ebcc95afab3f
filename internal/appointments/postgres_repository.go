package appointments

import (
	"context"
	"errors"
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

// PostgresRepository stores appointments in the relational database. The
// appointments table carries an exclusion constraint on overlapping active
// time ranges per professional and date, so a concurrent double booking that
// slips past validation surfaces here as an exclusion violation.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appointmentColumns = `
	id, org_id, professional_id,
	to_char(date, 'YYYY-MM-DD'),
	to_char(start_time, 'HH24:MI:SS'),
	to_char(end_time, 'HH24:MI:SS'),
	status, code, customer_name
`

// Insert persists a new appointment row. An exclusion-constraint violation is
// translated into SlotUnavailableError so callers treat the lost race like
// any other conflict.
func (r *PostgresRepository) Insert(ctx context.Context, a *availability.Appointment) error {
	query := `
		INSERT INTO appointments (id, org_id, professional_id, date, start_time, end_time, status, code, customer_name)
		VALUES ($1, $2, $3, $4::date, $5::time, $6::time, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.OrgID,
		a.ProfessionalID,
		a.Date,
		a.Time.Start,
		a.Time.End,
		a.Status,
		a.Code,
		a.CustomerName,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return &SlotUnavailableError{Reason: "The selected time was just booked"}
		}
		return fmt.Errorf("appointments: insert failed: %w", err)
	}
	return nil
}

// GetForOrg returns one appointment scoped to the org.
func (r *PostgresRepository) GetForOrg(ctx context.Context, orgID string, id uuid.UUID) (*availability.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1 AND org_id = $2
	`
	var a availability.Appointment
	err := r.db.QueryRow(ctx, query, id, orgID).Scan(
		&a.ID,
		&a.OrgID,
		&a.ProfessionalID,
		&a.Date,
		&a.Time.Start,
		&a.Time.End,
		&a.Status,
		&a.Code,
		&a.CustomerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: get failed: %w", err)
	}
	return &a, nil
}

// ListForProfessionalDate returns blocking appointments for one professional
// on one date. Cancelled and no-show rows never block, so they are excluded
// in the query.
func (r *PostgresRepository) ListForProfessionalDate(ctx context.Context, orgID string, professionalID int64, date string) ([]availability.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE org_id = $1
		  AND professional_id = $2
		  AND date = $3::date
		  AND status NOT IN ('cancelled', 'no_show')
		ORDER BY start_time
	`
	rows, err := r.db.Query(ctx, query, orgID, professionalID, availability.NormalizeDate(date))
	if err != nil {
		return nil, fmt.Errorf("appointments: professional-date query failed: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// ListInRange returns blocking appointments for the org across the date span.
func (r *PostgresRepository) ListInRange(ctx context.Context, orgID string, dateFrom, dateTo string) ([]availability.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE org_id = $1
		  AND date >= $2::date
		  AND date <= $3::date
		  AND status NOT IN ('cancelled', 'no_show')
		ORDER BY date, start_time
	`
	rows, err := r.db.Query(ctx, query, orgID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("appointments: range query failed: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// UpdateSchedule moves an appointment to a new date and time range. The same
// exclusion constraint guards reschedules.
func (r *PostgresRepository) UpdateSchedule(ctx context.Context, orgID string, id uuid.UUID, date string, slot availability.TimeRange) error {
	query := `
		UPDATE appointments
		SET date = $3::date, start_time = $4::time, end_time = $5::time
		WHERE id = $1 AND org_id = $2
	`
	ct, err := r.db.Exec(ctx, query, id, orgID, date, slot.Start, slot.End)
	if err != nil {
		if isExclusionViolation(err) {
			return &SlotUnavailableError{Reason: "The selected time was just booked"}
		}
		return fmt.Errorf("appointments: reschedule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// UpdateStatus transitions an appointment's lifecycle state.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, orgID string, id uuid.UUID, status availability.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $3
		WHERE id = $1 AND org_id = $2
	`
	ct, err := r.db.Exec(ctx, query, id, orgID, status)
	if err != nil {
		return fmt.Errorf("appointments: status update failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func scanAppointments(rows pgx.Rows) ([]availability.Appointment, error) {
	var out []availability.Appointment
	for rows.Next() {
		var a availability.Appointment
		if err := rows.Scan(
			&a.ID,
			&a.OrgID,
			&a.ProfessionalID,
			&a.Date,
			&a.Time.Start,
			&a.Time.End,
			&a.Status,
			&a.Code,
			&a.CustomerName,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// isExclusionViolation matches Postgres error 23P01 raised by the
// no-overlapping-appointments exclusion constraint.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}
