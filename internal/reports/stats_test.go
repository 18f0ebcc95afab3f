package reports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/agendly/agendly-platform/internal/tenancy"
	"github.com/agendly/agendly-platform/pkg/logging"
)

func expectCount(mock pgxmock.PgxPoolIface, pattern string, count int64, args ...any) {
	mock.ExpectQuery(pattern).
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(count))
}

func TestGetStats_AllTime(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStatsRepositoryWithDB(mock)

	expectCount(mock, "SELECT COUNT", 12, "org-1")
	expectCount(mock, "status NOT IN", 9, "org-1")
	expectCount(mock, "status = 'cancelled'", 2, "org-1")
	expectCount(mock, "status = 'no_show'", 1, "org-1")
	expectCount(mock, "FROM blackout_periods", 3, "org-1")

	stats, err := repo.GetStats(context.Background(), "org-1", "", "")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.AppointmentsBooked != 12 || stats.AppointmentsActive != 9 {
		t.Errorf("unexpected appointment counts %+v", stats)
	}
	if stats.Cancellations != 2 || stats.NoShows != 1 || stats.BlackoutPeriods != 3 {
		t.Errorf("unexpected breakdown %+v", stats)
	}
	if stats.PeriodStart != "all-time" || stats.PeriodEnd != "now" {
		t.Errorf("unexpected period %+v", stats)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetStats_Period(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStatsRepositoryWithDB(mock)

	expectCount(mock, "SELECT COUNT", 4, "org-1", "2025-10-01", "2025-10-31")
	expectCount(mock, "status NOT IN", 4, "org-1", "2025-10-01", "2025-10-31")
	expectCount(mock, "status = 'cancelled'", 0, "org-1", "2025-10-01", "2025-10-31")
	expectCount(mock, "status = 'no_show'", 0, "org-1", "2025-10-01", "2025-10-31")
	expectCount(mock, "FROM blackout_periods", 1, "org-1", "2025-10-01", "2025-10-31")

	stats, err := repo.GetStats(context.Background(), "org-1", "2025-10-01", "2025-10-31")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PeriodStart != "2025-10-01" || stats.PeriodEnd != "2025-10-31" {
		t.Errorf("unexpected period %+v", stats)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStatsHandler_Validation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	handler := NewStatsHandler(NewStatsRepositoryWithDB(mock), logging.Default())

	tests := []struct {
		name   string
		target string
		org    bool
		want   int
	}{
		{"missing org", "/staff/reports/stats", false, http.StatusBadRequest},
		{"only from", "/staff/reports/stats?from=2025-10-01", true, http.StatusBadRequest},
		{"bad date", "/staff/reports/stats?from=01-10-2025&to=2025-10-31", true, http.StatusBadRequest},
		{"inverted span", "/staff/reports/stats?from=2025-10-31&to=2025-10-01", true, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.org {
				req = req.WithContext(tenancy.WithOrgID(req.Context(), "org-1"))
			}
			w := httptest.NewRecorder()
			handler.GetStats(w, req)
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}
