package blackouts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agendly/agendly-platform/internal/availability"
	"github.com/agendly/agendly-platform/internal/tenancy"
	"github.com/agendly/agendly-platform/pkg/logging"
)

func orgRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(tenancy.WithOrgID(req.Context(), "org-1"))
}

func TestCreateBlackout_FullDay(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), logging.Default())

	body, _ := json.Marshal(CreateBlackoutRequest{
		DateStart: "2025-10-25",
		DateEnd:   "2025-10-25",
		Title:     "Holiday",
	})
	w := httptest.NewRecorder()

	handler.Create(w, orgRequest(http.MethodPost, "/blackouts", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var b availability.BlackoutPeriod
	if err := json.NewDecoder(w.Body).Decode(&b); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if b.OrgID != "org-1" {
		t.Errorf("expected org-1, got %s", b.OrgID)
	}
	if !b.Organizational() {
		t.Error("expected organizational blackout when professional_id omitted")
	}
}

func TestCreateBlackout_MixedHoursRejected(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), logging.Default())

	start := "09:00"
	body, _ := json.Marshal(CreateBlackoutRequest{
		DateStart:  "2025-10-25",
		DateEnd:    "2025-10-25",
		HoursStart: &start,
	})
	w := httptest.NewRecorder()

	handler.Create(w, orgRequest(http.MethodPost, "/blackouts", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(w.Body.String(), "hours_start and hours_end") {
		t.Errorf("expected mixed-hours error, got %q", w.Body.String())
	}
}

func TestCreateBlackout_InvertedDatesRejected(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), logging.Default())

	body, _ := json.Marshal(CreateBlackoutRequest{
		DateStart: "2025-10-26",
		DateEnd:   "2025-10-25",
	})
	w := httptest.NewRecorder()

	handler.Create(w, orgRequest(http.MethodPost, "/blackouts", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateBlackout_MissingOrgContext(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), logging.Default())

	body, _ := json.Marshal(CreateBlackoutRequest{DateStart: "2025-10-25", DateEnd: "2025-10-25"})
	req := httptest.NewRequest(http.MethodPost, "/blackouts", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestListBlackouts(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, logging.Default())

	for _, title := range []string{"Holiday", "Maintenance"} {
		_, err := repo.Create(context.Background(), &CreateBlackoutRequest{
			OrgID:     "org-1",
			DateStart: "2025-10-25",
			DateEnd:   "2025-10-26",
			Title:     title,
		})
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	// Another org's blackout must not show up.
	if _, err := repo.Create(context.Background(), &CreateBlackoutRequest{
		OrgID:     "org-2",
		DateStart: "2025-10-25",
		DateEnd:   "2025-10-25",
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	w := httptest.NewRecorder()
	handler.List(w, orgRequest(http.MethodGet, "/blackouts", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("expected 2 blackouts, got %d", resp.Count)
	}
}

func TestDeleteBlackout(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, logging.Default())

	created, err := repo.Create(context.Background(), &CreateBlackoutRequest{
		OrgID:     "org-1",
		DateStart: "2025-10-25",
		DateEnd:   "2025-10-25",
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	router := chi.NewRouter()
	router.Delete("/blackouts/{id}", handler.Delete)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, orgRequest(http.MethodDelete, "/blackouts/"+created.ID.String(), nil))

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, orgRequest(http.MethodDelete, "/blackouts/"+uuid.NewString(), nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d for unknown id, got %d", http.StatusNotFound, w.Code)
	}
}

func TestInMemoryActiveFor(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, &CreateBlackoutRequest{
		OrgID:     "org-1",
		DateStart: "2025-10-25",
		DateEnd:   "2025-10-27",
		Title:     "Org-wide",
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	prof := int64(7)
	if _, err := repo.Create(ctx, &CreateBlackoutRequest{
		OrgID:          "org-1",
		ProfessionalID: &prof,
		DateStart:      "2025-10-25",
		DateEnd:        "2025-10-25",
		Title:          "Vacation",
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	active, err := repo.ActiveFor(ctx, "org-1", 1, "2025-10-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 || active[0].Title != "Org-wide" {
		t.Fatalf("professional 1 should only see the org-wide blackout, got %v", active)
	}

	active, err = repo.ActiveFor(ctx, "org-1", 7, "2025-10-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("professional 7 should see both blackouts, got %d", len(active))
	}

	active, err = repo.ActiveFor(ctx, "org-1", 7, "2025-10-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("no blackout should be active outside the spans, got %d", len(active))
	}
}
