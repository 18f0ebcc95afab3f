package calendar

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/agendly/agendly-platform/internal/availability"
	"github.com/agendly/agendly-platform/internal/tenancy"
	"github.com/agendly/agendly-platform/pkg/logging"
)

const maxBatchSlots = 500

// Handler handles HTTP requests for calendar availability reads.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new calendar handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// CheckSlotsRequest is the request body for batch availability checks.
type CheckSlotsRequest struct {
	Slots []availability.CandidateSlot `json:"slots"`
	Level availability.DisclosureLevel `json:"level"`
}

// CheckSlots handles POST /calendar/check requests. This is the staff batch
// surface; the disclosure level defaults to full and is capped only by what
// the route's auth tier allows.
func (h *Handler) CheckSlots(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	var req CheckSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Slots) == 0 {
		http.Error(w, "slots are required", http.StatusBadRequest)
		return
	}
	if len(req.Slots) > maxBatchSlots {
		http.Error(w, "too many slots", http.StatusBadRequest)
		return
	}
	if req.Level == "" {
		req.Level = availability.DisclosureFull
	}
	if !req.Level.Valid() {
		http.Error(w, "unknown disclosure level", http.StatusBadRequest)
		return
	}

	statuses, err := h.service.CheckSlots(r.Context(), orgID, req.Slots, req.Level)
	if err != nil {
		h.logger.Error("batch slot check failed", "error", err, "org_id", orgID)
		http.Error(w, "failed to check slots", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"slots": statuses,
		"count": len(statuses),
	})
}

// DayGrid handles GET /calendar/day requests. This is the customer-facing
// grid, pinned to the basic disclosure level so no blackout titles or
// appointment details leak.
func (h *Handler) DayGrid(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	professionalID, err := strconv.ParseInt(r.URL.Query().Get("professional_id"), 10, 64)
	if err != nil || professionalID <= 0 {
		http.Error(w, "professional_id is required", http.StatusBadRequest)
		return
	}
	date := availability.NormalizeDate(r.URL.Query().Get("date"))
	if date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	grid, err := h.service.DayGrid(r.Context(), orgID, professionalID, date, availability.DisclosureBasic)
	if err != nil {
		h.logger.Error("day grid failed", "error", err, "org_id", orgID, "date", date)
		http.Error(w, "failed to build day grid", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(grid)
}

// StaffDayGrid handles GET /calendar/day on the staff tier: same grid, admin
// disclosure level, never cached.
func (h *Handler) StaffDayGrid(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	professionalID, err := strconv.ParseInt(r.URL.Query().Get("professional_id"), 10, 64)
	if err != nil || professionalID <= 0 {
		http.Error(w, "professional_id is required", http.StatusBadRequest)
		return
	}
	date := availability.NormalizeDate(r.URL.Query().Get("date"))
	if date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	grid, err := h.service.DayGrid(r.Context(), orgID, professionalID, date, availability.DisclosureAdmin)
	if err != nil {
		h.logger.Error("staff day grid failed", "error", err, "org_id", orgID, "date", date)
		http.Error(w, "failed to build day grid", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(grid)
}
