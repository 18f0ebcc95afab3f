package blackouts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agendly/agendly-platform/internal/tenancy"
	"github.com/agendly/agendly-platform/pkg/logging"
)

// Handler handles HTTP requests for blackout-period management.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new blackouts handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// Create handles POST /blackouts requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBlackoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode blackout request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}
	req.OrgID = orgID

	blackout, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create blackout", "error", err, "org_id", orgID)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("blackout created",
		"id", blackout.ID,
		"org_id", orgID,
		"organizational", blackout.Organizational(),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(blackout)
}

// List handles GET /blackouts requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	periods, err := h.repo.ListForOrg(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to list blackouts", "error", err, "org_id", orgID)
		http.Error(w, "failed to list blackout periods", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"blackout_periods": periods,
		"count":            len(periods),
	})
}

// Delete handles DELETE /blackouts/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid blackout id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), orgID, id); err != nil {
		if errors.Is(err, ErrBlackoutNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete blackout", "error", err, "org_id", orgID, "id", id)
		http.Error(w, "failed to delete blackout period", http.StatusInternalServerError)
		return
	}

	h.logger.Info("blackout deleted", "id", id, "org_id", orgID)
	w.WriteHeader(http.StatusNoContent)
}
