package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agendly/agendly-platform/internal/appointments"
	"github.com/agendly/agendly-platform/internal/blackouts"
	"github.com/agendly/agendly-platform/internal/calendar"
	httpmiddleware "github.com/agendly/agendly-platform/internal/http/middleware"
	"github.com/agendly/agendly-platform/internal/reports"
	"github.com/agendly/agendly-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	BlackoutsHandler    *blackouts.Handler
	CalendarHandler     *calendar.Handler
	StatsHandler        *reports.StatsHandler
	StaffAuthSecret     string
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	RateLimitPerSecond  float64
	RateLimitBurst      int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health, metrics, customer-facing calendar)
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.CalendarHandler != nil {
			public.Route("/api/calendar", func(r chi.Router) {
				r.Use(requireOrgID)
				if cfg.RateLimitPerSecond > 0 {
					r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
				}
				// Basic disclosure only; no appointment or blackout details
				// leave this surface.
				r.Get("/day", cfg.CalendarHandler.DayGrid)
			})
		}
	})

	// Staff routes (protected by JWT)
	if cfg.StaffAuthSecret != "" {
		r.Route("/staff", func(staff chi.Router) {
			staff.Use(httpmiddleware.StaffJWT(cfg.StaffAuthSecret))
			staff.Use(requireOrgID)

			if cfg.AppointmentsHandler != nil {
				staff.Route("/appointments", func(r chi.Router) {
					r.Post("/", cfg.AppointmentsHandler.Create)
					r.Get("/{id}", cfg.AppointmentsHandler.Get)
					r.Patch("/{id}/schedule", cfg.AppointmentsHandler.Reschedule)
					r.Patch("/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
					r.Delete("/{id}", cfg.AppointmentsHandler.Cancel)
				})
			}
			if cfg.BlackoutsHandler != nil {
				staff.Route("/blackouts", func(r chi.Router) {
					r.Post("/", cfg.BlackoutsHandler.Create)
					r.Get("/", cfg.BlackoutsHandler.List)
					r.Delete("/{id}", cfg.BlackoutsHandler.Delete)
				})
			}
			if cfg.CalendarHandler != nil {
				staff.Route("/calendar", func(r chi.Router) {
					r.Post("/check", cfg.CalendarHandler.CheckSlots)
					r.Get("/day", cfg.CalendarHandler.StaffDayGrid)
				})
			}
			if cfg.StatsHandler != nil {
				staff.Get("/reports/stats", cfg.StatsHandler.GetStats)
			}
		})
	}

	return r
}
