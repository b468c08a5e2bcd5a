// Package router assembles the chi router for the booking engine.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/barberly/booking-engine/internal/http/handlers"
	httpmiddleware "github.com/barberly/booking-engine/internal/http/middleware"
	"github.com/barberly/booking-engine/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Booking            *handlers.BookingHandler
	Catalog            *handlers.CatalogHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new chi router with all routes configured
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

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/booking", func(r chi.Router) {
		r.Post("/sessions", cfg.Booking.CreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", cfg.Booking.GetSession)
			r.Put("/flow", cfg.Booking.SetFlow)
			r.Put("/services", cfg.Booking.SetServices)
			r.Put("/staff", cfg.Booking.SetStaff)
			r.Put("/date", cfg.Booking.SetDate)
			r.Put("/time", cfg.Booking.SetTime)
			r.Put("/customer", cfg.Booking.SetCustomer)
			r.Get("/slots", cfg.Booking.GetSlots)
			r.Post("/next", cfg.Booking.Next)
			r.Post("/back", cfg.Booking.Back)
			r.Post("/submit", cfg.Booking.Submit)
			r.Post("/restart", cfg.Booking.Restart)
		})

		if cfg.Catalog != nil {
			r.Get("/catalog/services", cfg.Catalog.ListServices)
			r.Get("/catalog/staff", cfg.Catalog.ListStaff)
			r.Get("/catalog/staff/{staffID}/services", cfg.Catalog.ListStaffServices)
			r.Get("/customers/lookup", cfg.Catalog.LookupCustomer)
		}
	})

	return r
}
