// Package router sets up all HTTP routes and middleware chains for the
// admin API. Everything under /api sits behind the bearer token gate and
// the rate limiter; /health and /metrics are open.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meewadmin/internal/handlers"
	"meewadmin/internal/middleware"
)

// New creates and returns the configured Chi router. limiter may be nil.
func New(api *handlers.API, auth *middleware.TokenAuth, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Use(auth.Require)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.ListCategories)
			r.Post("/", api.CreateCategory)
			r.Patch("/{id}", api.UpdateCategory)
			r.Delete("/{id}", api.DeleteCategory)
			r.Get("/{id}/parents", api.ValidParents)
		})

		// Drag-and-drop and up/down ordering for every sortable collection.
		r.Route("/collections/{collection}", func(r chi.Router) {
			r.Get("/", api.ListCollection)
			r.Post("/reorder", api.ReorderCollection)
			r.Post("/{id}/move", api.MoveInCollection)
		})

		r.Route("/popups", func(r chi.Router) {
			r.Get("/", api.ListPopups)
			r.Get("/active", api.ActivePopup)
			r.Get("/ranked", api.RankedPopups)
			r.Patch("/{id}", api.UpdatePopup)
		})
		r.Get("/banners", api.ListBanners)
		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", api.ListCoupons)
			r.Patch("/{id}", api.UpdateCoupon)
		})
		r.Get("/free-shipping/current", api.CurrentFreeShipping)

		r.Get("/dashboard/sales-by-category", api.SalesByCategory)
		r.Get("/dashboard/shipments", api.ShipmentStats)

		r.Post("/assets", api.UploadAsset)
		r.Get("/branding", api.GetBranding)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", api.ListNotifications)
			r.Post("/", api.CreateNotification)
			r.Post("/{id}/schedule", api.ScheduleNotification)
			r.Post("/{id}/send", api.SendNotification)
			r.Post("/{id}/cancel", api.CancelNotification)
		})

		r.Route("/products/{id}", func(r chi.Router) {
			r.Post("/variants/generate", api.GenerateVariants)
			r.Delete("/images/{imageID}", api.DeleteProductImage)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
