package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gargatun/aerodyne/internal/http/handlers"
	mw "github.com/gargatun/aerodyne/internal/http/middleware"
	"github.com/gargatun/aerodyne/internal/http/middleware/ratelimit"
	"github.com/gargatun/aerodyne/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
// Everything under /deliveries, /profile and the catalog collections
// requires an authenticated courier identity.
func New(
	logger logx.Logger,
	base *handlers.Handlers,
	deliveries *handlers.DeliveryHandler,
	catalogs *handlers.CatalogHandlers,
	profiles *handlers.ProfileHandler,
	rl *ratelimit.Middleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.Observability(logger))
	r.Use(rl.Handler())

	r.Get("/ping", base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(base.NotFound))

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate)

		r.Route("/deliveries", func(r chi.Router) {
			r.Get("/", deliveries.List)
			r.Post("/", deliveries.Create)
			r.Post("/simple", deliveries.CreateSimple)
			r.Post("/sync", deliveries.Sync)
			r.Get("/available", deliveries.Available)
			r.Get("/coordinates", deliveries.Coordinates)
			r.Get("/my/active", deliveries.MyActive)
			r.Get("/my/history", deliveries.MyHistory)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", deliveries.GetByID)
				r.Patch("/", deliveries.Update)
				r.Delete("/", deliveries.Delete)
				r.Patch("/assign", deliveries.Assign)
				r.Patch("/unassign", deliveries.Unassign)
				r.Patch("/update-status", deliveries.UpdateStatus)
				r.Post("/media", deliveries.AttachMedia)
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profiles.Get)
			r.Put("/", profiles.Update)
		})

		mountCatalog(r, "/transport-models", catalogs.TransportModels)
		mountCatalog(r, "/packaging-types", catalogs.PackagingTypes)
		mountCatalog(r, "/services", catalogs.Services)
		mountCatalog(r, "/statuses", catalogs.Statuses)
	})

	return r
}

func mountCatalog(r chi.Router, prefix string, h *handlers.CatalogHandler) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetByID)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}
