package api

import (
	"net/http"

	"bankrelay-server/src/config"
	"bankrelay-server/src/handlers"
	"bankrelay-server/src/ingest"
	"bankrelay-server/src/middleware"
	"bankrelay-server/src/settings"
	"bankrelay-server/src/store"

	"github.com/go-chi/chi/v5"
)

func NewRouter(
	cfg config.Config,
	svc *ingest.Service,
	endpoints *store.EndpointStore,
	history *store.TransactionStore,
	rawLog *store.NotificationStore,
	settingsStore *settings.Store,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(cfg))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// Ingestion
			r.Post("/events", handlers.IngestEvent(svc))

			// Endpoints
			r.Route("/providers/{provider}", func(r chi.Router) {
				r.Get("/endpoints", handlers.ListEndpoints(endpoints))
				r.Post("/endpoints", handlers.CreateEndpoint(endpoints))
				r.Get("/endpoints/{name}", handlers.GetEndpoint(endpoints))
				r.Put("/endpoints/{name}", handlers.UpdateEndpoint(endpoints))
				r.Delete("/endpoints/{name}", handlers.DeleteEndpoint(endpoints))
				r.Post("/endpoints/{name}/enabled", handlers.SetEndpointEnabled(endpoints))
				r.Post("/endpoints/{name}/notifications", handlers.UpdateEndpointNotifications(endpoints))
				r.Post("/endpoints/{name}/retry", handlers.UpdateEndpointRetry(endpoints))
				r.Post("/endpoints/{name}/conditions", handlers.UpdateEndpointConditions(endpoints))

				// Transaction history
				r.Get("/transactions", handlers.GetTransactions(history))
				r.Delete("/transactions", handlers.ClearTransactions(history))
			})

			// Raw notification log
			r.Get("/notifications", handlers.GetNotifications(rawLog))
			r.Delete("/notifications", handlers.ClearNotifications(rawLog))

			// Settings
			r.Get("/settings", handlers.GetSettings(settingsStore))
			r.Put("/settings", handlers.UpdateSettings(settingsStore))

			// Cache
			r.Post("/cache/clear", handlers.ClearCache())
		})
	})

	return r
}
