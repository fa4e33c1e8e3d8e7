package httpapi

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/padelhub/tournament-core/metrics"
	"github.com/padelhub/tournament-core/middleware"
	"github.com/padelhub/tournament-core/notify"
)

// NewRouter wires the four core operations, the websocket live feed,
// /metrics and swagger docs behind the same logging/recovery/CORS
// stack the teacher's SetupRoutes uses.
func NewRouter(h *Handlers, hub *notify.Hub, jwtSecret []byte, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/metrics", metrics.Handler().ServeHTTP)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/ws/tournaments/{tournamentID}", ServeWs(hub, logger))
	r.Post("/auth/login", h.Login)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticate(jwtSecret, logger))

		protected.Post("/tournaments/{tournamentID}/fixture", h.GenerateFixture)
		protected.Post("/matches/{matchID}/result", h.ReportResult)
		protected.Post("/matches/{matchID}/result/response", h.AcceptResult)
		protected.Post("/incidents/{incidentID}/resolve", h.ResolveIncident)
		protected.Post("/incidents/{incidentID}/evidence", h.UploadIncidentEvidence)
	})

	return r
}
