package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/crewdeck-backend/api/controllers"
	"github.com/angelmondragon/crewdeck-backend/api/middleware"
	"github.com/angelmondragon/crewdeck-backend/internal/directory"
	"github.com/angelmondragon/crewdeck-backend/pkg/auth/session"
	"github.com/angelmondragon/crewdeck-backend/pkg/config"
	"github.com/angelmondragon/crewdeck-backend/pkg/logger"
	"github.com/angelmondragon/crewdeck-backend/pkg/metrics"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               controllers.Pinger
	Redis            controllers.Pinger
	SessionChecker   session.AccessSessionChecker
	DirectoryService directory.Service
	Registry         *prometheus.Registry
	HTTPMetrics      *metrics.HTTPMetrics
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger, deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Config.JWT, deps.SessionChecker, deps.Logger))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UsersList(deps.DirectoryService, deps.Logger))
			r.Post("/", controllers.UserInvite(deps.DirectoryService, deps.Logger))
			r.Get("/me", controllers.CurrentUser(deps.DirectoryService, deps.Logger))
			r.Get("/{userId}", controllers.UserGet(deps.DirectoryService, deps.Logger))
			r.Patch("/{userId}", controllers.UserUpdate(deps.DirectoryService, deps.Logger))
			r.Delete("/{userId}", controllers.UserRemove(deps.DirectoryService, deps.Logger))
			r.Get("/{userId}/refresh-tokens", controllers.UserRefreshTokens(deps.DirectoryService, deps.Logger))
		})
	})

	return r
}
