package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"hippo/application/commands/bus"
	"hippo/application/ports"
	querybus "hippo/application/queries/bus"
	"hippo/interfaces/http/rest/handlers"
	"hippo/interfaces/http/rest/middleware"
	"hippo/pkg/auth"
	pkgerrors "hippo/pkg/errors"
	"hippo/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const readyTimeout = 2 * time.Second

// Options configures the router's cross-cutting middleware
type Options struct {
	EnableCORS         bool
	CORSAllowedOrigins []string
	RateLimitPerMinute int
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	health       ports.HealthChecker
	validator    *auth.JWTValidator
	limiter      auth.RateLimiter
	collector    *observability.Collector
	errorHandler *pkgerrors.ErrorHandler
	options      Options
	logger       *zap.Logger
}

// NewRouter creates a new router instance. A nil validator disables
// authentication, a nil limiter disables rate limiting and a nil collector
// disables /metrics.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	health ports.HealthChecker,
	validator *auth.JWTValidator,
	limiter auth.RateLimiter,
	collector *observability.Collector,
	errorHandler *pkgerrors.ErrorHandler,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:   commandBus,
		queryBus:     queryBus,
		health:       health,
		validator:    validator,
		limiter:      limiter,
		collector:    collector,
		errorHandler: errorHandler,
		options:      options,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.collector))

	if rt.options.EnableCORS {
		origins := rt.options.CORSAllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.collector != nil {
		router.Method(http.MethodGet, "/metrics", rt.collector.Handler())
	}

	accountHandler := handlers.NewAccountHandler(rt.commandBus, rt.errorHandler, rt.logger)
	noteHandler := handlers.NewNoteHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
	recallHandler := handlers.NewRecallHandler(rt.queryBus, rt.errorHandler, rt.logger)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(rt.limiter, rt.options.RateLimitPerMinute, rt.errorHandler, rt.logger))
		r.Use(middleware.Authenticate(rt.validator, rt.errorHandler, rt.logger))

		// Paths used by the mobile client
		r.Post("/user", accountHandler.EnsureAccount)
		r.Post("/note", noteHandler.CommitNote)
		r.Get("/note", noteHandler.ListNotes)
		r.Post("/ask", recallHandler.Ask)

		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/accounts", accountHandler.EnsureAccount)
			r.Post("/notes", noteHandler.CommitNote)
			r.Get("/notes", noteHandler.ListNotes)
			r.Post("/recall", recallHandler.Ask)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	writeStatus(w, http.StatusOK, "healthy")
}

// readinessCheck pings the store
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.health != nil {
		ctx, cancel := context.WithTimeout(req.Context(), readyTimeout)
		defer cancel()

		if err := rt.health.Ping(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	writeStatus(w, http.StatusOK, "ready")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
