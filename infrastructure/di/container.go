// Package di wires the application together.
package di

import (
	"hippo/application/commands/bus"
	"hippo/application/ports"
	querybus "hippo/application/queries/bus"
	"hippo/infrastructure/config"
	"hippo/interfaces/http/rest"
	"hippo/pkg/auth"
	pkgerrors "hippo/pkg/errors"
	"hippo/pkg/observability"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	Health       ports.HealthChecker
	Collector    *observability.Collector
	JWTValidator *auth.JWTValidator
	RateLimiter  auth.RateLimiter
	ErrorHandler *pkgerrors.ErrorHandler
}

// Router builds the HTTP router from the container's dependencies
func (c *Container) Router() *chi.Mux {
	return rest.NewRouter(
		c.CommandBus,
		c.QueryBus,
		c.Health,
		c.JWTValidator,
		c.RateLimiter,
		c.Collector,
		c.ErrorHandler,
		rest.Options{
			EnableCORS:         c.Config.EnableCORS,
			CORSAllowedOrigins: c.Config.CORSAllowedOrigins,
			RateLimitPerMinute: c.Config.RateLimitPerMinute,
		},
		c.Logger,
	).Setup()
}
