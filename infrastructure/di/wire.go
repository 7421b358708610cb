//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"hippo/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSConfig,
	ProvideStorage,
	ProvideAccountRepository,
	ProvideNoteRepository,
	ProvideHealthChecker,
	ProvideTracer,
	ProvideCollector,
	ProvideRecorder,
	ProvideAssistantPlatform,
	ProvideEventPublisher,
	ProvideRecallService,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideJWTValidator,
	ProvideRateLimiter,
	ProvideErrorHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil
}
