package di

import (
	"context"
	"fmt"
	"time"

	"hippo/application/commands"
	"hippo/application/commands/bus"
	commandhandlers "hippo/application/commands/handlers"
	"hippo/application/ports"
	"hippo/application/queries"
	querybus "hippo/application/queries/bus"
	queryhandlers "hippo/application/queries/handlers"
	"hippo/application/services"
	domainconfig "hippo/domain/config"
	"hippo/infrastructure/assistant"
	"hippo/infrastructure/assistant/openai"
	"hippo/infrastructure/config"
	"hippo/infrastructure/messaging"
	"hippo/infrastructure/messaging/eventbridge"
	"hippo/infrastructure/persistence/dynamodb"
	"hippo/infrastructure/persistence/memory"
	"hippo/infrastructure/persistence/postgres"
	"hippo/pkg/auth"
	pkgerrors "hippo/pkg/errors"
	"hippo/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "hippo"

// Storage groups the repositories selected by STORAGE_DRIVER
type Storage struct {
	Accounts ports.AccountRepository
	Notes    ports.NoteRepository
	Health   ports.HealthChecker
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName)), nil
}

// ProvideDomainConfig builds the business rules from the loaded config
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return cfg.DomainConfig()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideStorage opens the configured store. The cleanup closes any pool it opened.
func ProvideStorage(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (*Storage, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := postgres.Open(ctx, postgres.Config{
			DSN:          cfg.DatabaseURL,
			MaxOpenConns: cfg.DBMaxOpenConns,
			MaxIdleConns: cfg.DBMaxIdleConns,
			AutoMigrate:  cfg.DBAutoMigrate,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close postgres pool", zap.Error(err))
			}
		}
		return &Storage{
			Accounts: postgres.NewAccountRepository(db),
			Notes:    postgres.NewNoteRepository(db),
			Health:   db,
		}, cleanup, nil

	case config.StorageDynamoDB:
		store := dynamodb.NewStore(awsdynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable, logger)
		return &Storage{
			Accounts: dynamodb.NewAccountRepository(store),
			Notes:    dynamodb.NewNoteRepository(store),
			Health:   store,
		}, func() {}, nil

	case config.StorageMemory:
		notes := memory.NewNoteStore()
		return &Storage{
			Accounts: memory.NewAccountStore(),
			Notes:    notes,
			Health:   notes,
		}, func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// ProvideAccountRepository exposes the selected account repository
func ProvideAccountRepository(s *Storage) ports.AccountRepository { return s.Accounts }

// ProvideNoteRepository exposes the selected note repository
func ProvideNoteRepository(s *Storage) ports.NoteRepository { return s.Notes }

// ProvideHealthChecker exposes the selected store's readiness probe
func ProvideHealthChecker(s *Storage) ports.HealthChecker { return s.Health }

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideCollector creates the Prometheus collector when it is the metrics sink
func ProvideCollector(cfg *config.Config) *observability.Collector {
	if cfg.MetricsSink != config.MetricsPrometheus {
		return nil
	}
	return observability.NewCollector(serviceName)
}

// ProvideRecorder selects the metrics sink
func ProvideRecorder(cfg *config.Config, awsCfg aws.Config, collector *observability.Collector, logger *zap.Logger) observability.Recorder {
	switch cfg.MetricsSink {
	case config.MetricsCloudWatch:
		namespace := fmt.Sprintf("%s/%s", cfg.MetricsNamespace, cfg.Environment)
		return observability.NewMetrics(namespace, awscloudwatch.NewFromConfig(awsCfg), logger)
	case config.MetricsPrometheus:
		if collector != nil {
			return collector
		}
	}
	return observability.NoopRecorder{}
}

// ProvideAssistantPlatform creates the OpenAI client behind a circuit breaker
func ProvideAssistantPlatform(cfg *config.Config, tracer *observability.Tracer, logger *zap.Logger) ports.AssistantPlatform {
	client := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.OpenAITimeout,
	}, tracer, logger)

	breakerCfg := assistant.DefaultBreakerConfig()
	if cfg.BreakerFailureRatio > 0 {
		breakerCfg.FailureThreshold = cfg.BreakerFailureRatio
	}
	if cfg.BreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.BreakerTimeout
	}

	return assistant.NewBreakerPlatform(client, breakerCfg, logger)
}

// ProvideEventPublisher publishes to EventBridge when a bus is configured
func ProvideEventPublisher(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return messaging.NewLogPublisher(logger)
	}
	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger)
}

// ProvideRecallService creates the recall orchestrator
func ProvideRecallService(
	cfg *config.Config,
	platform ports.AssistantPlatform,
	eventPublisher ports.EventPublisher,
	recorder observability.Recorder,
	logger *zap.Logger,
) *services.RecallService {
	policy := services.PollPolicy{
		MaxAttempts: cfg.RecallMaxAttempts,
		Delay:       cfg.RecallPollDelay,
	}
	return services.NewRecallService(platform, eventPublisher, recorder, policy, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	accountRepo ports.AccountRepository,
	noteRepo ports.NoteRepository,
	platform ports.AssistantPlatform,
	eventPublisher ports.EventPublisher,
	domainCfg *domainconfig.DomainConfig,
	recorder observability.Recorder,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(recorder),
	)

	ensureAccountHandler := commandhandlers.NewEnsureAccountHandler(accountRepo, platform, eventPublisher, domainCfg, logger)
	if err := commandBus.Register(commands.EnsureAccountCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			ensureCmd, ok := cmd.(commands.EnsureAccountCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return ensureAccountHandler.Handle(ctx, ensureCmd)
		},
	)); err != nil {
		return nil, err
	}

	commitNoteHandler := commandhandlers.NewCommitNoteHandler(accountRepo, noteRepo, platform, eventPublisher, domainCfg, logger)
	if err := commandBus.Register(commands.CommitNoteCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			commitCmd, ok := cmd.(commands.CommitNoteCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return commitNoteHandler.Handle(ctx, commitCmd)
		},
	)); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	accountRepo ports.AccountRepository,
	noteRepo ports.NoteRepository,
	recallService *services.RecallService,
	domainCfg *domainconfig.DomainConfig,
	recorder observability.Recorder,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(recorder)

	listNotesHandler := queryhandlers.NewListNotesHandler(accountRepo, noteRepo, logger)
	if err := queryBus.Register(queries.ListNotesQuery{}, querybus.QueryHandlerFunc(
		func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListNotesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return listNotesHandler.Handle(ctx, listQuery)
		},
	)); err != nil {
		return nil, err
	}

	recallHandler := queryhandlers.NewRecallHandler(accountRepo, recallService, domainCfg)
	if err := queryBus.Register(queries.RecallQuery{}, querybus.QueryHandlerFunc(
		func(ctx context.Context, query querybus.Query) (interface{}, error) {
			recallQuery, ok := query.(queries.RecallQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return recallHandler.Handle(ctx, recallQuery)
		},
	)); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideJWTValidator returns nil when no verification key is configured
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	switch {
	case cfg.ClerkJWTPublicKey != "":
		return auth.NewJWTValidator(auth.JWTConfig{
			SigningMethod: "RS256",
			PublicKey:     cfg.ClerkJWTPublicKey,
			Issuer:        cfg.JWTIssuer,
		})
	case cfg.JWTSecret != "":
		return auth.NewJWTValidator(auth.JWTConfig{
			SigningMethod: "HS256",
			SecretKey:     cfg.JWTSecret,
			Issuer:        cfg.JWTIssuer,
		})
	}
	return nil, nil
}

// ProvideRateLimiter selects the process-local or DynamoDB-backed limiter
func ProvideRateLimiter(cfg *config.Config, awsCfg aws.Config) auth.RateLimiter {
	if cfg.RateLimitBackend == config.StorageDynamoDB {
		return auth.NewDistributedRateLimiter(
			awsdynamodb.NewFromConfig(awsCfg),
			cfg.DynamoDBTable,
			cfg.RateLimitPerMinute,
			time.Minute,
		)
	}
	return auth.NewPerMinuteLimiter(cfg.RateLimitPerMinute)
}

// ProvideErrorHandler creates the HTTP error mapper
func ProvideErrorHandler(logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger)
}
