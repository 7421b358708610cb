package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	domainconfig "hippo/domain/config"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

// Metrics sinks
const (
	MetricsNone       = "none"
	MetricsCloudWatch = "cloudwatch"
	MetricsPrometheus = "prometheus"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Logging
	LogLevel string

	// Assistant platform
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAITimeout  time.Duration
	AssistantModel string

	// Storage
	StorageDriver  string
	DatabaseURL    string
	DBAutoMigrate  bool
	DBMaxOpenConns int
	DBMaxIdleConns int

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	EventBusName  string

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Observability
	MetricsSink      string
	MetricsNamespace string
	EnableTracing    bool

	// HTTP
	EnableCORS         bool
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	RateLimitBackend   string

	// Authentication
	ClerkJWTPublicKey string
	JWTSecret         string
	JWTIssuer         string

	// Recall polling
	RecallMaxAttempts int
	RecallPollDelay   time.Duration

	// Note policy
	NoteDatePrefix bool
	NoteTimezone   string

	// Circuit breaker
	BreakerFailureRatio float64
	BreakerTimeout      time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	lambdaName := getEnv("AWS_LAMBDA_FUNCTION_NAME", "")

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAITimeout:  getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		AssistantModel: getEnv("ASSISTANT_MODEL", "gpt-4o"),

		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBAutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", false),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable: getEnv("DYNAMODB_TABLE", ""),
		EventBusName:  getEnv("EVENT_BUS_NAME", ""),

		IsLambda:           getEnvBool("IS_LAMBDA", lambdaName != ""),
		LambdaFunctionName: lambdaName,

		MetricsSink:      strings.ToLower(getEnv("METRICS_SINK", MetricsNone)),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "Hippo"),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),

		EnableCORS:         getEnvBool("ENABLE_CORS", true),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBackend:   strings.ToLower(getEnv("RATE_LIMIT_BACKEND", StorageMemory)),

		ClerkJWTPublicKey: getEnv("CLERK_JWT_PUBLIC_KEY", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTIssuer:         getEnv("JWT_ISSUER", ""),

		RecallMaxAttempts: getEnvInt("RECALL_MAX_ATTEMPTS", 5),
		RecallPollDelay:   getEnvDuration("RECALL_POLL_DELAY", 4*time.Second),

		NoteDatePrefix: getEnvBool("NOTE_DATE_PREFIX", false),
		NoteTimezone:   getEnv("NOTE_TIMEZONE", "Local"),

		BreakerFailureRatio: getEnvFloat("BREAKER_FAILURE_RATIO", 0.6),
		BreakerTimeout:      getEnvDuration("BREAKER_TIMEOUT", 30*time.Second),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	var errs []error

	if c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}

	switch c.StorageDriver {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case StorageDynamoDB:
		if c.DynamoDBTable == "" {
			errs = append(errs, errors.New("DYNAMODB_TABLE is required for the dynamodb driver"))
		}
	case StorageMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("the memory driver is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	switch c.MetricsSink {
	case MetricsNone, MetricsCloudWatch, MetricsPrometheus:
	default:
		errs = append(errs, fmt.Errorf("unknown METRICS_SINK %q", c.MetricsSink))
	}

	if c.RateLimitBackend == StorageDynamoDB && c.DynamoDBTable == "" {
		errs = append(errs, errors.New("DYNAMODB_TABLE is required for the dynamodb rate limiter"))
	}

	if c.RecallMaxAttempts < 1 {
		errs = append(errs, errors.New("RECALL_MAX_ATTEMPTS must be at least 1"))
	}
	if c.RecallPollDelay < 0 {
		errs = append(errs, errors.New("RECALL_POLL_DELAY must not be negative"))
	}

	if _, err := c.NoteLocation(); err != nil {
		errs = append(errs, fmt.Errorf("NOTE_TIMEZONE: %w", err))
	}

	return errors.Join(errs...)
}

// NoteLocation resolves NOTE_TIMEZONE
func (c *Config) NoteLocation() (*time.Location, error) {
	if c.NoteTimezone == "" || c.NoteTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.NoteTimezone)
}

// DomainConfig builds the business rules for the current environment with
// the env overrides applied
func (c *Config) DomainConfig() *domainconfig.DomainConfig {
	dc := domainconfig.LoadDomainConfig(c.Environment)
	dc.StampNoteDates = c.NoteDatePrefix
	if loc, err := c.NoteLocation(); err == nil {
		dc.StampLocation = loc
	}
	if c.AssistantModel != "" {
		dc.PersonaModel = c.AssistantModel
	}
	return dc
}

// AuthEnabled reports whether requests must carry a session token
func (c *Config) AuthEnabled() bool {
	return c.ClerkJWTPublicKey != "" || c.JWTSecret != ""
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("4s") or bare milliseconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
