// Package assistant holds decorators for the assistant platform port.
package assistant

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hippo/application/ports"
	pkgerrors "hippo/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the platform circuit breaker
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the circuit breaker
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "openai",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// BreakerPlatform wraps an AssistantPlatform with a circuit breaker. Only
// server errors and transport failures count against the platform.
type BreakerPlatform struct {
	next    ports.AssistantPlatform
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewBreakerPlatform creates the decorator
func NewBreakerPlatform(next ports.AssistantPlatform, cfg BreakerConfig, logger *zap.Logger) *BreakerPlatform {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Only trip if we have enough requests to make a decision
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: countsAsSuccess,
	})

	return &BreakerPlatform{next: next, breaker: cb, logger: logger}
}

// State reports the breaker state
func (b *BreakerPlatform) State() gobreaker.State {
	return b.breaker.State()
}

// countsAsSuccess treats client errors and caller cancellation as healthy
// platform responses
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	appErr := pkgerrors.GetAppError(err)
	if appErr == nil || appErr.Type != pkgerrors.ErrorTypeUpstream {
		return true
	}
	return appErr.HTTPStatus < 500
}

func (b *BreakerPlatform) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		b.logger.Warn("Circuit breaker rejected platform call", zap.Error(err))
		return nil, pkgerrors.NewUpstreamError("Assistant service temporarily unavailable", http.StatusServiceUnavailable).WithCause(err)
	}
	return result, err
}

func (b *BreakerPlatform) executeString(fn func() (string, error)) (string, error) {
	result, err := b.execute(func() (interface{}, error) { return fn() })
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (b *BreakerPlatform) executeErr(fn func() error) error {
	_, err := b.execute(func() (interface{}, error) { return nil, fn() })
	return err
}

func (b *BreakerPlatform) CreatePersona(ctx context.Context, spec ports.PersonaSpec) (string, error) {
	return b.executeString(func() (string, error) { return b.next.CreatePersona(ctx, spec) })
}

func (b *BreakerPlatform) DeletePersona(ctx context.Context, personaID string) error {
	return b.executeErr(func() error { return b.next.DeletePersona(ctx, personaID) })
}

func (b *BreakerPlatform) CreateRetrievalStore(ctx context.Context, name string) (string, error) {
	return b.executeString(func() (string, error) { return b.next.CreateRetrievalStore(ctx, name) })
}

func (b *BreakerPlatform) DeleteRetrievalStore(ctx context.Context, storeID string) error {
	return b.executeErr(func() error { return b.next.DeleteRetrievalStore(ctx, storeID) })
}

func (b *BreakerPlatform) AttachStore(ctx context.Context, personaID, storeID string) error {
	return b.executeErr(func() error { return b.next.AttachStore(ctx, personaID, storeID) })
}

func (b *BreakerPlatform) UploadDocument(ctx context.Context, storeID string, doc ports.Document) (string, error) {
	return b.executeString(func() (string, error) { return b.next.UploadDocument(ctx, storeID, doc) })
}

func (b *BreakerPlatform) CreateThread(ctx context.Context) (string, error) {
	return b.executeString(func() (string, error) { return b.next.CreateThread(ctx) })
}

func (b *BreakerPlatform) AddMessage(ctx context.Context, threadID, role, content string) error {
	return b.executeErr(func() error { return b.next.AddMessage(ctx, threadID, role, content) })
}

func (b *BreakerPlatform) StartRun(ctx context.Context, threadID, personaID string, opts ports.RunOptions) (string, error) {
	return b.executeString(func() (string, error) { return b.next.StartRun(ctx, threadID, personaID, opts) })
}

func (b *BreakerPlatform) ListMessages(ctx context.Context, threadID string) ([]ports.Message, error) {
	result, err := b.execute(func() (interface{}, error) { return b.next.ListMessages(ctx, threadID) })
	if err != nil {
		return nil, err
	}
	return result.([]ports.Message), nil
}

var _ ports.AssistantPlatform = (*BreakerPlatform)(nil)
