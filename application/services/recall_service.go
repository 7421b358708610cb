package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"hippo/application/ports"
	"hippo/domain/core/entities"
	"hippo/domain/events"
	pkgerrors "hippo/pkg/errors"
	"hippo/pkg/observability"

	"go.uber.org/zap"
)

// NoAnswerMessage is reported when polling ends without an assistant reply
const NoAnswerMessage = "Assistant did not provide a response."

// PollPolicy bounds how long recall waits for the assistant's reply
type PollPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultPollPolicy polls five times, four seconds apart
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{MaxAttempts: 5, Delay: 4 * time.Second}
}

// RecallResult is the assistant's answer and the polls it took
type RecallResult struct {
	Answer   string
	ThreadID string
	RunID    string
	Attempts int
}

// RecallService runs one question through a fresh thread on the account's
// persona and collects the reply
type RecallService struct {
	platform       ports.AssistantPlatform
	eventPublisher ports.EventPublisher
	metrics        observability.Recorder
	policy         PollPolicy
	runOptions     ports.RunOptions
	logger         *zap.Logger
}

// NewRecallService creates a new recall service
func NewRecallService(
	platform ports.AssistantPlatform,
	eventPublisher ports.EventPublisher,
	metrics observability.Recorder,
	policy PollPolicy,
	logger *zap.Logger,
) *RecallService {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if metrics == nil {
		metrics = observability.NoopRecorder{}
	}
	return &RecallService{
		platform:       platform,
		eventPublisher: eventPublisher,
		metrics:        metrics,
		policy:         policy,
		runOptions:     ports.DefaultRunOptions(),
		logger:         logger,
	}
}

// Recall asks the account's persona a question and waits for the answer
// produced by that run
func (s *RecallService) Recall(ctx context.Context, account *entities.Account, question string) (*RecallResult, error) {
	personaID := account.PersonaID().String()

	threadID, err := s.platform.CreateThread(ctx)
	if err != nil {
		return nil, contextError(ctx, err)
	}

	if err := s.platform.AddMessage(ctx, threadID, "user", question); err != nil {
		return nil, contextError(ctx, err)
	}

	runID, err := s.platform.StartRun(ctx, threadID, personaID, s.runOptions)
	if err != nil {
		return nil, contextError(ctx, err)
	}

	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		messages, err := s.platform.ListMessages(ctx, threadID)
		if err != nil {
			return nil, contextError(ctx, err)
		}

		if answer, ok := MatchAnswer(messages, runID); ok {
			s.logger.Info("Recall answered",
				zap.String("accountID", account.ID().String()),
				zap.String("runID", runID),
				zap.Int("attempt", attempt),
			)
			s.finish(ctx, events.NewRecallAnswered(account.ID().String(), threadID, runID, attempt, time.Now().UTC()), attempt, true)
			return &RecallResult{Answer: answer, ThreadID: threadID, RunID: runID, Attempts: attempt}, nil
		}

		if attempt == s.policy.MaxAttempts {
			break
		}

		s.logger.Debug("Assistant reply not ready",
			zap.String("runID", runID),
			zap.Int("attempt", attempt),
		)

		if err := wait(ctx, s.policy.Delay); err != nil {
			return nil, contextError(ctx, err)
		}
	}

	s.logger.Warn("Recall timed out",
		zap.String("accountID", account.ID().String()),
		zap.String("runID", runID),
		zap.Int("attempts", s.policy.MaxAttempts),
	)
	s.finish(ctx, events.NewRecallTimedOut(account.ID().String(), threadID, runID, s.policy.MaxAttempts, time.Now().UTC()), s.policy.MaxAttempts, false)

	return nil, pkgerrors.NewTimeoutError(NoAnswerMessage)
}

// MatchAnswer finds the assistant message produced by runID and joins its
// non-empty text parts with a single space
func MatchAnswer(messages []ports.Message, runID string) (string, bool) {
	for _, msg := range messages {
		if msg.Role != "assistant" || msg.RunID != runID {
			continue
		}

		var parts []string
		for _, part := range msg.Content {
			if part.Type == "text" && part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " "), true
		}
	}
	return "", false
}

func (s *RecallService) finish(ctx context.Context, event events.RecallCompleted, attempts int, answered bool) {
	s.metrics.RecordRecallAttempts(ctx, attempts, answered)

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish domain event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err),
		)
	}
}

// wait blocks for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// contextError maps a caller deadline to Timeout and returns cancellation as-is
func contextError(ctx context.Context, err error) error {
	ctxErr := ctx.Err()
	switch {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return pkgerrors.NewTimeoutError(NoAnswerMessage).WithCause(ctxErr)
	case errors.Is(ctxErr, context.Canceled):
		return ctxErr
	default:
		return err
	}
}
