package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hippo/application/ports"
	"hippo/domain/events"
	pkgerrors "hippo/pkg/errors"
	"hippo/tests/fixtures"
	"hippo/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func answer(runID string, texts ...string) ports.Message {
	msg := ports.Message{ID: "msg_" + runID, Role: "assistant", RunID: runID}
	for _, text := range texts {
		msg.Content = append(msg.Content, ports.ContentPart{Type: "text", Text: text})
	}
	return msg
}

func question() ports.Message {
	return ports.Message{ID: "msg_q", Role: "user", Content: []ports.ContentPart{{Type: "text", Text: "what should I buy?"}}}
}

func newRecallFixture(policy PollPolicy) (*RecallService, *mocks.MockAssistantPlatform, *mocks.MockEventPublisher) {
	platform := new(mocks.MockAssistantPlatform)
	publisher := new(mocks.MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	platform.On("CreateThread", mock.Anything).Return("thread_1", nil)
	platform.On("AddMessage", mock.Anything, "thread_1", "user", "what should I buy?").Return(nil)
	platform.On("StartRun", mock.Anything, "thread_1", "asst_test123", ports.DefaultRunOptions()).Return("run_1", nil)

	return NewRecallService(platform, publisher, nil, policy, zap.NewNop()), platform, publisher
}

func TestRecall_MatchOnThirdPoll(t *testing.T) {
	// Arrange
	svc, platform, publisher := newRecallFixture(PollPolicy{MaxAttempts: 5, Delay: time.Millisecond})
	account := fixtures.NewAccountBuilder().Build()

	platform.On("ListMessages", mock.Anything, "thread_1").Return([]ports.Message{question()}, nil).Twice()
	platform.On("ListMessages", mock.Anything, "thread_1").Return([]ports.Message{answer("run_1", "You noted", "milk."), question()}, nil).Once()

	// Act
	result, err := svc.Recall(context.Background(), account, "what should I buy?")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "You noted milk.", result.Answer)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "run_1", result.RunID)
	platform.AssertNumberOfCalls(t, "ListMessages", 3)
	publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e events.DomainEvent) bool {
		return e.GetEventType() == "recall.answered"
	}))
}

func TestRecall_TimesOutAfterMaxAttempts(t *testing.T) {
	// Arrange
	svc, platform, publisher := newRecallFixture(PollPolicy{MaxAttempts: 5, Delay: time.Millisecond})
	account := fixtures.NewAccountBuilder().Build()

	platform.On("ListMessages", mock.Anything, "thread_1").Return([]ports.Message{question()}, nil)

	// Act
	result, err := svc.Recall(context.Background(), account, "what should I buy?")

	// Assert
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.Equal(t, NoAnswerMessage, pkgerrors.GetAppError(err).Message)
	platform.AssertNumberOfCalls(t, "ListMessages", 5)
	publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e events.DomainEvent) bool {
		completed, ok := e.(events.RecallCompleted)
		return ok && completed.EventType == "recall.timed_out" && completed.Attempts == 5
	}))
}

func TestRecall_NoSleepAfterLastAttempt(t *testing.T) {
	svc, platform, _ := newRecallFixture(PollPolicy{MaxAttempts: 1, Delay: time.Hour})
	account := fixtures.NewAccountBuilder().Build()

	platform.On("ListMessages", mock.Anything, "thread_1").Return([]ports.Message{}, nil)

	start := time.Now()
	_, err := svc.Recall(context.Background(), account, "what should I buy?")

	assert.True(t, pkgerrors.IsTimeout(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestRecall_IgnoresRepliesFromOtherRuns(t *testing.T) {
	svc, platform, _ := newRecallFixture(PollPolicy{MaxAttempts: 2, Delay: time.Millisecond})
	account := fixtures.NewAccountBuilder().Build()

	stale := answer("run_old", "An old answer")
	empty := answer("run_1", "")
	platform.On("ListMessages", mock.Anything, "thread_1").Return([]ports.Message{stale, empty, question()}, nil)

	_, err := svc.Recall(context.Background(), account, "what should I buy?")

	assert.True(t, pkgerrors.IsTimeout(err))
	platform.AssertNumberOfCalls(t, "ListMessages", 2)
}

func TestRecall_UpstreamErrorStopsPolling(t *testing.T) {
	svc, platform, _ := newRecallFixture(PollPolicy{MaxAttempts: 5, Delay: time.Millisecond})
	account := fixtures.NewAccountBuilder().Build()

	platform.On("ListMessages", mock.Anything, "thread_1").Return(nil, pkgerrors.NewUpstreamError("Rate limit reached", 429))

	_, err := svc.Recall(context.Background(), account, "what should I buy?")

	assert.True(t, pkgerrors.IsUpstream(err))
	assert.Equal(t, 429, pkgerrors.GetAppError(err).HTTPStatus)
	platform.AssertNumberOfCalls(t, "ListMessages", 1)
}

func TestRecall_DeadlineMapsToTimeout(t *testing.T) {
	svc, platform, _ := newRecallFixture(PollPolicy{MaxAttempts: 5, Delay: time.Hour})
	account := fixtures.NewAccountBuilder().Build()

	platform.On("ListMessages", mock.Anything, "thread_1").Return([]ports.Message{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Recall(ctx, account, "what should I buy?")

	assert.True(t, pkgerrors.IsTimeout(err))
	platform.AssertNumberOfCalls(t, "ListMessages", 1)
}

func TestRecall_CancellationReturnedAsIs(t *testing.T) {
	svc, platform, _ := newRecallFixture(PollPolicy{MaxAttempts: 5, Delay: time.Hour})
	account := fixtures.NewAccountBuilder().Build()

	ctx, cancel := context.WithCancel(context.Background())
	platform.On("ListMessages", mock.Anything, "thread_1").Run(func(mock.Arguments) { cancel() }).Return([]ports.Message{}, nil)

	_, err := svc.Recall(ctx, account, "what should I buy?")

	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, pkgerrors.IsTimeout(err))
}

func TestMatchAnswer(t *testing.T) {
	tests := []struct {
		name     string
		messages []ports.Message
		want     string
		wantOK   bool
	}{
		{
			name:     "joins text parts",
			messages: []ports.Message{answer("run_1", "a", "b", "c")},
			want:     "a b c",
			wantOK:   true,
		},
		{
			name: "skips non-text parts",
			messages: []ports.Message{{
				Role:  "assistant",
				RunID: "run_1",
				Content: []ports.ContentPart{
					{Type: "image_file"},
					{Type: "text", Text: "only this"},
				},
			}},
			want:   "only this",
			wantOK: true,
		},
		{
			name:     "whitespace reply is still a reply",
			messages: []ports.Message{answer("run_1", " ")},
			want:     " ",
			wantOK:   true,
		},
		{
			name:     "empty text parts are skipped",
			messages: []ports.Message{answer("run_1", "", "kept", "")},
			want:     "kept",
			wantOK:   true,
		},
		{
			name:     "only empty parts never match",
			messages: []ports.Message{answer("run_1", "")},
		},
		{
			name:     "user role never matches",
			messages: []ports.Message{{Role: "user", RunID: "run_1", Content: []ports.ContentPart{{Type: "text", Text: "x"}}}},
		},
		{
			name:     "empty list",
			messages: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchAnswer(tt.messages, "run_1")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPersonaSpecFor(t *testing.T) {
	spec := PersonaSpecFor("Ada", "gpt-4o")

	assert.Equal(t, "Ada's Assistant", spec.Name)
	assert.Equal(t, "gpt-4o", spec.Model)
	assert.Contains(t, spec.Instructions, "second person")
	assert.Equal(t, "Ada's Vector Store", RetrievalStoreName("Ada"))
}
