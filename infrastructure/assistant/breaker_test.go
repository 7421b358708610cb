package assistant

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	pkgerrors "hippo/pkg/errors"
	"hippo/tests/mocks"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBreakerConfig() BreakerConfig {
	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 2
	cfg.FailureThreshold = 0.5
	cfg.Timeout = time.Minute
	return cfg
}

func TestBreaker_TripsOnServerErrors(t *testing.T) {
	// Arrange
	platform := new(mocks.MockAssistantPlatform)
	platform.On("CreateThread", mock.Anything).Return("", pkgerrors.NewUpstreamError("OpenAI API Error", http.StatusInternalServerError))
	b := NewBreakerPlatform(platform, testBreakerConfig(), zap.NewNop())

	// Act
	for i := 0; i < 2; i++ {
		_, _ = b.CreateThread(context.Background())
	}
	_, err := b.CreateThread(context.Background())

	// Assert
	assert.Equal(t, gobreaker.StateOpen, b.State())
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, pkgerrors.GetAppError(err).HTTPStatus)
	platform.AssertNumberOfCalls(t, "CreateThread", 2)
}

func TestBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	platform := new(mocks.MockAssistantPlatform)
	platform.On("AddMessage", mock.Anything, "t", "user", "q").Return(pkgerrors.NewUpstreamError("Invalid request", http.StatusBadRequest))
	b := NewBreakerPlatform(platform, testBreakerConfig(), zap.NewNop())

	for i := 0; i < 5; i++ {
		err := b.AddMessage(context.Background(), "t", "user", "q")
		assert.Equal(t, http.StatusBadRequest, pkgerrors.GetAppError(err).HTTPStatus)
	}

	assert.Equal(t, gobreaker.StateClosed, b.State())
	platform.AssertNumberOfCalls(t, "AddMessage", 5)
}

func TestBreaker_PassesResultsThrough(t *testing.T) {
	platform := new(mocks.MockAssistantPlatform)
	platform.On("CreateRetrievalStore", mock.Anything, "Ada's Vector Store").Return("vs_1", nil)
	b := NewBreakerPlatform(platform, testBreakerConfig(), zap.NewNop())

	id, err := b.CreateRetrievalStore(context.Background(), "Ada's Vector Store")

	require.NoError(t, err)
	assert.Equal(t, "vs_1", id)
}

func TestCountsAsSuccess(t *testing.T) {
	assert.True(t, countsAsSuccess(nil))
	assert.True(t, countsAsSuccess(context.Canceled))
	assert.True(t, countsAsSuccess(pkgerrors.NewUpstreamError("x", 404)))
	assert.True(t, countsAsSuccess(pkgerrors.NewNotFoundError("User")))
	assert.False(t, countsAsSuccess(pkgerrors.NewUpstreamError("x", 502)))
	assert.False(t, countsAsSuccess(pkgerrors.NewUpstreamError("x", 0)))
	assert.True(t, countsAsSuccess(errors.New("plain")))
}
