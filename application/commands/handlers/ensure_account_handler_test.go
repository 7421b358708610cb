package handlers

import (
	"context"
	"errors"
	"testing"

	"hippo/application/commands"
	"hippo/application/ports"
	"hippo/domain/config"
	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
	pkgerrors "hippo/pkg/errors"
	"hippo/tests/fixtures"
	"hippo/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEnsureAccountHandler() (*EnsureAccountHandler, *mocks.MockAccountRepository, *mocks.MockAssistantPlatform, *mocks.MockEventPublisher) {
	repo := new(mocks.MockAccountRepository)
	platform := new(mocks.MockAssistantPlatform)
	publisher := new(mocks.MockEventPublisher)
	handler := NewEnsureAccountHandler(repo, platform, publisher, config.DefaultDomainConfig(), zap.NewNop())
	return handler, repo, platform, publisher
}

func clerk(t *testing.T, raw string) valueobjects.ClerkID {
	t.Helper()
	id, err := valueobjects.NewClerkID(raw)
	require.NoError(t, err)
	return id
}

func TestEnsureAccountHandler_ExistingAccount(t *testing.T) {
	// Arrange
	ctx := context.Background()
	handler, repo, platform, _ := newEnsureAccountHandler()
	existing := fixtures.NewAccountBuilder().WithClerkID("u1").Build()

	repo.On("GetByClerkID", ctx, clerk(t, "u1")).Return(existing, nil)

	// Act
	result, err := handler.Handle(ctx, commands.EnsureAccountCommand{Name: "Ada", Email: "ada@x.com", ClerkID: "u1"})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Same(t, existing, result.Account)
	platform.AssertNotCalled(t, "CreatePersona", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestEnsureAccountHandler_ProvisionsNewAccount(t *testing.T) {
	// Arrange
	ctx := context.Background()
	handler, repo, platform, publisher := newEnsureAccountHandler()

	repo.On("GetByClerkID", ctx, clerk(t, "u1")).Return(nil, pkgerrors.NewNotFoundError("User"))
	platform.On("CreatePersona", ctx, mock.MatchedBy(func(spec ports.PersonaSpec) bool {
		return spec.Name == "Ada's Assistant" && spec.Model == "gpt-4o" && spec.Instructions != ""
	})).Return("asst_1", nil).Once()
	platform.On("CreateRetrievalStore", ctx, "Ada's Vector Store").Return("vs_1", nil).Once()
	platform.On("AttachStore", ctx, "asst_1", "vs_1").Return(nil).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*entities.Account")).Return(nil)
	publisher.On("PublishBatch", ctx, mock.Anything).Return(nil)

	// Act
	result, err := handler.Handle(ctx, commands.EnsureAccountCommand{Name: "Ada", Email: "ada@x.com", ClerkID: "u1"})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "asst_1", result.Account.PersonaID().String())
	assert.Equal(t, "vs_1", result.Account.StoreID().String())
	assert.Equal(t, "u1", result.Account.ClerkID().String())
	assert.Empty(t, result.Account.GetUncommittedEvents())
	mock.AssertExpectationsForObjects(t, repo, platform, publisher)
}

func TestEnsureAccountHandler_StoreCreationFails(t *testing.T) {
	// Arrange
	ctx := context.Background()
	handler, repo, platform, _ := newEnsureAccountHandler()
	upstream := pkgerrors.NewUpstreamError("quota exceeded", 429)

	repo.On("GetByClerkID", ctx, clerk(t, "u1")).Return(nil, pkgerrors.NewNotFoundError("User"))
	platform.On("CreatePersona", ctx, mock.Anything).Return("asst_1", nil)
	platform.On("CreateRetrievalStore", ctx, mock.Anything).Return("", upstream)
	platform.On("DeletePersona", mock.Anything, "asst_1").Return(nil)

	// Act
	result, err := handler.Handle(ctx, commands.EnsureAccountCommand{Name: "Ada", Email: "ada@x.com", ClerkID: "u1"})

	// Assert
	assert.Nil(t, result)
	assert.True(t, pkgerrors.IsUpstream(err))
	assert.Equal(t, 429, pkgerrors.GetAppError(err).HTTPStatus)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	platform.AssertCalled(t, "DeletePersona", mock.Anything, "asst_1")
}

func TestEnsureAccountHandler_ConcurrentCreateReturnsWinner(t *testing.T) {
	// Arrange
	ctx := context.Background()
	handler, repo, platform, _ := newEnsureAccountHandler()
	winner := fixtures.NewAccountBuilder().WithClerkID("u1").WithPersonaID("asst_winner").Build()

	repo.On("GetByClerkID", ctx, clerk(t, "u1")).Return(nil, pkgerrors.NewNotFoundError("User")).Once()
	repo.On("GetByClerkID", ctx, clerk(t, "u1")).Return(winner, nil).Once()
	platform.On("CreatePersona", ctx, mock.Anything).Return("asst_loser", nil)
	platform.On("CreateRetrievalStore", ctx, mock.Anything).Return("vs_loser", nil)
	platform.On("AttachStore", ctx, "asst_loser", "vs_loser").Return(nil)
	repo.On("Create", ctx, mock.AnythingOfType("*entities.Account")).Return(ports.ErrAccountExists)
	platform.On("DeletePersona", mock.Anything, "asst_loser").Return(errors.New("already gone"))
	platform.On("DeleteRetrievalStore", mock.Anything, "vs_loser").Return(nil)

	// Act
	result, err := handler.Handle(ctx, commands.EnsureAccountCommand{Name: "Ada", Email: "ada@x.com", ClerkID: "u1"})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Same(t, winner, result.Account)
	mock.AssertExpectationsForObjects(t, repo, platform)
}

func TestEnsureAccountHandler_PublishFailureDoesNotFail(t *testing.T) {
	// Arrange
	ctx := context.Background()
	handler, repo, platform, publisher := newEnsureAccountHandler()

	repo.On("GetByClerkID", ctx, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("User"))
	platform.On("CreatePersona", ctx, mock.Anything).Return("asst_1", nil)
	platform.On("CreateRetrievalStore", ctx, mock.Anything).Return("vs_1", nil)
	platform.On("AttachStore", ctx, "asst_1", "vs_1").Return(nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)
	publisher.On("PublishBatch", ctx, mock.Anything).Return(errors.New("bus down"))

	// Act
	result, err := handler.Handle(ctx, commands.EnsureAccountCommand{Name: "Ada", Email: "ada@x.com", ClerkID: "u1"})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Created)
	require.IsType(t, &entities.Account{}, result.Account)
}

func TestEnsureAccountHandler_RepositoryError(t *testing.T) {
	ctx := context.Background()
	handler, repo, platform, _ := newEnsureAccountHandler()

	repo.On("GetByClerkID", ctx, mock.Anything).Return(nil, pkgerrors.NewDatabaseError("get account", errors.New("conn refused")))

	_, err := handler.Handle(ctx, commands.EnsureAccountCommand{Name: "Ada", Email: "ada@x.com", ClerkID: "u1"})

	assert.True(t, pkgerrors.IsUpstream(err))
	platform.AssertNotCalled(t, "CreatePersona", mock.Anything, mock.Anything)
}
