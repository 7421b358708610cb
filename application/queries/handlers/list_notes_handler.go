package handlers

import (
	"context"

	"hippo/application/ports"
	"hippo/application/queries"
	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
	pkgerrors "hippo/pkg/errors"

	"go.uber.org/zap"
)

// ListNotesHandler handles ListNotesQuery
type ListNotesHandler struct {
	accountRepo ports.AccountRepository
	noteRepo    ports.NoteRepository
	logger      *zap.Logger
}

// NewListNotesHandler creates a new handler instance
func NewListNotesHandler(accountRepo ports.AccountRepository, noteRepo ports.NoteRepository, logger *zap.Logger) *ListNotesHandler {
	return &ListNotesHandler{
		accountRepo: accountRepo,
		noteRepo:    noteRepo,
		logger:      logger,
	}
}

// Handle executes the query
func (h *ListNotesHandler) Handle(ctx context.Context, query queries.ListNotesQuery) (*queries.ListNotesResult, error) {
	clerkID, err := valueobjects.NewClerkID(query.ClerkID)
	if err != nil {
		return nil, pkgerrors.NewInvalidRequestError("Missing required field: clerkId")
	}

	account, err := h.accountRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	notes, err := h.noteRepo.ListByAccount(ctx, account.ID())
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*entities.Note{}
	}

	h.logger.Debug("Listed notes",
		zap.String("accountID", account.ID().String()),
		zap.Int("count", len(notes)),
	)

	return &queries.ListNotesResult{Notes: notes}, nil
}
