package handlers

import (
	"context"
	"strings"

	"hippo/application/ports"
	"hippo/application/queries"
	"hippo/application/services"
	"hippo/domain/config"
	"hippo/domain/core/valueobjects"
	pkgerrors "hippo/pkg/errors"
)

// RecallHandler handles RecallQuery
type RecallHandler struct {
	accountRepo ports.AccountRepository
	recall      *services.RecallService
	config      *config.DomainConfig
}

// NewRecallHandler creates a new handler instance
func NewRecallHandler(accountRepo ports.AccountRepository, recall *services.RecallService, cfg *config.DomainConfig) *RecallHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &RecallHandler{
		accountRepo: accountRepo,
		recall:      recall,
		config:      cfg,
	}
}

// Handle executes the query
func (h *RecallHandler) Handle(ctx context.Context, query queries.RecallQuery) (*queries.RecallAnswer, error) {
	clerkID, err := valueobjects.NewClerkID(query.ClerkID)
	if err != nil {
		return nil, pkgerrors.NewInvalidRequestError("Missing required fields: clerkId")
	}

	question := strings.TrimSpace(query.Question)
	if h.config.MaxQuestionLength > 0 && len([]rune(question)) > h.config.MaxQuestionLength {
		return nil, pkgerrors.NewInvalidRequestError("question is too long")
	}

	account, err := h.accountRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if !account.CanRecall(h.config.PersonaIDPrefix) {
		return nil, pkgerrors.NewInvalidStateError("Invalid assistant_id format.")
	}

	result, err := h.recall.Recall(ctx, account, question)
	if err != nil {
		return nil, err
	}

	return &queries.RecallAnswer{Answer: result.Answer, Attempts: result.Attempts}, nil
}
