package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"hippo/application/commands"
	"hippo/application/ports"
	"hippo/application/services"
	"hippo/domain/config"
	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
	pkgerrors "hippo/pkg/errors"

	"go.uber.org/zap"
)

// cleanupTimeout bounds the best-effort removal of orphaned platform resources
const cleanupTimeout = 10 * time.Second

// EnsureAccountHandler returns the account for a clerk id, provisioning a
// persona and retrieval store for it on first sight
type EnsureAccountHandler struct {
	accountRepo    ports.AccountRepository
	platform       ports.AssistantPlatform
	eventPublisher ports.EventPublisher
	config         *config.DomainConfig
	logger         *zap.Logger
}

// NewEnsureAccountHandler creates a new handler instance
func NewEnsureAccountHandler(
	accountRepo ports.AccountRepository,
	platform ports.AssistantPlatform,
	eventPublisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *EnsureAccountHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &EnsureAccountHandler{
		accountRepo:    accountRepo,
		platform:       platform,
		eventPublisher: eventPublisher,
		config:         cfg,
		logger:         logger,
	}
}

// Handle executes the ensure account command
func (h *EnsureAccountHandler) Handle(ctx context.Context, cmd commands.EnsureAccountCommand) (*commands.EnsureAccountResult, error) {
	clerkID, err := valueobjects.NewClerkID(cmd.ClerkID)
	if err != nil {
		return nil, pkgerrors.NewInvalidRequestError("Missing required fields: clerkId")
	}

	existing, err := h.accountRepo.GetByClerkID(ctx, clerkID)
	if err == nil {
		return &commands.EnsureAccountResult{Account: existing, Created: false}, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	name := strings.TrimSpace(cmd.Name)
	personaID, storeID, err := h.provision(ctx, name)
	if err != nil {
		return nil, err
	}

	account, err := entities.NewAccount(clerkID, name, cmd.Email, personaID, storeID)
	if err != nil {
		h.cleanup(ctx, personaID, storeID)
		return nil, err
	}

	if err := h.accountRepo.Create(ctx, account); err != nil {
		h.cleanup(ctx, personaID, storeID)

		if !errors.Is(err, ports.ErrAccountExists) {
			return nil, err
		}

		// Another request won the insert; its account is the canonical one
		winner, getErr := h.accountRepo.GetByClerkID(ctx, clerkID)
		if getErr != nil {
			return nil, getErr
		}
		h.logger.Info("Account created concurrently, returning existing",
			zap.String("clerkID", clerkID.String()),
			zap.String("accountID", winner.ID().String()),
		)
		return &commands.EnsureAccountResult{Account: winner, Created: false}, nil
	}

	h.publishEvents(ctx, account)

	h.logger.Info("Account provisioned",
		zap.String("clerkID", clerkID.String()),
		zap.String("accountID", account.ID().String()),
		zap.String("assistantID", personaID.String()),
		zap.String("vectorStoreID", storeID.String()),
	)

	return &commands.EnsureAccountResult{Account: account, Created: true}, nil
}

// provision creates the persona, then the store, then attaches the store to
// the persona. Resources created before a failing step are removed.
func (h *EnsureAccountHandler) provision(ctx context.Context, name string) (valueobjects.PersonaID, valueobjects.StoreID, error) {
	rawPersona, err := h.platform.CreatePersona(ctx, services.PersonaSpecFor(name, h.config.PersonaModel))
	if err != nil {
		return valueobjects.PersonaID{}, valueobjects.StoreID{}, err
	}
	personaID := valueobjects.NewPersonaID(rawPersona)

	rawStore, err := h.platform.CreateRetrievalStore(ctx, services.RetrievalStoreName(name))
	if err != nil {
		h.cleanup(ctx, personaID, valueobjects.StoreID{})
		return valueobjects.PersonaID{}, valueobjects.StoreID{}, err
	}
	storeID := valueobjects.NewStoreID(rawStore)

	if err := h.platform.AttachStore(ctx, personaID.String(), storeID.String()); err != nil {
		h.cleanup(ctx, personaID, storeID)
		return valueobjects.PersonaID{}, valueobjects.StoreID{}, err
	}

	return personaID, storeID, nil
}

// cleanup deletes platform resources that no account references. Failures
// are logged only.
func (h *EnsureAccountHandler) cleanup(ctx context.Context, personaID valueobjects.PersonaID, storeID valueobjects.StoreID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if !personaID.IsZero() {
		if err := h.platform.DeletePersona(ctx, personaID.String()); err != nil {
			h.logger.Warn("Failed to delete orphaned assistant",
				zap.String("assistantID", personaID.String()),
				zap.Error(err),
			)
		}
	}
	if !storeID.IsZero() {
		if err := h.platform.DeleteRetrievalStore(ctx, storeID.String()); err != nil {
			h.logger.Warn("Failed to delete orphaned vector store",
				zap.String("vectorStoreID", storeID.String()),
				zap.Error(err),
			)
		}
	}
}

func (h *EnsureAccountHandler) publishEvents(ctx context.Context, account *entities.Account) {
	events := account.GetUncommittedEvents()
	if len(events) == 0 {
		return
	}

	if err := h.eventPublisher.PublishBatch(ctx, events); err != nil {
		// Log error but don't fail - the account is already persisted
		h.logger.Error("Failed to publish domain events",
			zap.Error(err),
			zap.Int("eventCount", len(events)),
		)
		return
	}
	account.MarkEventsAsCommitted()
}
