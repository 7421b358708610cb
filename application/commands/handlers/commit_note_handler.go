package handlers

import (
	"context"
	"time"

	"hippo/application/commands"
	"hippo/application/ports"
	"hippo/domain/config"
	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
	"hippo/domain/events"
	pkgerrors "hippo/pkg/errors"

	"go.uber.org/zap"
)

// CommitNoteHandler persists a note and publishes it to the account's
// retrieval store
type CommitNoteHandler struct {
	accountRepo    ports.AccountRepository
	noteRepo       ports.NoteRepository
	platform       ports.AssistantPlatform
	eventPublisher ports.EventPublisher
	config         *config.DomainConfig
	logger         *zap.Logger
	now            func() time.Time
}

// NewCommitNoteHandler creates a new handler instance
func NewCommitNoteHandler(
	accountRepo ports.AccountRepository,
	noteRepo ports.NoteRepository,
	platform ports.AssistantPlatform,
	eventPublisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *CommitNoteHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &CommitNoteHandler{
		accountRepo:    accountRepo,
		noteRepo:       noteRepo,
		platform:       platform,
		eventPublisher: eventPublisher,
		config:         cfg,
		logger:         logger,
		now:            time.Now,
	}
}

// Handle executes the commit note command
func (h *CommitNoteHandler) Handle(ctx context.Context, cmd commands.CommitNoteCommand) (*commands.CommitNoteResult, error) {
	clerkID, err := valueobjects.NewClerkID(cmd.ClerkID)
	if err != nil {
		return nil, pkgerrors.NewInvalidRequestError("Missing required fields: clerkId")
	}

	account, err := h.accountRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	// Refuse before inserting so an unindexable note is never stored
	if !account.CanIndexNotes() {
		return nil, pkgerrors.NewInvalidStateError("User does not have a valid vector_store_id.")
	}

	content, err := valueobjects.NewNoteContentWithConfig(cmd.Content, h.now(), h.config)
	if err != nil {
		return nil, err
	}

	note, err := entities.NewNote(account.ID(), content)
	if err != nil {
		return nil, err
	}

	if err := h.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	fileID, err := h.platform.UploadDocument(ctx, account.StoreID().String(), ports.Document{
		Filename: note.DocumentName(),
		Content:  note.Content().Document(),
	})
	if err != nil {
		// The row stays; the note is stored but will not be recalled
		h.logger.Error("Failed to index note",
			zap.String("noteID", note.ID().String()),
			zap.String("vectorStoreID", account.StoreID().String()),
			zap.Error(err),
		)
		return nil, err
	}

	event := events.NewNoteCommitted(note.ID().String(), account.ID().String(), fileID, h.now().UTC())
	if err := h.eventPublisher.Publish(ctx, event); err != nil {
		h.logger.Error("Failed to publish domain event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err),
		)
	}

	h.logger.Info("Note committed",
		zap.String("noteID", note.ID().String()),
		zap.String("accountID", account.ID().String()),
		zap.String("fileID", fileID),
	)

	return &commands.CommitNoteResult{Note: note, FileID: fileID}, nil
}
