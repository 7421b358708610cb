package handlers

import (
	"net/http"

	"hippo/application/commands"
	"hippo/application/commands/bus"
	"hippo/application/queries"
	querybus "hippo/application/queries/bus"
	pkgerrors "hippo/pkg/errors"

	"go.uber.org/zap"
)

// NoteHandler handles note ingestion and listing
type NoteHandler struct {
	base
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		base:       base{errorHandler: errorHandler, logger: logger},
		commandBus: commandBus,
		queryBus:   queryBus,
	}
}

// CommitNote handles POST /note
func (h *NoteHandler) CommitNote(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CommitNoteCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	if !h.authorize(w, r, cmd.ClerkID) {
		return
	}

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	committed, ok := result.(*commands.CommitNoteResult)
	if !ok {
		h.errorHandler.Handle(w, r, pkgerrors.NewInternalError("unexpected command result"))
		return
	}

	h.respond(w, http.StatusCreated, toNoteResponse(committed.Note))
}

// ListNotes handles GET /note?clerkId=
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	query := queries.ListNotesQuery{ClerkID: r.URL.Query().Get("clerkId")}
	if !h.authorize(w, r, query.ClerkID) {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	listed, ok := result.(*queries.ListNotesResult)
	if !ok {
		h.errorHandler.Handle(w, r, pkgerrors.NewInternalError("unexpected query result"))
		return
	}

	h.respond(w, http.StatusOK, toNoteResponses(listed.Notes))
}
