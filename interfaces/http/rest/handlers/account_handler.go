package handlers

import (
	"net/http"

	"hippo/application/commands"
	"hippo/application/commands/bus"
	pkgerrors "hippo/pkg/errors"

	"go.uber.org/zap"
)

// AccountHandler handles account provisioning requests
type AccountHandler struct {
	base
	commandBus *bus.CommandBus
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(commandBus *bus.CommandBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		base:       base{errorHandler: errorHandler, logger: logger},
		commandBus: commandBus,
	}
}

// EnsureAccount handles POST /user. It returns 201 when the account was
// created by this call and 200 when it already existed.
func (h *AccountHandler) EnsureAccount(w http.ResponseWriter, r *http.Request) {
	var cmd commands.EnsureAccountCommand
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

	ensured, ok := result.(*commands.EnsureAccountResult)
	if !ok {
		h.errorHandler.Handle(w, r, pkgerrors.NewInternalError("unexpected command result"))
		return
	}

	status := http.StatusOK
	if ensured.Created {
		status = http.StatusCreated
	}
	h.respond(w, status, toAccountResponse(ensured.Account))
}
