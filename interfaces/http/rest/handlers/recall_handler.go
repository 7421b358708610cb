package handlers

import (
	"net/http"

	"hippo/application/queries"
	querybus "hippo/application/queries/bus"
	pkgerrors "hippo/pkg/errors"

	"go.uber.org/zap"
)

// RecallHandler answers questions about a user's notes
type RecallHandler struct {
	base
	queryBus *querybus.QueryBus
}

// NewRecallHandler creates a new recall handler
func NewRecallHandler(queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *RecallHandler {
	return &RecallHandler{
		base:     base{errorHandler: errorHandler, logger: logger},
		queryBus: queryBus,
	}
}

// Ask handles POST /ask. The request context bounds polling, so a client
// disconnect stops it.
func (h *RecallHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var query queries.RecallQuery
	if !h.decode(w, r, &query) {
		return
	}
	if !h.authorize(w, r, query.ClerkID) {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	answer, ok := result.(*queries.RecallAnswer)
	if !ok {
		h.errorHandler.Handle(w, r, pkgerrors.NewInternalError("unexpected query result"))
		return
	}

	h.respond(w, http.StatusOK, answer.Answer)
}
