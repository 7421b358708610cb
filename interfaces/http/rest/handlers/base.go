// Package handlers adapts HTTP requests onto the command and query buses.
package handlers

import (
	"net/http"
	"strings"

	"hippo/pkg/auth"
	"hippo/pkg/common"
	pkgerrors "hippo/pkg/errors"

	"go.uber.org/zap"
)

// base holds what every handler needs to decode requests and write responses
type base struct {
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// decode reads the JSON body into v, writing a 400 on malformed input
func (b base) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(w, r, v, common.MaxBodyBytes); err != nil {
		b.logger.Debug("Malformed request body", zap.Error(err), zap.String("path", r.URL.Path))
		b.errorHandler.Handle(w, r, pkgerrors.NewInvalidRequestError("Invalid request body").WithCause(err))
		return false
	}
	return true
}

// authorize rejects requests whose session subject differs from the clerk id
// they act on. Unauthenticated deployments trust the body.
func (b base) authorize(w http.ResponseWriter, r *http.Request, clerkID string) bool {
	identity, ok := auth.IdentityFromContext(r.Context())
	clerkID = strings.TrimSpace(clerkID)
	if !ok || clerkID == "" {
		return true
	}
	if identity.ClerkID != clerkID {
		b.logger.Warn("Clerk id does not match session",
			zap.String("sessionClerkID", identity.ClerkID),
			zap.String("clerkID", clerkID),
		)
		b.errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("clerkId does not match the session"))
		return false
	}
	return true
}

func (b base) respond(w http.ResponseWriter, status int, data interface{}) {
	if err := common.RespondJSON(w, status, data); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}
