package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"hippo/pkg/auth"
	pkgerrors "hippo/pkg/errors"

	"go.uber.org/zap"
)

// Authenticate validates the session token on every request. With a nil
// validator requests pass through unauthenticated.
func Authenticate(validator *auth.JWTValidator, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if validator == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("Missing authentication token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Warn("Invalid token",
					zap.Error(err),
					zap.String("ip", ClientIP(r)),
					zap.String("path", r.URL.Path),
				)

				message := "Invalid token"
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					message = "Token has expired"
				case errors.Is(err, auth.ErrInvalidSignature):
					message = "Invalid token signature"
				}
				errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError(message))
				return
			}

			ctx := auth.WithIdentity(r.Context(), &auth.Identity{
				ClerkID:   claims.Subject,
				SessionID: claims.SessionID,
			})

			logger.Debug("Request authenticated",
				zap.String("clerkID", claims.Subject),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(authHeader)
}

// ClientIP returns the caller address. chi's RealIP middleware has already
// folded X-Forwarded-For and X-Real-IP into RemoteAddr.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
