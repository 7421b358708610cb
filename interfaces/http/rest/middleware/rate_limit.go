package middleware

import (
	"net/http"

	"hippo/pkg/auth"
	pkgerrors "hippo/pkg/errors"

	"go.uber.org/zap"
)

// RateLimit rejects callers that exceed perMinute requests. Limiter
// errors fail open.
func RateLimit(limiter auth.RateLimiter, perMinute int, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + ClientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter error", zap.Error(err), zap.String("key", key))
			}
			if !allowed {
				errorHandler.Handle(w, r, pkgerrors.NewRateLimitError(perMinute, "minute"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
