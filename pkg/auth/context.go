package auth

import "context"

// Identity is the authenticated caller attached to a request context
type Identity struct {
	ClerkID   string
	SessionID string
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity adds the caller identity to the context
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the caller identity, if the request was authenticated
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok && identity != nil
}
