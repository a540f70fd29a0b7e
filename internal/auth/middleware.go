package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is unexported so only this package can read or write identity
// values in a request context — plain string keys would let any package
// shadow them.
type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated principal attached to a request context.
type Identity struct {
	UserID string
	Email  string
}

// OptionalAuth extracts and verifies a bearer token if one is present, and
// attaches the identity to the request context on success.
//
// This middleware is deliberately fail-open: a missing, malformed, expired,
// or tampered token leaves the request anonymous and lets it continue.
// Endpoints that need an identity check for one downstream and answer 401
// themselves. That split is what makes optionally-authenticated endpoints
// possible, so don't "harden" it into a rejection here.
//
// Verification failures are swallowed without logging — token contents
// never reach the logs.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := identityFromRequest(r, tokens); ok {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth is the strict variant: requests without a valid bearer token
// are rejected with 401 before the handler runs.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identityFromRequest(r, tokens)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the authenticated identity for the request,
// or ok=false when the request is anonymous.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// identityFromRequest pulls the token from the Authorization header and
// verifies it. Shared by both middleware variants.
func identityFromRequest(r *http.Request, tokens *TokenService) (Identity, bool) {
	raw, ok := bearerToken(r)
	if !ok {
		return Identity{}, false
	}
	claims, err := tokens.Verify(raw)
	if err != nil {
		return Identity{}, false
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, true
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme match is case-sensitive, per RFC 6750's example form
// and what every mainstream client sends.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
