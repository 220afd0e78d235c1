package auth

import "context"

// contextKey is a private key type for context values.
type contextKey int

const claimsKey contextKey = 0

// WithClaims returns a new context with the validated claims attached.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext retrieves the validated claims from the context.
// Returns nil if the request did not pass through Middleware.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// SubjectFromContext retrieves the authenticated subject from the
// context. Returns empty string if no claims are present.
func SubjectFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Subject
}
