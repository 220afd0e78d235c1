// Package auth guards operational HTTP endpoints with bearer-token
// verification.
//
// A TokenVerifier validates HMAC-signed JWTs (HS256 family) and
// optionally enforces issuer and audience claims. Its Middleware
// rejects unauthenticated requests with a 401 JSON body before they
// reach the wrapped handler:
//
//	guard := auth.NewTokenVerifier(auth.TokenConfig{
//	    Key:      secret,
//	    Issuer:   "ops",
//	    Audience: "internal",
//	})
//	mux.Handle("/health", guard.Middleware(health.DetailedHandler(rep)))
//
// Validated claims travel on the request context; handlers retrieve
// them with ClaimsFromContext or SubjectFromContext.
package auth
