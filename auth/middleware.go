package auth

import (
	"encoding/json"
	"net/http"
)

// Middleware wraps next so only requests carrying a valid token reach
// it. Rejected requests get a 401 with a JSON error body. Validated
// claims are attached to the request context for downstream handlers.
//
//	guard := auth.NewTokenVerifier(auth.TokenConfig{Key: key, Issuer: "ops"})
//	mux.Handle("/health", guard.Middleware(health.DetailedHandler(rep)))
func (v *TokenVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := v.VerifyRequest(r)
		if err != nil {
			writeUnauthorized(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
