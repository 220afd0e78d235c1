package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig configures the token verifier.
type TokenConfig struct {
	// Key is the HMAC key tokens must be signed with.
	Key []byte

	// Issuer, when set, must match the token's iss claim.
	Issuer string

	// Audience, when set, must appear in the token's aud claim.
	Audience string

	// HeaderName is the header containing the token.
	// Default: "Authorization"
	HeaderName string

	// TokenPrefix is the prefix before the token in the header.
	// Default: "Bearer "
	TokenPrefix string
}

// Claims is the validated identity extracted from a token.
type Claims struct {
	// Subject is the token's sub claim.
	Subject string

	// Issuer is the token's iss claim.
	Issuer string

	// ExpiresAt is when the token expires; zero when the claim is absent.
	ExpiresAt time.Time

	// IssuedAt is when the token was issued; zero when the claim is absent.
	IssuedAt time.Time

	// Raw holds every claim as parsed.
	Raw map[string]any
}

// validMethods limits verification to the HMAC family, so a token
// signed with none or an asymmetric algorithm never matches the key.
var validMethods = []string{"HS256", "HS384", "HS512"}

// TokenVerifier validates HMAC-signed bearer tokens.
//
// Contract:
//   - Concurrency: safe for concurrent use; the verifier is immutable
//     after construction.
//   - Errors: verification failures map onto the package sentinels, so
//     callers can branch with errors.Is.
type TokenVerifier struct {
	config TokenConfig
}

// NewTokenVerifier creates a token verifier.
func NewTokenVerifier(config TokenConfig) *TokenVerifier {
	if config.HeaderName == "" {
		config.HeaderName = "Authorization"
	}
	if config.TokenPrefix == "" {
		config.TokenPrefix = "Bearer "
	}
	return &TokenVerifier{config: config}
}

// VerifyRequest extracts the bearer token from the request and
// verifies it. A missing header or missing prefix is ErrMissingToken.
func (v *TokenVerifier) VerifyRequest(r *http.Request) (*Claims, error) {
	header := r.Header.Get(v.config.HeaderName)
	if header == "" {
		return nil, ErrMissingToken
	}

	raw := strings.TrimPrefix(header, v.config.TokenPrefix)
	if raw == header {
		return nil, ErrMissingToken
	}
	return v.Verify(strings.TrimSpace(raw))
}

// Verify parses and validates a raw token string, returning its claims.
func (v *TokenVerifier) Verify(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		return v.config.Key, nil
	}, jwt.WithValidMethods(validMethods))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if v.config.Issuer != "" {
		if iss, ok := mc["iss"].(string); !ok || iss != v.config.Issuer {
			return nil, ErrWrongIssuer
		}
	}
	if v.config.Audience != "" && !containsAudience(audiences(mc), v.config.Audience) {
		return nil, ErrWrongAudience
	}

	return buildClaims(mc), nil
}

func audiences(mc jwt.MapClaims) []string {
	switch v := mc["aud"].(type) {
	case string:
		return []string{v}
	case []any:
		result := make([]string, 0, len(v))
		for _, aud := range v {
			if s, ok := aud.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}

func containsAudience(audiences []string, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}

func buildClaims(mc jwt.MapClaims) *Claims {
	claims := &Claims{
		Raw: make(map[string]any, len(mc)),
	}
	for k, v := range mc {
		claims.Raw[k] = v
	}

	if sub, ok := mc["sub"].(string); ok {
		claims.Subject = sub
	}
	if iss, ok := mc["iss"].(string); ok {
		claims.Issuer = iss
	}
	if exp, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if iat, ok := mc["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	return claims
}
