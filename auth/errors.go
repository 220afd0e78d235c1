package auth

import "errors"

// Sentinel errors for token verification.
var (
	ErrMissingToken  = errors.New("auth: missing token")
	ErrInvalidToken  = errors.New("auth: invalid token")
	ErrTokenExpired  = errors.New("auth: token expired")
	ErrWrongIssuer   = errors.New("auth: wrong issuer")
	ErrWrongAudience = errors.New("auth: wrong audience")
)
