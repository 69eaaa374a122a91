package auth

import "errors"

// Token validation errors. The API layer maps all of these to 401.
var (
	// ErrInvalidToken covers malformed tokens and signature mismatches.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is returned for tokens past their expiry claim.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid is returned while a token's nbf claim is in the
	// future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken is returned when no token was supplied at all.
	ErrMissingToken = errors.New("authentication token is missing")
)
