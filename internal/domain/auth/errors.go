package auth

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
	ErrGoogleAccountUnknown = errors.New("no account is registered for this Google email")
	ErrGoogleDisabled       = errors.New("google sign-in is not configured")
)
