package auth

import "errors"

// Sentinel errors for auth operations.
var (
	ErrNoSession      = errors.New("not logged in")
	ErrLoginFailed    = errors.New("login failed")
	ErrSessionExpired = errors.New("session expired")
	ErrRefreshFailed  = errors.New("token refresh failed")
	ErrTokenStore     = errors.New("token store error")
)
