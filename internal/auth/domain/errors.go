package domain

import "errors"

var (
	ErrAuthFailure  = errors.New("could not establish an identity")
	ErrUserNotFound = errors.New("user not found")
	ErrUserDisabled = errors.New("user is disabled")
	ErrNotReady     = errors.New("session is not ready")
	ErrUnavailable  = errors.New("remote identity is not configured")
	ErrInvalidToken = errors.New("invalid ID token")
)
