package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrProviderFailure = errors.New("provider failure")
	ErrNoCredential    = errors.New("credential missing")
	ErrDuplicateBanner = errors.New("banner already exists for date")
	ErrTerminalJob     = errors.New("job already in terminal state")
)
