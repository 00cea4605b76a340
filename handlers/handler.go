package handlers

import "errors"

// sentinel errors mapped to HTTP statuses by the server layer
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("permission denied")
	ErrInvalid      = errors.New("invalid request")
	ErrDuplicate    = errors.New("already exists")
)
