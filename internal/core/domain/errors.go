package domain

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrAlreadyExists           = errors.New("already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrUnauthenticated         = errors.New("unauthenticated")
	ErrForbidden               = errors.New("forbidden")
	ErrAuthProviderUnavailable = errors.New("auth provider unavailable")
	ErrUpstreamUnavailable     = errors.New("upstream unavailable")
)
