package model

import "errors"

var (
	// ErrNotFound is returned when an entity is required to exist and does not.
	ErrNotFound = errors.New("entity was not found")

	// ErrInvalidRange is returned when a filter start date is after its end date.
	// It is raised before any query executes.
	ErrInvalidRange = errors.New("start date is after end date")

	// ErrUnauthenticated is returned when an operation requires an
	// authenticated principal and none is present.
	ErrUnauthenticated = errors.New("authentication is required to access this service")

	// ErrForbidden is returned when the caller lacks the required authority.
	ErrForbidden = errors.New("caller lacks the required role")

	// ErrInvalidCredentials is returned when email/password verification fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
