package domain

import "errors"

// Sentinel errors shared by the service and repository layers. Handlers match
// them with errors.Is and translate to HTTP status codes; anything that is not
// one of these is treated as an internal error and never shown to clients.
var (
	// ErrNotFound covers both a missing row and a row owned by someone else.
	// The two cases are deliberately indistinguishable so that a non-owner
	// cannot learn whether an id exists.
	ErrNotFound = errors.New("todo not found")

	// ErrTitleRequired is returned by create when the title is missing or
	// empty. Update intentionally performs no such check.
	ErrTitleRequired = errors.New("title is required")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailTaken      = errors.New("email already registered")
	ErrUnauthenticated = errors.New("unauthenticated")
)
