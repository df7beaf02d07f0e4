package cnst

import "errors"

var (
	// ErrEmptyAPIURL is returned when the client has no backend address
	ErrEmptyAPIURL = errors.New("api url cannot be empty")
	// ErrInvalidCookieMode is returned for an unknown cookie mode
	ErrInvalidCookieMode = errors.New("invalid cookie mode")
	// ErrInvalidPageSize is returned when the page size is not positive
	ErrInvalidPageSize = errors.New("page size must be positive")
	// ErrInvalidSessionType is returned for an unknown session store type
	ErrInvalidSessionType = errors.New("invalid session store type")
	// ErrInvalidDatabaseType is returned for an unknown database type
	ErrInvalidDatabaseType = errors.New("invalid database type")
)
