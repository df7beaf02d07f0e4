package config

import (
	"errors"
	"strings"
)

// Location represents a configuration location
type Location struct {
	Key string
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Message   string
	Locations []Location
	err       error
}

func newValidationError(err error, keys ...string) *ValidationError {
	locs := make([]Location, 0, len(keys))
	for _, k := range keys {
		locs = append(locs, Location{Key: k})
	}
	return &ValidationError{Message: err.Error(), Locations: locs, err: err}
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	sb.WriteString("\n\n")
	for _, loc := range e.Locations {
		sb.WriteString("--> ")
		sb.WriteString(loc.Key)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

func joinValidationErrors(errs []*ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, 0, len(errs))
	for _, e := range errs {
		joined = append(joined, e)
	}
	return errors.Join(joined...)
}
