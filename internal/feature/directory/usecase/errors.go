// Package usecase implements the business logic for the company directory.
package usecase

import "errors"

var (
	// ErrSearchUnavailable is returned when the directory store cannot serve a search.
	// The underlying store error is logged, never returned.
	ErrSearchUnavailable = errors.New("failed to search for companies")

	// ErrBootstrapFailed wraps any failure of the startup seed import.
	ErrBootstrapFailed = errors.New("directory bootstrap failed")

	// ErrDuplicateSecurityCode is returned by stores when an insert collides on securityCode.
	ErrDuplicateSecurityCode = errors.New("duplicate security code")

	// ErrUnknownField is returned by stores when a keyword query names a field they cannot match on.
	ErrUnknownField = errors.New("unknown search field")
)
