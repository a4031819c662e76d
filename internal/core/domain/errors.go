package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSortKey indicates an unrecognised sort key.
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrUnknownSource indicates a source ID with no registered provider.
	ErrUnknownSource = errors.New("unknown source")

	// ErrSourceUnavailable indicates a provider could not be reached or is misconfigured.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrRateLimited indicates the provider's API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotSettled indicates the session did not settle before the caller gave up.
	ErrNotSettled = errors.New("session not settled")
)
