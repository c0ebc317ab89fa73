package services

import "errors"

// Shared error values returned by the service layer. Handlers map these to
// HTTP statuses with errors.Is, so services must wrap rather than replace them.
var (
	// ErrValidation marks a request missing required fields. Caller's fault,
	// never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a code or ID that does not resolve to a record.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyOwner is returned when a user redeems the code of a pet they
	// already own.
	ErrAlreadyOwner = errors.New("already the owner of this pet")

	// ErrForbidden marks an unauthorized cross-user mutation.
	ErrForbidden = errors.New("forbidden")

	// ErrCodeExhausted is returned when the unique-code search runs out of
	// attempts. It is surfaced as a server-side failure; a row is never
	// inserted with a null or duplicate code instead.
	ErrCodeExhausted = errors.New("could not generate a unique code")

	// ErrConsistency marks a violated by-construction invariant (e.g. a pet
	// whose group does not exist). Indicates data corruption; logged loudly
	// and surfaced, never masked.
	ErrConsistency = errors.New("data consistency violation")
)
