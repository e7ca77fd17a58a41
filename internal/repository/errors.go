package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is matched by failures where the remote source could not
	// serve the request: the server was unreachable or answered with an error.
	ErrUnavailable = errors.New("remote source unavailable")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
