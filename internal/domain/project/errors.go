package project

import "errors"

var (
	// ErrInvalidProject indicates a project record that cannot be normalized.
	ErrInvalidProject = errors.New("invalid project")
	// ErrInvalidFile indicates an upload candidate that fails type or size checks.
	ErrInvalidFile = errors.New("invalid model file")
)
