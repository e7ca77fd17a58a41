package dashboard

import "errors"

var (
	// ErrInvalidUpload indicates an upload that could not be started.
	ErrInvalidUpload = errors.New("invalid upload")
	// ErrProjectNotFound indicates a selection target outside the collection.
	ErrProjectNotFound = errors.New("project not found")
	// ErrUnknownView indicates a view identifier outside the known set.
	ErrUnknownView = errors.New("unknown view")
	// errUnexpected marks load failures that are neither transport nor server errors.
	errUnexpected = errors.New("unexpected load failure")
)
