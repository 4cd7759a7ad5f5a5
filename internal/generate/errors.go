package generate

import "errors"

// Errors returned by the generation dispatcher.
var (
	// ErrValidation covers malformed, missing or oversized inputs.
	ErrValidation = errors.New("invalid input")
	// ErrUnreadablePDF means text extraction from the uploaded PDF failed.
	ErrUnreadablePDF = errors.New("unreadable pdf")
	// ErrUpstream means the external generation or media call failed or
	// returned unparseable output.
	ErrUpstream = errors.New("upstream call failed")
	// ErrPersistence means the creation could not be saved.
	ErrPersistence = errors.New("persistence failed")
)
