package pdfchat

import "errors"

var (
	// ErrEmptyInput indicates a missing PDF payload or message.
	ErrEmptyInput = errors.New("pdf and message are required")

	// ErrUnreadablePDF indicates the uploaded document yielded no text.
	ErrUnreadablePDF = errors.New("could not extract text from pdf")

	// ErrUpstream indicates the generation capability failed; no turn is
	// appended when this is returned.
	ErrUpstream = errors.New("generation failed")
)
