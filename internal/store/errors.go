package store

import "errors"

// Sentinel errors for store operations. Check with errors.Is().
var (
	// ErrTemplateNotFound indicates the referenced template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrMalformedRow indicates a serialized sequence column failed to
	// decode. Fatal for the current operation; the tool handler surfaces
	// the generic failure message.
	ErrMalformedRow = errors.New("malformed stored data")
)
