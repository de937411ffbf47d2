package store

import "errors"

var (
	// ErrNotFound indicates that no page document exists for the given id.
	ErrNotFound = errors.New("page not found")

	// ErrConflict indicates that a conditional update lost against a
	// concurrent mutation: the document's version moved past the version the
	// caller read. The operation performed zero writes and is safe to retry
	// after reloading.
	ErrConflict = errors.New("page version conflict")
)
