package index

import "errors"

var (
	// ErrUnknownKey indicates the index holds no embedding for the
	// queried id. Recoverable: callers treat it as "no neighbors".
	ErrUnknownKey = errors.New("no embedding for key")

	// ErrIndexRequired is returned when constructing a source without an index.
	ErrIndexRequired = errors.New("vector index is required")
)
