package domain

import "errors"

var (
	// ErrNotFound: the referenced record does not exist. Ranking stages fall
	// back to the next stage instead of failing the request.
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable: transient store failure, retryable by the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
)
