package rolestore

import "errors"

var (
	// ErrStorageFailure wraps errors returned by a Storage implementation.
	ErrStorageFailure = errors.New("rolestore.storage_failure")

	// ErrEmptyKey is returned by storages when called with an empty key.
	ErrEmptyKey = errors.New("rolestore.empty_key")
)
