// Package status declares error constants returned by
// implementations of the Store interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/storage and one
// of its implementations.
package status

import "github.com/buildtrace/artpack/pkg/errors"

var (
	// Sentinel errors returned by implementations of the interface defined by storage

	// ErrNotFound indicates that the backend did not find the target object
	ErrNotFound = errors.New("object not found")

	// ErrExists indicates that the object already exists and an exclusive put refused to override it
	ErrExists = errors.New("object exists already")

	// ErrUnauthorized indicates that the credentials presented to the backend were not accepted
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates that the backend forbids access to the target object
	ErrForbidden = errors.New("forbidden")

	// ErrNotSupported indicates that the backend does not support this call
	ErrNotSupported = errors.New("not supported")

	// ErrInvalidResource indicates that the storage resource has an invalid name
	ErrInvalidResource = errors.New("invalid storage resource name")

	// ErrStorageTransient indicates a retryable backend hiccup (network failure,
	// throttling, 5xx...). Callers may retry with backoff, bounded attempts.
	ErrStorageTransient = errors.New("transient storage error")

	// ErrStorageAPI indicates any other backend API error. Not retryable.
	ErrStorageAPI = errors.New("storage API error")
)
