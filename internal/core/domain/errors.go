package domain

import "errors"

// Sentinel errors for profile operations.
var (
	// ErrKeyNotFound indicates the store holds no value for the requested key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreUnavailable indicates the backing store is not configured or closed.
	// HTTP Status: 503 Service Unavailable
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidTransition indicates an action that the current editor state does not allow
	// (saving while not editing, opening the editor twice).
	// HTTP Status: 409 Conflict
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrEmptyLocator indicates a picture save without a locator.
	// HTTP Status: 400 Bad Request
	ErrEmptyLocator = errors.New("picture locator is required")

	// ErrInvalidMode indicates an unknown picture acquisition mode.
	// HTTP Status: 400 Bad Request
	ErrInvalidMode = errors.New("invalid picture mode")

	// ErrPermissionDenied indicates the platform refused camera or media-library access.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrFutureDate indicates a date of birth after today.
	// HTTP Status: 400 Bad Request
	ErrFutureDate = errors.New("date of birth is in the future")
)
