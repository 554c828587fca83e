package domain

import "errors"

var (
	// ErrRemote marks any failed call to the remote API: non-2xx status,
	// transport failure or an undecodable body.
	ErrRemote = errors.New("remote api call failed")
	// ErrStorageKeyNotFound is returned by durable storage for a missing key.
	ErrStorageKeyNotFound = errors.New("storage key not found")
	// ErrSubmitInFlight is returned when the same form is already being
	// submitted by this browser.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrFeedClosed is returned by a feed that has been torn down.
	ErrFeedClosed = errors.New("feed closed")
)

// FieldErrors maps a form field name to its human-readable message.
type FieldErrors map[string]string

// Has reports whether any field failed.
func (fe FieldErrors) Has() bool { return len(fe) > 0 }
