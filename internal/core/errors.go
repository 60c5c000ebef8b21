package core

import "errors"

var (
	// ErrNotFound is returned by stores when a document does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidSubmission is returned when a contact submission fails validation
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrNotifierDisabled is returned by the no-op notifier
	ErrNotifierDisabled = errors.New("notifications disabled")
	// ErrProfileUnavailable is returned when no profile statistics source is configured
	ErrProfileUnavailable = errors.New("profile statistics unavailable")
)
