package analysis

import "errors"

var (
	// ErrResourceUnavailable is returned when an analyzer cannot be bound to
	// the given source.
	ErrResourceUnavailable = errors.New("analysis resource unavailable")

	// ErrInvalidBufferLength is returned at construction when the configured
	// FFT size cannot produce a usable buffer length.
	ErrInvalidBufferLength = errors.New("invalid buffer length")

	// ErrInvalidConfig covers the remaining analyzer settings.
	ErrInvalidConfig = errors.New("invalid analyzer config")
)
