package cli

import "errors"

// Command line errors.
var (
	// ErrNoCollection is returned when no collection file was configured.
	ErrNoCollection = errors.New("no collection: set --collection or collection in the settings file")

	// ErrInvalidFlag is returned for out-of-range flag values.
	ErrInvalidFlag = errors.New("invalid flag value")
)
