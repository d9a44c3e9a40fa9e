package acquire

import "errors"

var (
	// ErrUnknownMode indicates an acquisition mode with no implementation.
	ErrUnknownMode = errors.New("unknown acquisition mode")

	// ErrNoSensors indicates a source was started with an empty registry.
	ErrNoSensors = errors.New("no sensors configured")
)
