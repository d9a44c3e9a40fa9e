package sink

import "errors"

// Sink delivery errors. All of them are transient from the dispatcher's
// point of view: the failing sink is logged and skipped, delivery to
// the remaining sinks continues, and the sink retries its resource on
// the next delivery.
var (
	// ErrNotReady is returned when a sink's target (file, database,
	// connection) is unavailable and could not be (re)opened.
	ErrNotReady = errors.New("sink: not ready")

	// ErrWriteFailed is returned when writing a record fails after the
	// target was opened successfully.
	ErrWriteFailed = errors.New("sink: write failed")
)
