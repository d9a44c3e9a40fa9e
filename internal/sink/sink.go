package sink

import (
	"strconv"

	"github.com/evanor/arexxd/internal/sensor"
)

// Sink is an output destination for sensor readings.
//
// Deliver is called once per (reading, sensor) pair by the dispatcher.
// Implementations must be safe to call repeatedly and concurrently with
// other sinks. A sink that cannot complete a delivery returns an error
// describing the cause; it must never terminate the process. The
// dispatcher logs the error and continues with the remaining sinks.
//
// Sinks that perform network I/O must bound each delivery with their
// own timeout so a dead peer cannot stall the dispatch loop.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string

	// Deliver writes one reading to the sink's destination.
	Deliver(r sensor.Reading, s *sensor.Sensor) error
}

// signalOrDash renders the signal quality column: the literal "-" when
// the receiver reported no signal value, else its decimal value.
func signalOrDash(r sensor.Reading) string {
	if r.Signal == nil {
		return "-"
	}
	return strconv.FormatFloat(*r.Signal, 'g', -1, 64)
}
