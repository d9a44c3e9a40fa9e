package sink

import (
	"fmt"

	"github.com/evanor/arexxd/internal/sensor"
)

// Logger is the logging surface the dispatcher needs.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// Dispatcher fans each reading out to every configured sink.
//
// Sink failures are isolated: an error or panic from one sink is logged
// with the sink's identity and never prevents delivery to the others.
// The dispatcher itself never returns an error for a sink failure.
//
// Readings arrive sequentially from the acquisition loop; the
// dispatcher adds no concurrency of its own. Individual sinks may still
// be read concurrently by their own background tasks (the live-query
// responder), which is why sinks guard their shared state.
type Dispatcher struct {
	sinks []Sink
	log   Logger
}

// NewDispatcher creates a dispatcher over the given sinks.
func NewDispatcher(log Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		sinks: sinks,
		log:   log,
	}
}

// Sinks returns the configured sinks, in delivery order.
func (d *Dispatcher) Sinks() []Sink {
	return d.sinks
}

// Dispatch delivers one reading to every sink.
func (d *Dispatcher) Dispatch(r sensor.Reading, s *sensor.Sensor) {
	for _, sk := range d.sinks {
		if err := d.deliverOne(sk, r, s); err != nil {
			d.log.Error("sink delivery failed",
				"sink", sk.Name(),
				"sensor_id", s.ID,
				"error", err,
			)
		}
	}
}

// deliverOne invokes a single sink with panic recovery, so a misbehaving
// sink degrades to a logged error instead of crashing the dispatch loop.
func (d *Dispatcher) deliverOne(sk Sink, r sensor.Reading, s *sensor.Sensor) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sink %s panicked: %v", sk.Name(), rec)
		}
	}()
	return sk.Deliver(r, s)
}
