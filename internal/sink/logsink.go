package sink

import (
	"github.com/evanor/arexxd/internal/sensor"
)

// InfoLogger is the logging surface the log sink needs.
type InfoLogger interface {
	Info(msg string, args ...any)
}

// LogSink writes every reading to the structured log. Primarily for
// debugging and for minimal installations with no other outputs.
type LogSink struct {
	log InfoLogger
}

// NewLogSink creates a log sink writing to the given logger.
func NewLogSink(log InfoLogger) *LogSink {
	return &LogSink{log: log}
}

// Name implements Sink.
func (l *LogSink) Name() string { return "log" }

// Deliver implements Sink. It cannot fail.
func (l *LogSink) Deliver(r sensor.Reading, s *sensor.Sensor) error {
	l.log.Info("datapoint",
		"sensor_id", s.DisplayID,
		"raw", r.RawValue,
		"value", s.Value(r),
		"unit", s.Unit,
		"timestamp", r.Timestamp,
		"signal", signalOrDash(r),
		"name", s.Name,
		"type", s.Type,
	)
	return nil
}
