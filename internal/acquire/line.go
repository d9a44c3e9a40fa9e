package acquire

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/evanor/arexxd/internal/sensor"
)

// LineSource reads CSV records of the form
//
//	sensorID,rawValue[,signal]
//
// one per line, from an io.Reader. Records for unknown sensor IDs and
// malformed lines are skipped with a log entry; the stream keeps going.
type LineSource struct {
	input   io.Reader
	sensors map[int]*sensor.Sensor
	log     Logger
}

// NewLineSource creates a line-feed source over the given reader.
func NewLineSource(input io.Reader, sensors map[int]*sensor.Sensor, log Logger) *LineSource {
	return &LineSource{
		input:   input,
		sensors: sensors,
		log:     log,
	}
}

// Run consumes lines until EOF or context cancellation. The reader is
// scanned on a separate goroutine so cancellation does not wait on a
// blocked read.
func (l *LineSource) Run(ctx context.Context, emit EmitFunc) error {
	if len(l.sensors) == 0 {
		return ErrNoSensors
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(l.input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			l.handleLine(line, emit)
		}
	}
}

func (l *LineSource) handleLine(line string, emit EmitFunc) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	fields := strings.Split(line, ",")
	if len(fields) < 2 || len(fields) > 3 {
		l.log.Warn("skipping malformed record", "line", line)
		return
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		l.log.Warn("skipping record with bad sensor id", "line", line)
		return
	}
	raw, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		l.log.Warn("skipping record with bad raw value", "line", line)
		return
	}

	s, ok := l.sensors[id]
	if !ok {
		l.log.Debug("skipping record for unknown sensor", "sensor_id", id)
		return
	}

	r := sensor.Reading{
		RawValue:  raw,
		Timestamp: time.Now().Unix(),
	}
	if len(fields) == 3 {
		sig, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			l.log.Warn("skipping record with bad signal", "line", line)
			return
		}
		r.Signal = &sig
	}

	emit(r, s)
}
