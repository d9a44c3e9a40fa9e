package acquire

import (
	"context"
	"fmt"
	"io"

	"github.com/evanor/arexxd/internal/infrastructure/config"
	"github.com/evanor/arexxd/internal/sensor"
)

// EmitFunc receives each acquired reading together with its sensor.
type EmitFunc func(r sensor.Reading, s *sensor.Sensor)

// Source produces sensor readings until the context is cancelled or the
// underlying input is exhausted.
type Source interface {
	Run(ctx context.Context, emit EmitFunc) error
}

// Logger is the logging surface the sources need.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// BuildSensors materialises the configured sensor registry, keyed by
// internal sensor ID. A zero calibration block means raw passthrough.
func BuildSensors(cfgs []config.SensorConfig) map[int]*sensor.Sensor {
	sensors := make(map[int]*sensor.Sensor, len(cfgs))
	for _, c := range cfgs {
		s := &sensor.Sensor{
			ID:               c.ID,
			DisplayID:        c.DisplayID,
			Name:             c.Name,
			Type:             c.Type,
			Unit:             c.Unit,
			ManufacturerType: c.ManufacturerType,
		}
		if c.Calibration.Scale != 0 || c.Calibration.Offset != 0 {
			s.Calibrate = sensor.Linear(c.Calibration.Scale, c.Calibration.Offset)
		}
		sensors[c.ID] = s
	}
	return sensors
}

// New selects the configured source implementation. The input reader is
// only consumed in stdin mode.
func New(cfg config.AcquisitionConfig, sensors map[int]*sensor.Sensor, input io.Reader, log Logger) (Source, error) {
	switch cfg.Mode {
	case config.SourceSimulated:
		return NewSimulated(cfg, sensors), nil
	case config.SourceStdin:
		return NewLineSource(input, sensors, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}
