package sensor

// Reading is a single raw measurement from a sensor.
//
// Readings are immutable once produced and are passed by value through
// the dispatch pipeline. The raw value carries no physical meaning until
// run through the owning sensor's calibration function.
type Reading struct {
	// RawValue is the uncalibrated counter value reported by the device.
	RawValue int64

	// Timestamp is the acquisition time in Unix seconds.
	Timestamp int64

	// Signal is the radio signal quality for the reading, if the
	// receiver reported one. Nil when unknown.
	Signal *float64
}

// CalibrateFunc converts a raw sensor value into an engineering value
// (degrees, percent relative humidity, etc). Each sensor owns its own
// calibration; the dispatch core never stores calibrated values.
type CalibrateFunc func(raw int64) float64

// Linear returns a calibration function computing scale*raw + offset.
//
// This covers every sensor type the Arexx multilogger family reports;
// more exotic curves can be plugged in as custom CalibrateFuncs.
func Linear(scale, offset float64) CalibrateFunc {
	return func(raw int64) float64 {
		return scale*float64(raw) + offset
	}
}

// Sensor describes one physical sensor known to the acquisition layer.
//
// Sensors are created once at startup and referenced (never owned) by
// the sinks. All fields are read-only after construction.
type Sensor struct {
	// ID is the internal identifier used as the cache key.
	ID int

	// DisplayID is the human-facing identifier printed on the device.
	DisplayID int

	// Name is the user-assigned location name, e.g. "Garden".
	Name string

	// Type is the free-form measurement category, e.g. "Temperature"
	// or "Relative Humidity".
	Type string

	// Unit is the engineering unit, e.g. "C" or "%RH".
	Unit string

	// ManufacturerType is the device model string, e.g. "TL-3TSN".
	ManufacturerType string

	// Calibrate converts raw values to engineering values.
	Calibrate CalibrateFunc
}

// Value returns the engineering value for a reading. A sensor without a
// calibration function reports the raw value unchanged.
func (s *Sensor) Value(r Reading) float64 {
	if s.Calibrate == nil {
		return float64(r.RawValue)
	}
	return s.Calibrate(r.RawValue)
}
