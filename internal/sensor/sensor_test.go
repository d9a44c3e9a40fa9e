package sensor

import "testing"

func TestLinear(t *testing.T) {
	tests := []struct {
		name   string
		scale  float64
		offset float64
		raw    int64
		want   float64
	}{
		{"identity", 1.0, 0.0, 230, 230.0},
		{"temperature scaling", 0.1, 0.0, 230, 23.0},
		{"offset only", 1.0, -40.0, 100, 60.0},
		{"zero raw", 0.0078125, 0.0, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linear(tt.scale, tt.offset)(tt.raw)
			if got != tt.want {
				t.Errorf("Linear(%v, %v)(%d) = %v, want %v", tt.scale, tt.offset, tt.raw, got, tt.want)
			}
		})
	}
}

func TestSensorValue(t *testing.T) {
	s := &Sensor{
		ID:        2,
		DisplayID: 7,
		Name:      "Office",
		Type:      "Temperature",
		Unit:      "C",
		Calibrate: Linear(0.1, 0),
	}

	got := s.Value(Reading{RawValue: 230, Timestamp: 1700000000})
	if got != 23.0 {
		t.Errorf("Value() = %v, want 23.0", got)
	}
}

func TestSensorValue_NilCalibration(t *testing.T) {
	s := &Sensor{ID: 1, DisplayID: 1, Name: "Raw", Type: "Counter"}

	got := s.Value(Reading{RawValue: 42})
	if got != 42.0 {
		t.Errorf("Value() = %v, want raw value 42.0", got)
	}
}
