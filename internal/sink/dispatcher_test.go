package sink

import (
	"errors"
	"testing"

	"github.com/evanor/arexxd/internal/sensor"
)

// nopLogger satisfies Logger and InfoLogger for tests.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// countingSink records deliveries and optionally fails or panics.
type countingSink struct {
	name     string
	calls    int
	failWith error
	panics   bool
}

func (c *countingSink) Name() string { return c.name }

func (c *countingSink) Deliver(r sensor.Reading, s *sensor.Sensor) error {
	c.calls++
	if c.panics {
		panic("sink exploded")
	}
	return c.failWith
}

func testSensor() *sensor.Sensor {
	return &sensor.Sensor{
		ID:        2,
		DisplayID: 7,
		Name:      "Office",
		Type:      "Temperature",
		Unit:      "C",
		Calibrate: sensor.Linear(0.1, 0),
	}
}

func TestDispatcher_FailingSinkDoesNotBlockOthers(t *testing.T) {
	first := &countingSink{name: "first"}
	second := &countingSink{name: "second", failWith: errors.New("always fails")}
	third := &countingSink{name: "third"}

	d := NewDispatcher(nopLogger{}, first, second, third)

	const n = 5
	for i := 0; i < n; i++ {
		d.Dispatch(sensor.Reading{RawValue: int64(i), Timestamp: 1700000000 + int64(i)}, testSensor())
	}

	if first.calls != n || third.calls != n {
		t.Errorf("healthy sinks received %d/%d deliveries, want %d each", first.calls, third.calls, n)
	}
	if second.calls != n {
		t.Errorf("failing sink received %d deliveries, want %d", second.calls, n)
	}
}

func TestDispatcher_PanickingSinkIsIsolated(t *testing.T) {
	bomb := &countingSink{name: "bomb", panics: true}
	after := &countingSink{name: "after"}

	d := NewDispatcher(nopLogger{}, bomb, after)

	d.Dispatch(sensor.Reading{RawValue: 1, Timestamp: 1700000000}, testSensor())

	if after.calls != 1 {
		t.Errorf("sink after panicking sink received %d deliveries, want 1", after.calls)
	}
}

func TestSignalOrDash(t *testing.T) {
	sig := 1.5
	tests := []struct {
		name string
		r    sensor.Reading
		want string
	}{
		{"absent", sensor.Reading{}, "-"},
		{"present", sensor.Reading{Signal: &sig}, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := signalOrDash(tt.r); got != tt.want {
				t.Errorf("signalOrDash() = %q, want %q", got, tt.want)
			}
		})
	}
}
