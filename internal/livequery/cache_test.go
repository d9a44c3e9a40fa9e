package livequery

import (
	"strings"
	"sync"
	"testing"

	"github.com/evanor/arexxd/internal/sensor"
)

func officeSensor() *sensor.Sensor {
	return &sensor.Sensor{
		ID:        2,
		DisplayID: 7,
		Name:      "Office",
		Type:      "Temperature",
		Unit:      "C",
		Calibrate: sensor.Linear(0.1, 0),
	}
}

func gardenSensor() *sensor.Sensor {
	return &sensor.Sensor{
		ID:        3,
		DisplayID: 4,
		Name:      "Garden",
		Type:      "Relative Humidity",
		Unit:      "%RH",
		Calibrate: sensor.Linear(0.5, 0),
	}
}

func TestSnapshot_ExactFormat(t *testing.T) {
	c := NewCache()
	c.Update(sensor.Reading{RawValue: 230, Timestamp: 1700000000}, officeSensor())

	want := "7,23.000000 C,1700000000,-,Temperature,Office,2\n"
	if got := c.Snapshot(); got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
}

func TestSnapshot_SignalRendered(t *testing.T) {
	c := NewCache()
	sig := 92.5
	c.Update(sensor.Reading{RawValue: 230, Timestamp: 1700000000, Signal: &sig}, officeSensor())

	want := "7,23.000000 C,1700000000,92.5,Temperature,Office,2\n"
	if got := c.Snapshot(); got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
}

func TestUpdate_LastWriteWins(t *testing.T) {
	c := NewCache()
	s := officeSensor()

	for i := int64(0); i < 10; i++ {
		c.Update(sensor.Reading{RawValue: 200 + i, Timestamp: 1700000000 + i}, s)
	}

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	got := c.Snapshot()
	if !strings.Contains(got, "1700000009") {
		t.Errorf("Snapshot() = %q, want most recent timestamp 1700000009", got)
	}
	if strings.Count(got, "\n") != 1 {
		t.Errorf("Snapshot() has %d lines, want 1", strings.Count(got, "\n"))
	}
}

func TestUpdate_Idempotent(t *testing.T) {
	c := NewCache()
	s := officeSensor()
	r := sensor.Reading{RawValue: 230, Timestamp: 1700000000}

	c.Update(r, s)
	first := c.Snapshot()
	c.Update(r, s)
	second := c.Snapshot()

	if first != second {
		t.Errorf("Snapshot() changed after identical update: %q vs %q", first, second)
	}
}

func TestSnapshot_OrderedByDisplayID(t *testing.T) {
	c := NewCache()
	c.Update(sensor.Reading{RawValue: 230, Timestamp: 1700000000}, officeSensor()) // display 7
	c.Update(sensor.Reading{RawValue: 90, Timestamp: 1700000001}, gardenSensor())  // display 4

	got := c.Snapshot()
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Snapshot() has %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "4,") || !strings.HasPrefix(lines[1], "7,") {
		t.Errorf("Snapshot() not ordered by display id: %q", got)
	}
}

func TestCache_ConcurrentUpdateAndSnapshot(t *testing.T) {
	c := NewCache()
	s := officeSensor()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(off int64) {
			defer wg.Done()
			for i := int64(0); i < 100; i++ {
				c.Update(sensor.Reading{RawValue: off + i, Timestamp: 1700000000 + i}, s)
			}
		}(int64(w) * 1000)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = c.Snapshot()
			}
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
