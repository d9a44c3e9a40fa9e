package acquire

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/evanor/arexxd/internal/infrastructure/config"
	"github.com/evanor/arexxd/internal/sensor"
)

// simulated raw-value random walk bounds.
const (
	simWalkStep   = 5
	simInitialRaw = 200
	simSignalBase = 80.0
	simSignalJit  = 15.0
)

// Simulated is a development source that emits a random walk of raw
// values for every configured sensor on a fixed interval.
type Simulated struct {
	interval time.Duration
	sensors  []*sensor.Sensor
	raw      map[int]int64
}

// NewSimulated creates a simulated source from the acquisition settings.
func NewSimulated(cfg config.AcquisitionConfig, sensors map[int]*sensor.Sensor) *Simulated {
	interval := time.Duration(cfg.Interval) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}

	ordered := make([]*sensor.Sensor, 0, len(sensors))
	raw := make(map[int]int64, len(sensors))
	for _, s := range sensors {
		ordered = append(ordered, s)
		raw[s.ID] = simInitialRaw
	}
	// Deterministic emit order within a tick.
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	return &Simulated{
		interval: interval,
		sensors:  ordered,
		raw:      raw,
	}
}

// Run emits one reading per sensor per tick until the context ends.
func (s *Simulated) Run(ctx context.Context, emit EmitFunc) error {
	if len(s.sensors) == 0 {
		return ErrNoSensors
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.emitAll(emit)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.emitAll(emit)
		}
	}
}

func (s *Simulated) emitAll(emit EmitFunc) {
	now := time.Now().Unix()
	for _, sn := range s.sensors {
		s.raw[sn.ID] += rand.Int63n(2*simWalkStep+1) - simWalkStep
		signal := simSignalBase + rand.Float64()*simSignalJit
		emit(sensor.Reading{
			RawValue:  s.raw[sn.ID],
			Timestamp: now,
			Signal:    &signal,
		}, sn)
	}
}
