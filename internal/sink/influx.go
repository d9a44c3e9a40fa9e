package sink

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/evanor/arexxd/internal/infrastructure/config"
	"github.com/evanor/arexxd/internal/infrastructure/influxdb"
	"github.com/evanor/arexxd/internal/sensor"
)

// influxMeasurement is the measurement name all readings are written
// under; existing dashboards query it by this name.
const influxMeasurement = "arexx"

// InfluxSink writes one point per reading to an InfluxDB server.
//
// The connection is established lazily: a failed connect marks the sink
// not ready and the connect is retried on the next delivery. Each write
// is bounded by the client's write timeout.
type InfluxSink struct {
	cfg config.InfluxDBConfig
	log Logger

	mu     sync.Mutex
	client *influxdb.Client
	ready  bool
}

// NewInfluxSink creates an InfluxDB sink. The initial connect is
// attempted immediately; failure is logged and retried on the first
// delivery.
func NewInfluxSink(cfg config.InfluxDBConfig, log Logger) *InfluxSink {
	is := &InfluxSink{
		cfg: cfg,
		log: log,
	}
	is.mu.Lock()
	if err := is.connectLocked(); err != nil {
		log.Error("influxdb sink not ready", "host", cfg.Host, "error", err)
	}
	is.mu.Unlock()
	return is
}

// Name implements Sink.
func (is *InfluxSink) Name() string { return "influxdb" }

// connectLocked establishes the InfluxDB connection. Caller holds is.mu.
func (is *InfluxSink) connectLocked() error {
	client, err := influxdb.Connect(context.Background(), is.cfg)
	if err != nil {
		is.ready = false
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	is.client = client
	is.ready = true
	return nil
}

// Deliver implements Sink.
func (is *InfluxSink) Deliver(r sensor.Reading, s *sensor.Sensor) error {
	is.mu.Lock()
	defer is.mu.Unlock()

	if !is.ready {
		if err := is.connectLocked(); err != nil {
			return err
		}
	}

	tags := map[string]string{
		"Location":   s.Name,
		"sensorid":   strconv.Itoa(s.DisplayID),
		"SensorType": s.Type,
		"Unit":       s.Unit,
	}
	fields := map[string]interface{}{
		"SensorValue": s.Value(r),
	}

	err := is.client.WritePoint(context.Background(), influxMeasurement, tags, fields, time.Unix(r.Timestamp, 0).UTC())
	if err != nil {
		// Drop readiness so the next delivery reconnects.
		is.client.Close()
		is.client = nil
		is.ready = false
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	return nil
}

// Close releases the InfluxDB connection.
func (is *InfluxSink) Close() error {
	is.mu.Lock()
	defer is.mu.Unlock()

	is.ready = false
	if is.client == nil {
		return nil
	}
	err := is.client.Close()
	is.client = nil
	return err
}
