package discovery

import (
	"fmt"
	"strings"
	"sync"

	"github.com/evanor/arexxd/internal/infrastructure/config"
	"github.com/evanor/arexxd/internal/sensor"
)

// Broker is the transport surface the publisher needs. It is satisfied
// by *mqtt.Client; tests substitute a recorder.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishString(topic string, payload string, qos byte, retained bool) error
	IsConnected() bool
}

// DialFunc establishes the broker session. The publisher dials lazily:
// at construction and again on each delivery while disconnected.
type DialFunc func() (Broker, error)

// Logger is the logging surface the publisher needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Publisher is the MQTT discovery/state sink.
//
// Per sensor it tracks whether the one-time discovery announcement has
// been published. The first reading from a sensor triggers the
// announcement, strictly before that reading's state payload. A sensor
// transitions to announced only after its discovery publish succeeds,
// so a transient broker failure during announcement is retried on the
// next reading instead of leaving the sensor announced-but-unknown to
// subscribers.
//
// Two mutually exclusive payload conventions are supported, selected by
// configuration; see homeassistant.go and homie.go.
type Publisher struct {
	cfg    config.DiscoveryConfig
	qos    byte
	dial   DialFunc
	log    Logger
	topics Topics

	mu     sync.Mutex
	broker Broker

	// announced tracks per-sensor discovery state, keyed by display ID.
	announced map[int]bool

	// deviceAnnounced tracks the homie device-level announcement.
	deviceAnnounced bool

	// known lists display IDs in first-seen order. The homie $nodes
	// payload is computed from this list at device-announcement time
	// and never refreshed afterwards.
	known []int
}

// New creates a discovery publisher. The initial broker dial is
// attempted immediately; failure is logged and retried on the first
// delivery.
func New(cfg config.MQTTConfig, dial DialFunc, log Logger) *Publisher {
	p := &Publisher{
		cfg:  cfg.Discovery,
		qos:  byte(cfg.QoS),
		dial: dial,
		log:  log,
		topics: Topics{
			Base:   cfg.Discovery.BaseTopic,
			Device: cfg.Discovery.Device,
		},
		announced: make(map[int]bool),
	}

	p.mu.Lock()
	if err := p.connectLocked(); err != nil {
		log.Error("mqtt sink not ready", "error", err)
	}
	p.mu.Unlock()

	return p
}

// Name implements sink.Sink.
func (p *Publisher) Name() string { return "mqtt" }

// Close releases the broker session when the dialled transport owns one.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	closer, ok := p.broker.(interface{ Close() error })
	p.broker = nil
	if !ok {
		return nil
	}
	return closer.Close()
}

// LastWill returns the availability topic and payload to register as the
// broker session's will message. Only the homie convention carries an
// availability contract: the retained device $state flips to "lost" when
// the session drops uncleanly.
func LastWill(cfg config.MQTTConfig) (topic, payload string, ok bool) {
	if cfg.Discovery.PayloadFormat != config.PayloadFormatHomie {
		return "", "", false
	}
	t := Topics{Base: cfg.Discovery.BaseTopic, Device: cfg.Discovery.Device}
	return t.HomieState(), homieStateLost, true
}

// connectLocked dials the broker. Caller holds p.mu.
func (p *Publisher) connectLocked() error {
	broker, err := p.dial()
	if err != nil {
		p.broker = nil
		return fmt.Errorf("connecting to broker: %w", err)
	}
	p.broker = broker
	return nil
}

// Deliver implements sink.Sink: it runs the discovery state machine for
// the sensor and publishes the reading under the active convention.
func (p *Publisher) Deliver(r sensor.Reading, s *sensor.Sensor) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.broker == nil {
		if err := p.connectLocked(); err != nil {
			return err
		}
	}

	switch p.cfg.PayloadFormat {
	case config.PayloadFormatHomie:
		return p.deliverHomie(r, s)
	default:
		return p.deliverHomeAssistant(r, s)
	}
}

// markSeen records the sensor in first-seen order. Caller holds p.mu.
func (p *Publisher) markSeen(displayID int) {
	for _, id := range p.known {
		if id == displayID {
			return
		}
	}
	p.known = append(p.known, displayID)
}

// normalizedType returns the lower-cased sensor type with domain
// aliases applied. Home Assistant expects the device class "humidity"
// for relative humidity sensors.
func normalizedType(sensorType string) string {
	t := strings.ToLower(sensorType)
	if t == "relative humidity" {
		return "humidity"
	}
	return t
}

// normalizedUnit maps vendor unit spellings onto the conventional ones.
func normalizedUnit(unit string) string {
	if unit == "%RH" {
		return "%"
	}
	return unit
}
