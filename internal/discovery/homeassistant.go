package discovery

import (
	"encoding/json"
	"fmt"

	"github.com/evanor/arexxd/internal/sensor"
)

// haConfigPayload is the retained discovery payload for the Home
// Assistant MQTT discovery convention.
type haConfigPayload struct {
	Name              string `json:"name"`
	DeviceClass       string `json:"device_class"`
	StateTopic        string `json:"state_topic"`
	UnitOfMeasurement string `json:"unit_of_measurement"`

	// ValueTemplate is a Jinja placeholder emitted literally for the
	// consumer to evaluate, e.g. "{{value_json.temperature}}".
	ValueTemplate string `json:"value_template"`
}

// deliverHomeAssistant publishes under the Home Assistant convention:
// a one-time retained config payload per sensor, then a JSON state
// payload for every reading. Caller holds p.mu.
func (p *Publisher) deliverHomeAssistant(r sensor.Reading, s *sensor.Sensor) error {
	p.markSeen(s.DisplayID)

	key := normalizedType(s.Type)
	stateTopic := p.topics.HAState(s.DisplayID)

	if !p.announced[s.DisplayID] {
		cfg := haConfigPayload{
			Name:              fmt.Sprintf("%s %s", s.Name, s.Type),
			DeviceClass:       key,
			StateTopic:        stateTopic,
			UnitOfMeasurement: normalizedUnit(s.Unit),
			ValueTemplate:     fmt.Sprintf("{{value_json.%s}}", key),
		}
		payload, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding discovery payload: %w", err)
		}

		if err := p.broker.Publish(p.topics.HAConfig(s.DisplayID), payload, p.qos, true); err != nil {
			// Not announced: the state payload must not precede a
			// successful announcement, so the whole delivery is retried
			// on the next reading.
			return fmt.Errorf("publishing discovery payload: %w", err)
		}
		p.announced[s.DisplayID] = true
		p.log.Info("sensor announced",
			"convention", "home-assistant",
			"sensor_id", s.DisplayID,
			"device_class", key,
		)
	}

	state := map[string]string{
		key: fmt.Sprintf("%.2f", s.Value(r)),
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding state payload: %w", err)
	}

	if err := p.broker.Publish(stateTopic, payload, p.qos, false); err != nil {
		return fmt.Errorf("publishing state payload: %w", err)
	}

	return nil
}
