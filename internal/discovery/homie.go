package discovery

import (
	"fmt"
	"strings"

	"github.com/evanor/arexxd/internal/sensor"
)

// homieDatatype is the $datatype marker for all sensor properties.
const homieDatatype = "float"

// homieStateReady is the retained device $state value once metadata is
// published. The matching "lost" value is registered as the session's
// will message.
const (
	homieStateReady = "ready"
	homieStateLost  = "lost"
)

// deliverHomie publishes under the homie convention: one-time retained
// device metadata on the first sensor ever seen, then the full property
// tree for the sensor on every reading. Caller holds p.mu.
func (p *Publisher) deliverHomie(r sensor.Reading, s *sensor.Sensor) error {
	p.markSeen(s.DisplayID)

	if !p.deviceAnnounced {
		if err := p.announceHomieDevice(); err != nil {
			return err
		}
	}

	if err := p.publishHomieSensor(r, s); err != nil {
		return err
	}

	if !p.announced[s.DisplayID] {
		p.announced[s.DisplayID] = true
		p.log.Info("sensor announced",
			"convention", "homie",
			"sensor_id", s.DisplayID,
		)
	}

	return nil
}

// announceHomieDevice publishes the retained device metadata: protocol
// version, device name, node list and the "ready" state marker.
//
// The $nodes list is computed from the sensors known at this instant
// and is never refreshed: sensors first seen later publish their own
// subtrees but do not retroactively appear in $nodes. Consumers that
// rely on $nodes only see sensors present at device-announcement time.
// Caller holds p.mu.
func (p *Publisher) announceHomieDevice() error {
	nodes := make([]string, 0, len(p.known))
	for _, id := range p.known {
		nodes = append(nodes, fmt.Sprintf("sensor_%d", id))
	}

	steps := []struct {
		topic   string
		payload string
	}{
		{p.topics.HomieVersion(), p.cfg.HomieVersion},
		{p.topics.HomieName(), p.cfg.DeviceName},
		{p.topics.HomieNodes(), strings.Join(nodes, ",")},
		{p.topics.HomieState(), homieStateReady},
	}
	for _, step := range steps {
		if err := p.broker.PublishString(step.topic, step.payload, p.qos, true); err != nil {
			// Device stays unannounced; the whole sequence is retried
			// on the next reading.
			return fmt.Errorf("publishing device metadata to %s: %w", step.topic, err)
		}
	}

	p.deviceAnnounced = true
	p.log.Info("device announced",
		"convention", "homie",
		"device", p.topics.HomieDevice(),
		"nodes", strings.Join(nodes, ","),
	)
	return nil
}

// publishHomieSensor publishes the sensor's node attributes, property
// attributes and the formatted value. Caller holds p.mu.
func (p *Publisher) publishHomieSensor(r sensor.Reading, s *sensor.Sensor) error {
	id := s.DisplayID
	property := strings.ToLower(s.Type)

	steps := []struct {
		topic   string
		payload string
	}{
		{p.topics.HomieNodeType(id), s.ManufacturerType},
		{p.topics.HomieNodeName(id), s.Name},
		{p.topics.HomieNodeProperties(id), property},
		{p.topics.HomiePropertyName(id, property), fmt.Sprintf("%s %s", s.Name, s.Type)},
		{p.topics.HomiePropertyDatatype(id, property), homieDatatype},
		{p.topics.HomiePropertyUnit(id, property), s.Unit},
		{p.topics.HomieProperty(id, property), fmt.Sprintf("%.2f", s.Value(r))},
	}
	for _, step := range steps {
		if err := p.broker.PublishString(step.topic, step.payload, p.qos, false); err != nil {
			return fmt.Errorf("publishing to %s: %w", step.topic, err)
		}
	}
	return nil
}
