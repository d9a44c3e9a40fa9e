package discovery

import "fmt"

// Topics builds the MQTT topic paths for both payload conventions.
// Base and Device come from configuration; using these helpers keeps
// topic naming consistent between the publisher and its tests.
type Topics struct {
	Base   string
	Device string
}

// =============================================================================
// Home Assistant convention
// =============================================================================

// HAConfig returns the per-sensor retained discovery topic.
//
// Example: homeassistant/sensor/arexxd_7/config
func (t Topics) HAConfig(displayID int) string {
	return fmt.Sprintf("%s/sensor/%s_%d/config", t.Base, t.Device, displayID)
}

// HAState returns the per-sensor state topic.
//
// Example: homeassistant/sensor/arexxd_7/state
func (t Topics) HAState(displayID int) string {
	return fmt.Sprintf("%s/sensor/%s_%d/state", t.Base, t.Device, displayID)
}

// =============================================================================
// Homie convention
// =============================================================================

// HomieDevice returns the device subtree root.
//
// Example: homie/arexxd
func (t Topics) HomieDevice() string {
	return fmt.Sprintf("%s/%s", t.Base, t.Device)
}

// HomieVersion returns the $homie protocol version topic.
func (t Topics) HomieVersion() string {
	return t.HomieDevice() + "/$homie"
}

// HomieName returns the device $name topic.
func (t Topics) HomieName() string {
	return t.HomieDevice() + "/$name"
}

// HomieNodes returns the device $nodes topic.
func (t Topics) HomieNodes() string {
	return t.HomieDevice() + "/$nodes"
}

// HomieState returns the device $state topic.
func (t Topics) HomieState() string {
	return t.HomieDevice() + "/$state"
}

// HomieNode returns a sensor node's subtree root.
//
// Example: homie/arexxd/sensor_7
func (t Topics) HomieNode(displayID int) string {
	return fmt.Sprintf("%s/sensor_%d", t.HomieDevice(), displayID)
}

// HomieNodeType returns a node's $type topic.
func (t Topics) HomieNodeType(displayID int) string {
	return t.HomieNode(displayID) + "/$type"
}

// HomieNodeName returns a node's $name topic.
func (t Topics) HomieNodeName(displayID int) string {
	return t.HomieNode(displayID) + "/$name"
}

// HomieNodeProperties returns a node's $properties topic.
func (t Topics) HomieNodeProperties(displayID int) string {
	return t.HomieNode(displayID) + "/$properties"
}

// HomieProperty returns a property's value topic.
//
// Example: homie/arexxd/sensor_7/temperature
func (t Topics) HomieProperty(displayID int, property string) string {
	return fmt.Sprintf("%s/%s", t.HomieNode(displayID), property)
}

// HomiePropertyName returns a property's $name topic.
func (t Topics) HomiePropertyName(displayID int, property string) string {
	return t.HomieProperty(displayID, property) + "/$name"
}

// HomiePropertyDatatype returns a property's $datatype topic.
func (t Topics) HomiePropertyDatatype(displayID int, property string) string {
	return t.HomieProperty(displayID, property) + "/$datatype"
}

// HomiePropertyUnit returns a property's $unit topic.
func (t Topics) HomiePropertyUnit(displayID int, property string) string {
	return t.HomieProperty(displayID, property) + "/$unit"
}
