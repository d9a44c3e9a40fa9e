// Package discovery publishes sensor readings to an MQTT broker with
// auto-discovery metadata.
//
// Two mutually exclusive topic conventions are supported, selected by
// the payload_format configuration key:
//
//   - "home-assistant": per-sensor retained config payloads under
//     {base}/sensor/{device}_{displayId}/config, JSON state payloads
//     under .../state.
//   - "homie": a shared device subtree under {base}/{device} with
//     retained device metadata ($homie, $name, $nodes, $state) and
//     plain-string property topics per sensor.
//
// Both conventions share the same state machine: the first reading from
// a sensor triggers its one-time discovery announcement, strictly
// before that reading's state payload. A sensor only counts as
// announced once the discovery publish succeeded, so announcements are
// retried on subsequent readings after transient broker failures.
package discovery
