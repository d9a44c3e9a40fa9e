// Package sensor defines the domain types shared between the acquisition
// layer and the output sinks.
//
// A Reading is an immutable raw measurement produced by the acquisition
// loop. A Sensor describes the device that produced it, including the
// calibration function that converts raw counts into an engineering value.
// Sensors are long-lived and shared; sinks must never mutate them.
package sensor
