// Package mqtt provides the broker session used by the discovery
// publisher.
//
// This package manages:
//   - Connection to the broker with auto-reconnect and backoff
//   - Acknowledged publishing with a per-call timeout
//   - Optional Last Will and Testament (homie $state "lost")
//   - Connection state callbacks for logging
//
// The daemon is publish-only: no inbound topics are consumed, so the
// package deliberately has no subscription API. The paho network loop
// still runs in the background for keepalive and acknowledgments.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.Outputs.MQTT, nil)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishString("homie/arexxd/$state", "ready", 0, true)
package mqtt
