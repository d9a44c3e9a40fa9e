// Package config loads and validates arexxd configuration.
//
// Configuration is YAML-based with environment variable overrides:
//
//	logging:
//	  level: "info"
//	  format: "json"
//	acquisition:
//	  mode: "simulated"
//	  interval: 10
//	sensors:
//	  - id: 2
//	    display_id: 7
//	    name: "Office"
//	    type: "Temperature"
//	    unit: "C"
//	    calibration: { scale: 0.0078125, offset: 0 }
//	outputs:
//	  livequery: { enabled: true, host: "localhost", port: 4711 }
//	  mqtt:
//	    enabled: true
//	    broker: { host: "localhost", port: 1883 }
//	    discovery:
//	      payload_format: "home-assistant"
//	      mqtt_base_topic: "homeassistant"
//	      mqtt_device: "arexxd"
//
// Secrets (broker credentials, InfluxDB password) should be supplied
// via AREXXD_* environment variables rather than the YAML file.
package config
