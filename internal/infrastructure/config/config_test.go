package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: "debug"
  format: "text"
sensors:
  - id: 2
    display_id: 7
    name: "Office"
    type: "Temperature"
    unit: "C"
    calibration:
      scale: 0.0078125
      offset: 0
outputs:
  livequery:
    enabled: true
    host: "127.0.0.1"
    port: 4711
  mqtt:
    enabled: true
    broker:
      host: "broker.local"
      port: 1883
    discovery:
      payload_format: "homie"
      mqtt_base_topic: "homie"
      mqtt_device: "arexx"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if len(cfg.Sensors) != 1 || cfg.Sensors[0].DisplayID != 7 {
		t.Errorf("Sensors = %+v, want one sensor with display_id 7", cfg.Sensors)
	}
	if cfg.Outputs.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.Outputs.MQTT.Broker.Host, "broker.local")
	}
	if cfg.Outputs.MQTT.Discovery.PayloadFormat != PayloadFormatHomie {
		t.Errorf("Discovery.PayloadFormat = %q, want homie", cfg.Outputs.MQTT.Discovery.PayloadFormat)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "logging:\n  level: info\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Outputs.LiveQuery.Port != 4711 {
		t.Errorf("LiveQuery.Port = %d, want default 4711", cfg.Outputs.LiveQuery.Port)
	}
	if cfg.Outputs.MQTT.Discovery.PayloadFormat != PayloadFormatHomeAssistant {
		t.Errorf("PayloadFormat = %q, want default home-assistant", cfg.Outputs.MQTT.Discovery.PayloadFormat)
	}
	if cfg.Acquisition.Mode != SourceSimulated {
		t.Errorf("Acquisition.Mode = %q, want default simulated", cfg.Acquisition.Mode)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AREXXD_MQTT_HOST", "override.local")
	t.Setenv("AREXXD_LIVEQUERY_PORT", "14711")

	cfg, err := Load(writeConfig(t, `
outputs:
  mqtt:
    enabled: true
    broker:
      host: "original.local"
    discovery:
      payload_format: "home-assistant"
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Outputs.MQTT.Broker.Host != "override.local" {
		t.Errorf("Broker.Host = %q, want env override", cfg.Outputs.MQTT.Broker.Host)
	}
	if cfg.Outputs.LiveQuery.Port != 14711 {
		t.Errorf("LiveQuery.Port = %d, want env override 14711", cfg.Outputs.LiveQuery.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name: "bad payload format",
			mutate: func(c *Config) {
				c.Outputs.MQTT.Enabled = true
				c.Outputs.MQTT.Discovery.PayloadFormat = "hap"
			},
			wantErr: "payload_format",
		},
		{
			name: "bad qos",
			mutate: func(c *Config) {
				c.Outputs.MQTT.Enabled = true
				c.Outputs.MQTT.QoS = 3
			},
			wantErr: "qos",
		},
		{
			name: "bad livequery port",
			mutate: func(c *Config) {
				c.Outputs.LiveQuery.Enabled = true
				c.Outputs.LiveQuery.Port = 0
			},
			wantErr: "livequery.port",
		},
		{
			name: "duplicate sensor id",
			mutate: func(c *Config) {
				c.Sensors = []SensorConfig{
					{ID: 1, Name: "a"},
					{ID: 1, Name: "b"},
				}
			},
			wantErr: "duplicate sensor id",
		},
		{
			name: "influx without dbname",
			mutate: func(c *Config) {
				c.Outputs.InfluxDB.Enabled = true
			},
			wantErr: "dbname",
		},
		{
			name: "bad acquisition mode",
			mutate: func(c *Config) {
				c.Acquisition.Mode = "usb"
			},
			wantErr: "acquisition.mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
