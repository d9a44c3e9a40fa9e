package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Payload format identifiers for the MQTT discovery publisher.
// Exactly one convention is active per process; they are mutually
// exclusive on the wire.
const (
	PayloadFormatHomeAssistant = "home-assistant"
	PayloadFormatHomie         = "homie"
)

// Acquisition source modes.
const (
	SourceSimulated = "simulated"
	SourceStdin     = "stdin"
)

// Config is the root configuration structure for arexxd.
// All configuration is loaded from YAML and can be overridden by
// AREXXD_* environment variables.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Sensors     []SensorConfig    `yaml:"sensors"`
	Outputs     OutputsConfig     `yaml:"outputs"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// AcquisitionConfig selects and tunes the reading source.
type AcquisitionConfig struct {
	// Mode is "simulated" or "stdin".
	Mode string `yaml:"mode"`

	// Interval is the simulated polling interval in seconds.
	Interval int `yaml:"interval"`
}

// SensorConfig declares one sensor known to the acquisition layer.
type SensorConfig struct {
	ID               int    `yaml:"id"`
	DisplayID        int    `yaml:"display_id"`
	Name             string `yaml:"name"`
	Type             string `yaml:"type"`
	Unit             string `yaml:"unit"`
	ManufacturerType string `yaml:"manufacturer_type"`
	Calibration      LinCal `yaml:"calibration"`
}

// LinCal holds linear calibration coefficients: value = scale*raw + offset.
type LinCal struct {
	Scale  float64 `yaml:"scale"`
	Offset float64 `yaml:"offset"`
}

// OutputsConfig enumerates the configured output sinks.
type OutputsConfig struct {
	Log       LogSinkConfig   `yaml:"log"`
	File      FileSinkConfig  `yaml:"file"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	LiveQuery LiveQueryConfig `yaml:"livequery"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
}

// LogSinkConfig enables the structured-log sink.
type LogSinkConfig struct {
	Enabled bool `yaml:"enabled"`
}

// FileSinkConfig contains flat-file sink settings.
type FileSinkConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Filename string `yaml:"filename"`
}

// SQLiteConfig contains relational sink settings.
type SQLiteConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Filename    string `yaml:"filename"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains time-series sink settings. The connection
// uses InfluxDB 1.x credentials (user/password/dbname) through the v1
// compatibility layer of the v2 client.
type InfluxDBConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// LiveQueryConfig contains the TCP live-query responder settings.
type LiveQueryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// MQTTConfig contains broker connection and discovery publication settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
	Discovery DiscoveryConfig     `yaml:"discovery"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// DiscoveryConfig selects the discovery payload convention and its
// topic parameters.
type DiscoveryConfig struct {
	// PayloadFormat is "home-assistant" or "homie".
	PayloadFormat string `yaml:"payload_format"`

	// BaseTopic is the topic prefix, e.g. "homeassistant" or "homie".
	BaseTopic string `yaml:"mqtt_base_topic"`

	// Device is the device identifier used in topic paths.
	Device string `yaml:"mqtt_device"`

	// DeviceName is the human-readable device name (homie $name).
	DeviceName string `yaml:"mqtt_device_name"`

	// HomieVersion is the homie convention version string.
	HomieVersion string `yaml:"homie_convention_version"`
}

// Load reads configuration from the given YAML file.
//
// Load applies three layers in order: built-in defaults, the YAML file,
// then AREXXD_* environment variable overrides. The result is validated
// before being returned.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults: local broker,
// live-query on port 4711, home-assistant payloads.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Acquisition: AcquisitionConfig{
			Mode:     SourceSimulated,
			Interval: 10,
		},
		Outputs: OutputsConfig{
			Log: LogSinkConfig{Enabled: true},
			File: FileSinkConfig{
				Filename: "/tmp/arexxd.out",
			},
			SQLite: SQLiteConfig{
				Filename:    "/tmp/arexxd.db",
				WALMode:     true,
				BusyTimeout: 5,
			},
			InfluxDB: InfluxDBConfig{
				Host: "127.0.0.1",
				Port: 8086,
			},
			LiveQuery: LiveQueryConfig{
				Host: "localhost",
				Port: 4711,
			},
			MQTT: MQTTConfig{
				Broker: MQTTBrokerConfig{
					Host: "localhost",
					Port: 1883,
				},
				QoS: 0,
				Reconnect: MQTTReconnectConfig{
					InitialDelay: 1,
					MaxDelay:     60,
				},
				Discovery: DiscoveryConfig{
					PayloadFormat: PayloadFormatHomeAssistant,
					BaseTopic:     "homeassistant",
					Device:        "arexxd",
					DeviceName:    "MQTT Adapter for Arexx Multilogger",
					HomieVersion:  "3.0",
				},
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides.
// Environment variables follow the pattern: AREXXD_SECTION_KEY.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AREXXD_MQTT_HOST"); v != "" {
		cfg.Outputs.MQTT.Broker.Host = v
	}
	if v := os.Getenv("AREXXD_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Outputs.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("AREXXD_MQTT_USERNAME"); v != "" {
		cfg.Outputs.MQTT.Auth.Username = v
	}
	if v := os.Getenv("AREXXD_MQTT_PASSWORD"); v != "" {
		cfg.Outputs.MQTT.Auth.Password = v
	}
	if v := os.Getenv("AREXXD_INFLUXDB_PASSWORD"); v != "" {
		cfg.Outputs.InfluxDB.Password = v
	}
	if v := os.Getenv("AREXXD_LIVEQUERY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Outputs.LiveQuery.Port = port
		}
	}
	if v := os.Getenv("AREXXD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	switch c.Acquisition.Mode {
	case SourceSimulated, SourceStdin:
	default:
		errs = append(errs, fmt.Sprintf("acquisition.mode %q is not supported", c.Acquisition.Mode))
	}
	if c.Acquisition.Interval < 1 {
		errs = append(errs, "acquisition.interval must be at least 1 second")
	}

	seen := make(map[int]bool, len(c.Sensors))
	for _, s := range c.Sensors {
		if s.Name == "" {
			errs = append(errs, fmt.Sprintf("sensors[%d].name is required", s.ID))
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate sensor id %d", s.ID))
		}
		seen[s.ID] = true
	}

	if c.Outputs.MQTT.Enabled {
		if c.Outputs.MQTT.QoS < 0 || c.Outputs.MQTT.QoS > 2 {
			errs = append(errs, "outputs.mqtt.qos must be 0, 1, or 2")
		}
		switch c.Outputs.MQTT.Discovery.PayloadFormat {
		case PayloadFormatHomeAssistant, PayloadFormatHomie:
		default:
			errs = append(errs, fmt.Sprintf(
				"outputs.mqtt.discovery.payload_format must be %q or %q",
				PayloadFormatHomeAssistant, PayloadFormatHomie))
		}
	}

	if c.Outputs.LiveQuery.Enabled {
		if c.Outputs.LiveQuery.Port < 1 || c.Outputs.LiveQuery.Port > 65535 {
			errs = append(errs, "outputs.livequery.port must be between 1 and 65535")
		}
	}

	if c.Outputs.File.Enabled && c.Outputs.File.Filename == "" {
		errs = append(errs, "outputs.file.filename is required")
	}
	if c.Outputs.SQLite.Enabled && c.Outputs.SQLite.Filename == "" {
		errs = append(errs, "outputs.sqlite.filename is required")
	}
	if c.Outputs.InfluxDB.Enabled && c.Outputs.InfluxDB.DBName == "" {
		errs = append(errs, "outputs.influxdb.dbname is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// PollInterval returns the acquisition interval as a Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Acquisition.Interval) * time.Second
}
