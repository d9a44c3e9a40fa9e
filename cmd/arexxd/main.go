// arexxd - fan-out daemon for Arexx Multilogger sensor readings.
//
// Readings flow from an acquisition source through a dispatcher into a
// configurable set of output sinks: structured log, append-only file,
// SQLite, InfluxDB, a TCP live-query responder and an MQTT publisher
// with auto-discovery metadata.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/evanor/arexxd/internal/acquire"
	"github.com/evanor/arexxd/internal/discovery"
	"github.com/evanor/arexxd/internal/infrastructure/config"
	"github.com/evanor/arexxd/internal/infrastructure/logging"
	"github.com/evanor/arexxd/internal/infrastructure/mqtt"
	"github.com/evanor/arexxd/internal/livequery"
	"github.com/evanor/arexxd/internal/process"
	"github.com/evanor/arexxd/internal/sink"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Deferred Close calls unwind in reverse construction
// order on shutdown.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting arexxd",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	sensors := acquire.BuildSensors(cfg.Sensors)
	log.Info("sensor registry built", "sensors", len(sensors))

	sinks := buildSinks(cfg, log)
	defer func() {
		for i := len(sinks) - 1; i >= 0; i-- {
			closeSink(log, sinks[i])
		}
	}()
	if len(sinks) == 0 {
		return fmt.Errorf("no output sinks enabled")
	}

	dispatcher := sink.NewDispatcher(log, sinks...)

	source, err := acquire.New(cfg.Acquisition, sensors, os.Stdin, log)
	if err != nil {
		return fmt.Errorf("creating acquisition source: %w", err)
	}

	// The acquisition loop runs supervised: a failing source is
	// restarted with a delay instead of silently dying.
	acquisition := process.NewRunner(process.Config{
		Name: "acquisition",
		Task: func(ctx context.Context) error {
			return source.Run(ctx, dispatcher.Dispatch)
		},
		RestartOnFailure: true,
	})
	acquisition.SetLogger(log)
	if err := acquisition.Start(ctx); err != nil {
		return fmt.Errorf("starting acquisition: %w", err)
	}
	defer func() {
		log.Info("stopping acquisition")
		acquisition.Stop()
	}()

	log.Info("initialisation complete, waiting for shutdown signal",
		"mode", cfg.Acquisition.Mode,
		"sinks", len(sinks),
	)

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// buildSinks constructs every enabled output sink in delivery order.
func buildSinks(cfg *config.Config, log *logging.Logger) []sink.Sink {
	var sinks []sink.Sink

	if cfg.Outputs.Log.Enabled {
		sinks = append(sinks, sink.NewLogSink(log))
		log.Info("log sink enabled")
	}

	if cfg.Outputs.File.Enabled {
		sinks = append(sinks, sink.NewFileSink(cfg.Outputs.File.Filename, log))
		log.Info("file sink enabled", "filename", cfg.Outputs.File.Filename)
	}

	if cfg.Outputs.SQLite.Enabled {
		sinks = append(sinks, sink.NewSQLiteSink(cfg.Outputs.SQLite, log))
		log.Info("sqlite sink enabled", "filename", cfg.Outputs.SQLite.Filename)
	}

	if cfg.Outputs.InfluxDB.Enabled {
		sinks = append(sinks, sink.NewInfluxSink(cfg.Outputs.InfluxDB, log))
		log.Info("influxdb sink enabled",
			"host", cfg.Outputs.InfluxDB.Host,
			"port", cfg.Outputs.InfluxDB.Port,
			"dbname", cfg.Outputs.InfluxDB.DBName,
		)
	}

	if cfg.Outputs.LiveQuery.Enabled {
		lq := livequery.NewServer(cfg.Outputs.LiveQuery, log)
		lq.Start()
		sinks = append(sinks, lq)
		log.Info("live-query sink enabled",
			"host", cfg.Outputs.LiveQuery.Host,
			"port", cfg.Outputs.LiveQuery.Port,
			"ready", lq.Ready(),
		)
	}

	if cfg.Outputs.MQTT.Enabled {
		pub := discovery.New(cfg.Outputs.MQTT, mqttDialer(cfg.Outputs.MQTT, log), log)
		sinks = append(sinks, pub)
		log.Info("mqtt sink enabled",
			"broker", fmt.Sprintf("%s:%d", cfg.Outputs.MQTT.Broker.Host, cfg.Outputs.MQTT.Broker.Port),
			"payload_format", cfg.Outputs.MQTT.Discovery.PayloadFormat,
		)
	}

	return sinks
}

// mqttDialer adapts the broker transport to the discovery publisher,
// registering the homie availability will when that convention is
// active.
func mqttDialer(cfg config.MQTTConfig, log *logging.Logger) discovery.DialFunc {
	return func() (discovery.Broker, error) {
		var will *mqtt.Will
		if topic, payload, ok := discovery.LastWill(cfg); ok {
			will = &mqtt.Will{
				Topic:    topic,
				Payload:  payload,
				QoS:      byte(cfg.QoS),
				Retained: true,
			}
		}

		client, err := mqtt.Connect(cfg, will)
		if err != nil {
			return nil, err
		}
		client.SetOnConnect(func() {
			log.Info("mqtt reconnected")
		})
		client.SetOnDisconnect(func(err error) {
			log.Warn("mqtt disconnected", "error", err)
		})
		return client, nil
	}
}

// closeSink closes a sink when it owns resources.
func closeSink(log *logging.Logger, s sink.Sink) {
	closer, ok := s.(interface{ Close() error })
	if !ok {
		return
	}
	log.Info("closing sink", "sink", s.Name())
	if err := closer.Close(); err != nil {
		log.Error("error closing sink", "sink", s.Name(), "error", err)
	}
}

// getConfigPath returns the configuration file path.
// Uses AREXXD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("AREXXD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
