package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/evanor/arexxd/internal/infrastructure/config"
	"github.com/evanor/arexxd/internal/infrastructure/logging"
)

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("AREXXD_CONFIG", "")
	os.Unsetenv("AREXXD_CONFIG")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("AREXXD_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestRun_InvalidConfig verifies run fails with an invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("AREXXD_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_NoSinksEnabled verifies run refuses a config with every
// output disabled.
func TestRun_NoSinksEnabled(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: info
  format: text
  output: stdout

acquisition:
  mode: simulated
  interval: 1

sensors:
  - id: 1
    display_id: 1
    name: Office
    type: Temperature
    unit: C
    calibration:
      scale: 0.1

outputs:
  log:
    enabled: false
`)
	t.Setenv("AREXXD_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with no sinks enabled")
	}
}

// TestRun_SimulatedStartupAndShutdown exercises a full startup with the
// simulated source and log sink, then a clean context shutdown.
func TestRun_SimulatedStartupAndShutdown(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: error
  format: text
  output: stdout

acquisition:
  mode: simulated
  interval: 60

sensors:
  - id: 1
    display_id: 1
    name: Office
    type: Temperature
    unit: C
    calibration:
      scale: 0.1

outputs:
  log:
    enabled: true
`)
	t.Setenv("AREXXD_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Errorf("run() error = %v, want clean shutdown", err)
	}
}

// TestBuildSinks_EnabledFlags verifies the sink set follows the
// per-output enabled flags.
func TestBuildSinks_EnabledFlags(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &config.Config{
		Outputs: config.OutputsConfig{
			Log:  config.LogSinkConfig{Enabled: true},
			File: config.FileSinkConfig{Enabled: true, Filename: filepath.Join(tmpDir, "out.txt")},
			LiveQuery: config.LiveQueryConfig{
				Enabled: true,
				Host:    "127.0.0.1",
				Port:    0,
			},
		},
	}
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	sinks := buildSinks(cfg, log)
	defer func() {
		for _, s := range sinks {
			closeSink(log, s)
		}
	}()

	want := []string{"log", "file", "livequery"}
	if len(sinks) != len(want) {
		t.Fatalf("buildSinks() returned %d sinks, want %d", len(sinks), len(want))
	}
	for i, name := range want {
		if sinks[i].Name() != name {
			t.Errorf("sink %d = %q, want %q", i, sinks[i].Name(), name)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}
