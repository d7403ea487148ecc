package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	content := `
stack:
  id: "test-stack"
  advertised_host: "192.0.2.1:4004"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: true
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
registry:
  sweep_interval_seconds: 2
binder:
  mode: "strict"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Stack.ID != "test-stack" {
		t.Errorf("Stack.ID = %q, want %q", cfg.Stack.ID, "test-stack")
	}

	if cfg.Stack.AdvertisedHost != "192.0.2.1:4004" {
		t.Errorf("Stack.AdvertisedHost = %q", cfg.Stack.AdvertisedHost)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}

	if cfg.Binder.Mode != BinderModeStrict {
		t.Errorf("Binder.Mode = %q, want strict", cfg.Binder.Mode)
	}

	if got := cfg.SweepInterval().Seconds(); got != 2 {
		t.Errorf("SweepInterval() = %v, want 2s", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
stack:
  id: ""
database:
  path: "/tmp/test.db"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty stack.id, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Stack:    StackConfig{ID: "upnp-001", AdvertisedHost: "127.0.0.1:4004"},
			Database: DatabaseConfig{Path: "/data/upnpcore.db"},
			MQTT:     MQTTConfig{QoS: 1},
			Binder:   BinderConfig{Mode: BinderModeRecovering},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"missing stack ID", func(c *Config) { c.Stack.ID = "" }, true},
		{"missing advertised host", func(c *Config) { c.Stack.AdvertisedHost = "" }, true},
		{"missing database path", func(c *Config) { c.Database.Path = "" }, true},
		{"invalid QoS", func(c *Config) { c.MQTT.QoS = 3 }, true},
		{"negative sweep interval", func(c *Config) { c.Registry.SweepIntervalSeconds = -1 }, true},
		{"unknown binder mode", func(c *Config) { c.Binder.Mode = "lenient" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	// Set environment variables
	t.Setenv("GLUPNP_STACK_ADVERTISED_HOST", "198.51.100.7:4004")
	t.Setenv("GLUPNP_DATABASE_PATH", "/custom/path.db")
	t.Setenv("GLUPNP_MQTT_HOST", "mqtt.example.com")
	t.Setenv("GLUPNP_MQTT_USERNAME", "testuser")
	t.Setenv("GLUPNP_MQTT_PASSWORD", "testpass")
	t.Setenv("GLUPNP_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("GLUPNP_BINDER_MODE", "strict")

	applyEnvOverrides(cfg)

	if cfg.Stack.AdvertisedHost != "198.51.100.7:4004" {
		t.Errorf("Stack.AdvertisedHost = %q", cfg.Stack.AdvertisedHost)
	}

	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}

	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}

	if cfg.Binder.Mode != BinderModeStrict {
		t.Errorf("Binder.Mode = %q, want strict", cfg.Binder.Mode)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Stack.ID == "" {
		t.Error("defaultConfig should have non-empty Stack.ID")
	}

	if cfg.Database.Path == "" {
		t.Error("defaultConfig should have non-empty Database.Path")
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}

	if cfg.Binder.Mode != BinderModeRecovering {
		t.Errorf("defaultConfig Binder.Mode = %q, want recovering", cfg.Binder.Mode)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig does not validate: %v", err)
	}
}
