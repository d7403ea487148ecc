package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the UPnP stack.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Stack    StackConfig    `yaml:"stack"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
	Registry RegistryConfig `yaml:"registry"`
	Binder   BinderConfig   `yaml:"binder"`
}

// StackConfig contains stack-wide identity settings.
type StackConfig struct {
	// ID identifies this stack instance in logs and MQTT client IDs.
	ID string `yaml:"id"`

	// AdvertisedHost is the host:port this stack's registry resources
	// are served under. Absolute resource URIs for any other host are
	// rejected.
	AdvertisedHost string `yaml:"advertised_host"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
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

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string            `yaml:"level"`
	Format string            `yaml:"format"`
	Output string            `yaml:"output"`
	File   FileLoggingConfig `yaml:"file"`
}

// FileLoggingConfig contains file-based logging settings.
type FileLoggingConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// RegistryConfig contains device registry settings.
type RegistryConfig struct {
	// SweepIntervalSeconds is the cadence of the expiration sweep.
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`

	// Journal enables the SQLite lifecycle journal listener.
	Journal bool `yaml:"journal"`
}

// Binder modes for parsing remote descriptors.
const (
	BinderModeStrict     = "strict"
	BinderModeRecovering = "recovering"
)

// BinderConfig contains descriptor binder settings.
type BinderConfig struct {
	// Mode selects the binder variant used for remote descriptors:
	// "strict" or "recovering".
	Mode string `yaml:"mode"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GLUPNP_SECTION_KEY
// For example: GLUPNP_DATABASE_PATH, GLUPNP_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Stack: StackConfig{
			ID:             "upnp-001",
			AdvertisedHost: "127.0.0.1:4004",
		},
		Database: DatabaseConfig{
			Path:        "./data/upnpcore.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "upnpcore",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Registry: RegistryConfig{
			SweepIntervalSeconds: 5,
			Journal:              true,
		},
		Binder: BinderConfig{
			Mode: BinderModeRecovering,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: GLUPNP_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Stack
	if v := os.Getenv("GLUPNP_STACK_ADVERTISED_HOST"); v != "" {
		cfg.Stack.AdvertisedHost = v
	}

	// Database
	if v := os.Getenv("GLUPNP_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("GLUPNP_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GLUPNP_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GLUPNP_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("GLUPNP_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Binder
	if v := os.Getenv("GLUPNP_BINDER_MODE"); v != "" {
		cfg.Binder.Mode = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Stack.ID == "" {
		errs = append(errs, "stack.id is required")
	}
	if c.Stack.AdvertisedHost == "" {
		errs = append(errs, "stack.advertised_host is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.Registry.SweepIntervalSeconds < 0 {
		errs = append(errs, "registry.sweep_interval_seconds must not be negative")
	}

	if c.Binder.Mode != BinderModeStrict && c.Binder.Mode != BinderModeRecovering {
		errs = append(errs, `binder.mode must be "strict" or "recovering"`)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SweepInterval returns the registry sweep cadence as a Duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Registry.SweepIntervalSeconds) * time.Second
}
