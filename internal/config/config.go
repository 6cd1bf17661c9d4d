package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds the application configuration
type Config struct {
	Storage       StorageConfig `yaml:"storage"`
	LogLevel      string        `yaml:"log_level,omitempty"`      // debug, info, warn, error (fallback: info)
	MQTT          MQTTConfig    `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig      `yaml:"home_assistant,omitempty"`
}

// StorageConfig selects where the habit document lives
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"` // sqlite or file (fallback: sqlite)
	Path    string `yaml:"path,omitempty"`    // database file, or directory for the file backend
	Key     string `yaml:"key,omitempty"`     // blob key (fallback: @habits)
}

// MQTTConfig holds MQTT broker settings for publishing stats
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // fallback: minihabits
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled      bool   `yaml:"enabled"`
	URL          string `yaml:"url"`                     // e.g., "http://homeassistant.local:8123"
	Token        string `yaml:"token"`                   // Long-lived access token
	EntityPrefix string `yaml:"entity_prefix,omitempty"` // sensor.<prefix>_<habit> (fallback: habit)
}

// Load reads the config file and applies environment overrides
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Missing file means defaults
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	overrideFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

func overrideFromEnv(cfg *Config) {
	if path := os.Getenv("MINIHABITS_DB"); path != "" {
		cfg.Storage.Path = path
	}
	if level := os.Getenv("MINIHABITS_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
}

// Validate checks enum fields
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("unknown storage backend: %s (available: sqlite, file)", c.Storage.Backend)
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("MQTT broker address is required when enabled")
	}
	return nil
}

// GetBackend returns the storage backend with a default of sqlite
func (c *Config) GetBackend() string {
	if c.Storage.Backend == "" {
		return BackendSQLite
	}
	return c.Storage.Backend
}

// GetStoragePath returns the storage location, defaulting per backend
func (c *Config) GetStoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.GetBackend() == BackendFile {
		return "habits.d"
	}
	return "habits.db"
}

// GetStorageKey returns the blob key the habit list is stored under
func (c *Config) GetStorageKey() string {
	if c.Storage.Key == "" {
		return "@habits"
	}
	return c.Storage.Key
}

// GetLogLevel returns the log level with a default of info
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetTopicPrefix returns the MQTT topic prefix
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "minihabits"
	}
	return c.MQTT.TopicPrefix
}

// GetEntityPrefix returns the Home Assistant entity prefix
func (c *Config) GetEntityPrefix() string {
	if c.HomeAssistant.EntityPrefix == "" {
		return "habit"
	}
	return c.HomeAssistant.EntityPrefix
}
