package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config holds the clamdb configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig holds BadgerDB settings.
type StorageConfig struct {
	Dir            string `yaml:"dir"`
	InMemory       bool   `yaml:"in_memory"`
	SyncWrites     bool   `yaml:"sync_writes"`
	RegistryKey    string `yaml:"registry_key"`
	RegistryKeyLen int    `yaml:"registry_key_len"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // local, dev, prod (default: local)
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML configuration, applies defaults and validates the result.
// References of the form ${VAR} are replaced by environment variables.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Storage.RegistryKeyLen <= 0 {
		c.Storage.RegistryKeyLen = 1
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "local"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Storage.Dir == "" && !c.Storage.InMemory {
		return fmt.Errorf("storage.dir is required unless storage.in_memory is set")
	}
	if c.Storage.Dir != "" && c.Storage.InMemory {
		return fmt.Errorf("storage.dir and storage.in_memory are mutually exclusive")
	}
	if c.Storage.RegistryKeyLen > 8 {
		return fmt.Errorf("storage.registry_key_len must be at most 8, got %d", c.Storage.RegistryKeyLen)
	}
	switch c.Logging.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("logging.env must be \"local\", \"dev\" or \"prod\", got %q", c.Logging.Env)
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envVarPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}
