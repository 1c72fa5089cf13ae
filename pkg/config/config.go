// Package config provides configuration loading for the adapter binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/consuelo/flowbridge/pkg/n8n"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration of one adapter process.
type Config struct {
	LogLevel string     `yaml:"log_level"`
	Port     int        `yaml:"port"`
	Engine   n8n.Config `yaml:"engine"`
	Tracing  Tracing    `yaml:"tracing"`
}

// Tracing toggles the OTLP exporter. Endpoint configuration follows the
// standard OTEL_* environment variables.
type Tracing struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

const (
	defaultPort        = 9080
	defaultLogLevel    = "info"
	defaultServiceName = "flowbridge"
)

// Load reads a YAML config file and overlays engine credentials from the
// environment (N8N_API_URL / N8N_API_KEY, with ACTIVEPIECES_* accepted as
// legacy aliases).
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	return cfg, nil
}

// LoadOrDefault attempts to load from the file, falling back to an
// environment-only configuration when the file does not exist.
func LoadOrDefault(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = Config{}
		applyDefaults(&cfg)
		applyEnv(&cfg)
	}

	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = defaultServiceName
	}

	if cfg.Engine.Timeout == 0 {
		cfg.Engine.Timeout = 30 * time.Second
	}
}

func applyEnv(cfg *Config) {
	if v := firstEnv("N8N_API_URL", "ACTIVEPIECES_API_URL"); v != "" {
		cfg.Engine.BaseURL = v
	}

	if v := firstEnv("N8N_API_KEY", "ACTIVEPIECES_API_KEY"); v != "" {
		cfg.Engine.APIKey = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}

	return ""
}

// Validate checks the parts every binary needs.
func (c Config) Validate() error {
	if c.Engine.BaseURL == "" {
		return errors.New("engine base URL is required (engine.base_url or N8N_API_URL)")
	}

	if c.Engine.APIKey == "" {
		return errors.New("engine API key is required (engine.api_key or N8N_API_KEY)")
	}

	return nil
}
