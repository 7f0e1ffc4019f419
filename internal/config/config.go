package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caravel-labs/caravel/pkg/database"
	"github.com/caravel-labs/caravel/pkg/llm"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCaravelEnv             = "CARAVEL_ENV"
	EnvCaravelShutdownTimeout = "CARAVEL_SHUTDOWN_TIMEOUT"
	EnvCaravelVersion         = "CARAVEL_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CARAVEL_DB_HOST",
	Port:            "CARAVEL_DB_PORT",
	Name:            "CARAVEL_DB_NAME",
	User:            "CARAVEL_DB_USER",
	Password:        "CARAVEL_DB_PASSWORD",
	SSLMode:         "CARAVEL_DB_SSL_MODE",
	MaxOpenConns:    "CARAVEL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CARAVEL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CARAVEL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CARAVEL_DB_CONN_TIMEOUT",
}

var llmEnv = &llm.Env{
	BaseURL:        "CARAVEL_LLM_BASE_URL",
	Model:          "CARAVEL_LLM_MODEL",
	Token:          "CARAVEL_LLM_TOKEN",
	RequestTimeout: "CARAVEL_LLM_REQUEST_TIMEOUT",
}

// Config is the root configuration for the Caravel service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	API             APIConfig       `toml:"api"`
	LLM             llm.Config      `toml:"llm"`
	Knowledge       KnowledgeConfig `toml:"knowledge"`
	Limits          LimitsConfig    `toml:"limits"`
	UsageLog        UsageLogConfig  `toml:"usage_log"`
	Builder         BuilderConfig   `toml:"builder"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the CARAVEL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCaravelEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.LLM.Merge(&overlay.LLM)
	c.Knowledge.Merge(&overlay.Knowledge)
	c.Limits.Merge(&overlay.Limits)
	c.UsageLog.Merge(&overlay.UsageLog)
	c.Builder.Merge(&overlay.Builder)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"api", c.API.Finalize},
		{"llm", func() error { return c.LLM.Finalize(llmEnv) }},
		{"knowledge", c.Knowledge.Finalize},
		{"limits", c.Limits.Finalize},
		{"usage_log", c.UsageLog.Finalize},
		{"builder", c.Builder.Finalize},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCaravelShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCaravelVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCaravelEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
