package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvUsageLogPath       = "CARAVEL_USAGE_LOG_PATH"
	EnvUsageLogBufferSize = "CARAVEL_USAGE_LOG_BUFFER_SIZE"
)

// UsageLogConfig locates the append-only NDJSON usage log.
type UsageLogConfig struct {
	Path       string `toml:"path"`
	BufferSize int    `toml:"buffer_size"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *UsageLogConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *UsageLogConfig) Merge(overlay *UsageLogConfig) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.BufferSize != 0 {
		c.BufferSize = overlay.BufferSize
	}
}

func (c *UsageLogConfig) loadDefaults() {
	if c.Path == "" {
		c.Path = "data/category_usage.ndjson"
	}
	if c.BufferSize == 0 {
		c.BufferSize = 64
	}
}

func (c *UsageLogConfig) loadEnv() {
	if v := os.Getenv(EnvUsageLogPath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(EnvUsageLogBufferSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BufferSize = n
		}
	}
}

func (c *UsageLogConfig) validate() error {
	if c.BufferSize < 1 {
		return fmt.Errorf("invalid buffer_size: %d", c.BufferSize)
	}
	return nil
}
