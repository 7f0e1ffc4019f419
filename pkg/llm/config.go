package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds model provider connection parameters. The API token is never
// read from file-based configuration; it comes exclusively from the
// environment variable named by the Env mapping.
type Config struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	RequestTimeout string `toml:"request_timeout"`

	token string
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL        string
	Model          string
	Token          string
	RequestTimeout string
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *Config) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// Token returns the API token loaded during Finalize.
func (c *Config) Token() string {
	return c.token
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.RequestTimeout != "" {
		c.RequestTimeout = overlay.RequestTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "2m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.Token != "" {
		c.token = os.Getenv(env.Token)
	}
	if env.RequestTimeout != "" {
		if v := os.Getenv(env.RequestTimeout); v != "" {
			c.RequestTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	return nil
}
