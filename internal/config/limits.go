package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvLimitsAnonymousDaily = "CARAVEL_LIMITS_ANONYMOUS_DAILY"
	EnvLimitsUserDaily      = "CARAVEL_LIMITS_USER_DAILY"
	EnvLimitsBypass         = "CARAVEL_LIMITS_BYPASS"
)

// LimitsConfig holds the daily usage quota parameters. Bypass disables all
// counting and is intended only for controlled test environments.
type LimitsConfig struct {
	AnonymousDaily int  `toml:"anonymous_daily"`
	UserDaily      int  `toml:"user_daily"`
	Bypass         bool `toml:"bypass"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LimitsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *LimitsConfig) Merge(overlay *LimitsConfig) {
	if overlay.AnonymousDaily != 0 {
		c.AnonymousDaily = overlay.AnonymousDaily
	}
	if overlay.UserDaily != 0 {
		c.UserDaily = overlay.UserDaily
	}
	if overlay.Bypass {
		c.Bypass = true
	}
}

func (c *LimitsConfig) loadDefaults() {
	if c.AnonymousDaily == 0 {
		c.AnonymousDaily = 1
	}
	if c.UserDaily == 0 {
		c.UserDaily = 5
	}
}

func (c *LimitsConfig) loadEnv() {
	if v := os.Getenv(EnvLimitsAnonymousDaily); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.AnonymousDaily = n
		}
	}
	if v := os.Getenv(EnvLimitsUserDaily); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.UserDaily = n
		}
	}
	if v := os.Getenv(EnvLimitsBypass); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Bypass = b
		}
	}
}

func (c *LimitsConfig) validate() error {
	if c.AnonymousDaily < 1 {
		return fmt.Errorf("invalid anonymous_daily: %d", c.AnonymousDaily)
	}
	if c.UserDaily < 1 {
		return fmt.Errorf("invalid user_daily: %d", c.UserDaily)
	}
	return nil
}
