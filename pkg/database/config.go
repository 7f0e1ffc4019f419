package database

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds PostgreSQL connection and pool settings.
type Config struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"ssl_mode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`
}

// Env names the environment variables that may override each field.
type Env struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

// Dsn renders the config as a postgres:// connection URL. The password
// is URL-escaped so special characters survive.
func (c *Config) Dsn() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// ConnMaxLifetimeDuration returns ConnMaxLifetime as a time.Duration.
func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

// ConnTimeoutDuration returns ConnTimeout as a time.Duration.
func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// Finalize applies defaults, then env overrides, then validates.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields set in the overlay.
func (c *Config) Merge(overlay *Config) {
	for _, f := range []struct {
		src string
		dst *string
	}{
		{overlay.Host, &c.Host},
		{overlay.Name, &c.Name},
		{overlay.User, &c.User},
		{overlay.Password, &c.Password},
		{overlay.SSLMode, &c.SSLMode},
		{overlay.ConnMaxLifetime, &c.ConnMaxLifetime},
		{overlay.ConnTimeout, &c.ConnTimeout},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}

	for _, f := range []struct {
		src int
		dst *int
	}{
		{overlay.Port, &c.Port},
		{overlay.MaxOpenConns, &c.MaxOpenConns},
		{overlay.MaxIdleConns, &c.MaxIdleConns},
	} {
		if f.src != 0 {
			*f.dst = f.src
		}
	}
}

func (c *Config) loadDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.Name == "" {
		c.Name = "caravel"
	}
	if c.User == "" {
		c.User = "caravel"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "15m"
	}
	if c.ConnTimeout == "" {
		c.ConnTimeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	overrideString(env.Host, &c.Host)
	overrideInt(env.Port, &c.Port)
	overrideString(env.Name, &c.Name)
	overrideString(env.User, &c.User)
	overrideString(env.Password, &c.Password)
	overrideString(env.SSLMode, &c.SSLMode)
	overrideInt(env.MaxOpenConns, &c.MaxOpenConns)
	overrideInt(env.MaxIdleConns, &c.MaxIdleConns)
	overrideString(env.ConnMaxLifetime, &c.ConnMaxLifetime)
	overrideString(env.ConnTimeout, &c.ConnTimeout)
}

func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("database name required")
	}
	if c.User == "" {
		return fmt.Errorf("database user required")
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid conn_max_lifetime: %w", err)
	}
	if _, err := time.ParseDuration(c.ConnTimeout); err != nil {
		return fmt.Errorf("invalid conn_timeout: %w", err)
	}
	return nil
}

func overrideString(envVar string, dst *string) {
	if envVar == "" {
		return
	}
	if v := os.Getenv(envVar); v != "" {
		*dst = v
	}
}

func overrideInt(envVar string, dst *int) {
	if envVar == "" {
		return
	}
	if v := os.Getenv(envVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
