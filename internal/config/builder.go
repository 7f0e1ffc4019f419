package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvBuilderConcurrency = "CARAVEL_BUILDER_CONCURRENCY"
	EnvBuilderTaskDelay   = "CARAVEL_BUILDER_TASK_DELAY"
	EnvBuilderMaxRetries  = "CARAVEL_BUILDER_MAX_RETRIES"
	EnvBuilderCommitEvery = "CARAVEL_BUILDER_COMMIT_EVERY"
)

// BuilderConfig tunes the offline knowledge pipeline and locates its
// input/output files.
type BuilderConfig struct {
	Concurrency    int    `toml:"concurrency"`
	TaskDelay      string `toml:"task_delay"`
	MaxRetries     int    `toml:"max_retries"`
	RetryDelay     string `toml:"retry_delay"`
	CommitEvery    int    `toml:"commit_every"`
	InputFile      string `toml:"input_file"`
	FailedFile     string `toml:"failed_file"`
	PopularityPath string `toml:"popularity_path"`
	PatternsPath   string `toml:"patterns_path"`
	TopDefault     int    `toml:"top_default"`
}

// TaskDelayDuration returns TaskDelay as a time.Duration.
func (c *BuilderConfig) TaskDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.TaskDelay)
	return d
}

// RetryDelayDuration returns RetryDelay as a time.Duration.
func (c *BuilderConfig) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *BuilderConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *BuilderConfig) Merge(overlay *BuilderConfig) {
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.TaskDelay != "" {
		c.TaskDelay = overlay.TaskDelay
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.RetryDelay != "" {
		c.RetryDelay = overlay.RetryDelay
	}
	if overlay.CommitEvery != 0 {
		c.CommitEvery = overlay.CommitEvery
	}
	if overlay.InputFile != "" {
		c.InputFile = overlay.InputFile
	}
	if overlay.FailedFile != "" {
		c.FailedFile = overlay.FailedFile
	}
	if overlay.PopularityPath != "" {
		c.PopularityPath = overlay.PopularityPath
	}
	if overlay.PatternsPath != "" {
		c.PatternsPath = overlay.PatternsPath
	}
	if overlay.TopDefault != 0 {
		c.TopDefault = overlay.TopDefault
	}
}

func (c *BuilderConfig) loadDefaults() {
	if c.Concurrency == 0 {
		c.Concurrency = 2
	}
	if c.TaskDelay == "" {
		c.TaskDelay = "2s"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay == "" {
		c.RetryDelay = "5s"
	}
	if c.CommitEvery == 0 {
		c.CommitEvery = 10
	}
	if c.InputFile == "" {
		c.InputFile = "knowledge/categories.txt"
	}
	if c.FailedFile == "" {
		c.FailedFile = "knowledge/categories_failed.txt"
	}
	if c.PopularityPath == "" {
		c.PopularityPath = "knowledge/analytics/popularity.json"
	}
	if c.PatternsPath == "" {
		c.PatternsPath = "knowledge/analytics/patterns.json"
	}
	if c.TopDefault == 0 {
		c.TopDefault = 50
	}
}

func (c *BuilderConfig) loadEnv() {
	if v := os.Getenv(EnvBuilderConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := os.Getenv(EnvBuilderTaskDelay); v != "" {
		c.TaskDelay = v
	}
	if v := os.Getenv(EnvBuilderMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv(EnvBuilderCommitEvery); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CommitEvery = n
		}
	}
}

func (c *BuilderConfig) validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency: %d", c.Concurrency)
	}
	if _, err := time.ParseDuration(c.TaskDelay); err != nil {
		return fmt.Errorf("invalid task_delay: %w", err)
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return fmt.Errorf("invalid retry_delay: %w", err)
	}
	if c.TopDefault < 1 {
		return fmt.Errorf("invalid top_default: %d", c.TopDefault)
	}
	return nil
}
