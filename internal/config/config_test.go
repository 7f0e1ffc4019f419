package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/caravel-labs/caravel/internal/config"
)

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("base path = %s, want /api", cfg.API.BasePath)
	}
	if cfg.Limits.AnonymousDaily != 1 {
		t.Errorf("anonymous daily = %d, want 1", cfg.Limits.AnonymousDaily)
	}
	if cfg.Limits.UserDaily != 5 {
		t.Errorf("user daily = %d, want 5", cfg.Limits.UserDaily)
	}
	if cfg.Limits.Bypass {
		t.Error("bypass = true, want false")
	}
	if cfg.Builder.Concurrency != 2 {
		t.Errorf("builder concurrency = %d, want 2", cfg.Builder.Concurrency)
	}
	if cfg.Builder.TopDefault != 50 {
		t.Errorf("builder top default = %d, want 50", cfg.Builder.TopDefault)
	}
	if cfg.UsageLog.BufferSize != 64 {
		t.Errorf("usage log buffer = %d, want 64", cfg.UsageLog.BufferSize)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout = %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.LLM.Model == "" {
		t.Error("llm model empty, want default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("CARAVEL_SERVER_PORT", "9090")
	t.Setenv("CARAVEL_LIMITS_ANONYMOUS_DAILY", "3")
	t.Setenv("CARAVEL_LIMITS_BYPASS", "true")
	t.Setenv("CARAVEL_KNOWLEDGE_COMPLIANCE_PATH", "/tmp/compliance.json")
	t.Setenv("CARAVEL_USAGE_LOG_PATH", "/tmp/usage.ndjson")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Limits.AnonymousDaily != 3 {
		t.Errorf("anonymous daily = %d, want 3", cfg.Limits.AnonymousDaily)
	}
	if !cfg.Limits.Bypass {
		t.Error("bypass = false, want true")
	}
	if cfg.Knowledge.CompliancePath != "/tmp/compliance.json" {
		t.Errorf("compliance path = %s, want /tmp/compliance.json", cfg.Knowledge.CompliancePath)
	}
	if cfg.UsageLog.Path != "/tmp/usage.ndjson" {
		t.Errorf("usage log path = %s, want /tmp/usage.ndjson", cfg.UsageLog.Path)
	}
}

func TestLoadBaseAndOverlay(t *testing.T) {
	t.Chdir(t.TempDir())

	base := `
version = "1.2.3"

[server]
port = 9000

[limits]
user_daily = 10
`
	overlay := `
[server]
port = 9001
`
	writeFile(t, "config.toml", base)
	writeFile(t, "config.staging.toml", overlay)
	t.Setenv("CARAVEL_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "1.2.3" {
		t.Errorf("version = %s, want 1.2.3", cfg.Version)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("server port = %d, want overlay value 9001", cfg.Server.Port)
	}
	if cfg.Limits.UserDaily != 10 {
		t.Errorf("user daily = %d, want base value 10", cfg.Limits.UserDaily)
	}
	if cfg.Env() != "staging" {
		t.Errorf("env = %s, want staging", cfg.Env())
	}
}

func TestLoadInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "config.toml", `
[server]
port = 70000
`)

	if _, err := config.Load(); err == nil {
		t.Error("load succeeded with invalid port, want error")
	}
}
