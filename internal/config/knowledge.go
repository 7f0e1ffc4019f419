package config

import (
	"fmt"
	"os"
)

const (
	EnvKnowledgeCompliancePath = "CARAVEL_KNOWLEDGE_COMPLIANCE_PATH"
	EnvKnowledgeVettingPath    = "CARAVEL_KNOWLEDGE_VETTING_PATH"
	EnvKnowledgeRepoDir        = "CARAVEL_KNOWLEDGE_REPO_DIR"
)

// KnowledgeConfig locates the two knowledge store documents and the
// version-control working tree the builder commits into.
type KnowledgeConfig struct {
	CompliancePath string `toml:"compliance_path"`
	VettingPath    string `toml:"vetting_path"`
	RepoDir        string `toml:"repo_dir"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *KnowledgeConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *KnowledgeConfig) Merge(overlay *KnowledgeConfig) {
	if overlay.CompliancePath != "" {
		c.CompliancePath = overlay.CompliancePath
	}
	if overlay.VettingPath != "" {
		c.VettingPath = overlay.VettingPath
	}
	if overlay.RepoDir != "" {
		c.RepoDir = overlay.RepoDir
	}
}

func (c *KnowledgeConfig) loadDefaults() {
	if c.CompliancePath == "" {
		c.CompliancePath = "knowledge/category_compliance.json"
	}
	if c.VettingPath == "" {
		c.VettingPath = "knowledge/factory_vetting.json"
	}
	if c.RepoDir == "" {
		c.RepoDir = "."
	}
}

func (c *KnowledgeConfig) loadEnv() {
	if v := os.Getenv(EnvKnowledgeCompliancePath); v != "" {
		c.CompliancePath = v
	}
	if v := os.Getenv(EnvKnowledgeVettingPath); v != "" {
		c.VettingPath = v
	}
	if v := os.Getenv(EnvKnowledgeRepoDir); v != "" {
		c.RepoDir = v
	}
}

func (c *KnowledgeConfig) validate() error {
	if c.CompliancePath == c.VettingPath {
		return fmt.Errorf("compliance_path and vetting_path must differ")
	}
	return nil
}
