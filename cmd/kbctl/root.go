// kbctl maintains the category knowledge store: it builds new categories
// through the research pipeline, regenerates analytics reports, and
// reinforces the most-requested categories.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/caravel-labs/caravel/internal/builder"
	"github.com/caravel-labs/caravel/internal/config"
	"github.com/caravel-labs/caravel/pkg/llm"
)

var rootCmd = &cobra.Command{
	Use:           "kbctl",
	Short:         "Manage the Caravel category knowledge store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(
		buildCmd,
		bulkCmd,
		reinforceCmd,
		popularityCmd,
		patternsCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// newBuilder assembles the pipeline from the application configuration.
func newBuilder(cfg *config.Config, logger *slog.Logger) (*builder.Builder, error) {
	client, err := llm.New(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm client init failed: %w", err)
	}

	return builder.New(
		client,
		cfg.Knowledge.CompliancePath,
		cfg.Knowledge.VettingPath,
		cfg.Knowledge.RepoDir,
		logger,
	), nil
}

func bulkOptions(cfg *config.Config) builder.BulkOptions {
	return builder.BulkOptions{
		Concurrency: cfg.Builder.Concurrency,
		TaskDelay:   cfg.Builder.TaskDelayDuration(),
		MaxRetries:  cfg.Builder.MaxRetries,
		RetryDelay:  cfg.Builder.RetryDelayDuration(),
		CommitEvery: cfg.Builder.CommitEvery,
		FailedPath:  cfg.Builder.FailedFile,
	}
}
