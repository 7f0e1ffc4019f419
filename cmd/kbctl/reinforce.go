package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/caravel-labs/caravel/internal/analytics"
	"github.com/caravel-labs/caravel/internal/config"
)

var reinforceCmd = &cobra.Command{
	Use:   "reinforce [top-n]",
	Short: "Re-run the research pipeline for the most requested categories",
	Long: `Selects the top N categories from the popularity report and rebuilds
each through the research pipeline, refreshing their knowledge records
with current compliance data.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		topN := cfg.Builder.TopDefault
		if len(args) == 1 {
			topN, err = strconv.Atoi(args[0])
			if err != nil || topN < 1 {
				return fmt.Errorf("invalid top-n value: %s", args[0])
			}
		}

		report, err := analytics.ReadPopularity(cfg.Builder.PopularityPath)
		if err != nil {
			return err
		}
		if len(report.Items) == 0 {
			return fmt.Errorf("popularity report %s is empty; run kbctl popularity first",
				cfg.Builder.PopularityPath)
		}

		if topN > len(report.Items) {
			topN = len(report.Items)
		}

		descriptions := make([]string, 0, topN)
		for _, item := range report.Items[:topN] {
			descriptions = append(descriptions, strings.ReplaceAll(item.Key, "_", " "))
		}

		b, err := newBuilder(cfg, newLogger())
		if err != nil {
			return err
		}

		summary, err := b.RunBulk(cmd.Context(), descriptions, bulkOptions(cfg))
		if err != nil {
			return err
		}

		fmt.Printf("reinforced %d of %d categories (%d failed) in %s\n",
			len(summary.Built), topN, len(summary.Failed),
			summary.Duration.Round(time.Second))
		return nil
	},
}
