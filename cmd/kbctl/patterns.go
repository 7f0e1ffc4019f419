package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/caravel-labs/caravel/internal/analytics"
	"github.com/caravel-labs/caravel/internal/config"
	"github.com/caravel-labs/caravel/internal/knowledge"
)

var patternsMinCategories int

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Extract regulation-combo and HTS-prefix patterns from the knowledge store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger()

		store, err := knowledge.NewStore(
			cfg.Knowledge.CompliancePath,
			cfg.Knowledge.VettingPath,
			logger,
		)
		if err != nil {
			return err
		}

		popularity, err := analytics.ReadPopularity(cfg.Builder.PopularityPath)
		if err != nil {
			logger.Warn("popularity report unavailable, risk averages omitted", "error", err)
		}

		report := analytics.BuildPatterns(
			store.Rules(),
			popularity,
			patternsMinCategories,
			time.Now().UTC(),
		)
		if err := analytics.WriteReport(cfg.Builder.PatternsPath, report); err != nil {
			return err
		}

		fmt.Printf("pattern report: %d regulation combos, %d HTS prefixes -> %s\n",
			len(report.RegulationCombos), len(report.HTSPatterns), cfg.Builder.PatternsPath)
		return nil
	},
}

func init() {
	patternsCmd.Flags().IntVar(&patternsMinCategories, "min-categories", analytics.DefaultMinComboCategories,
		"minimum categories for a regulation combo to be reported")
}
