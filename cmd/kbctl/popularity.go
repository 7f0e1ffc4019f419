package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/caravel-labs/caravel/internal/analytics"
	"github.com/caravel-labs/caravel/internal/config"
	"github.com/caravel-labs/caravel/internal/usagelog"
)

var popularityCmd = &cobra.Command{
	Use:   "popularity",
	Short: "Aggregate the usage log into a ranked popularity report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger()

		events, err := usagelog.Read(cfg.UsageLog.Path, logger)
		if err != nil {
			return err
		}

		report := analytics.BuildPopularity(events, time.Now().UTC())
		if err := analytics.WriteReport(cfg.Builder.PopularityPath, report); err != nil {
			return err
		}

		fmt.Printf("popularity report: %d events, %d categories -> %s\n",
			report.TotalEvents, len(report.Items), cfg.Builder.PopularityPath)
		return nil
	},
}
