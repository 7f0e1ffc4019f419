package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/caravel-labs/caravel/internal/builder"
	"github.com/caravel-labs/caravel/internal/config"
)

var bulkInputFile string

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Build every category listed in the input file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		path := bulkInputFile
		if path == "" {
			path = cfg.Builder.InputFile
		}

		descriptions, err := builder.ReadInputFile(path)
		if err != nil {
			return err
		}
		if len(descriptions) == 0 {
			return fmt.Errorf("no categories found in %s", path)
		}

		b, err := newBuilder(cfg, newLogger())
		if err != nil {
			return err
		}

		summary, err := b.RunBulk(cmd.Context(), descriptions, bulkOptions(cfg))
		if err != nil {
			return err
		}

		fmt.Printf("bulk complete: %d built, %d failed in %s\n",
			len(summary.Built), len(summary.Failed), summary.Duration.Round(time.Second))
		if len(summary.Failed) > 0 {
			fmt.Printf("failed categories recorded in %s\n", cfg.Builder.FailedFile)
		}
		return nil
	},
}

func init() {
	bulkCmd.Flags().StringVarP(&bulkInputFile, "file", "f", "", "input file (one category description per line)")
}
