package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caravel-labs/caravel/internal/config"
)

var buildCmd = &cobra.Command{
	Use:   "build <category description>",
	Short: "Research and merge a single category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		b, err := newBuilder(cfg, newLogger())
		if err != nil {
			return err
		}

		result, err := b.Build(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Printf("built %s: %d regulations, %d HTS codes\n",
			result.CategoryID,
			len(result.Rule.RequiredRegulations),
			len(result.Rule.TypicalHTSCodes))
		return nil
	},
}
