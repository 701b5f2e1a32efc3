package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/farecast/config"
	"github.com/kilianp07/farecast/core/registry"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show model artifact availability and metrics",
	RunE:  listModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func listModels(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	reg := registry.New(cfg.Models.Dir)
	for _, d := range reg.DescribeAll() {
		mark := "✗"
		if d.Available {
			mark = "✓"
		}
		fmt.Printf("%s %-18s %s (RMSE %s, R² %s)\n",
			mark, d.Identifier, d.File, d.Metrics.RMSE, d.Metrics.R2)
	}
	return nil
}
