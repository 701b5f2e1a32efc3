package cmd

import (
	"fmt"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"github.com/kilianp07/farecast/config"
	"github.com/kilianp07/farecast/core/model"
	"github.com/kilianp07/farecast/core/predict"
	"github.com/kilianp07/farecast/core/registry"
	"github.com/kilianp07/farecast/infra/logger"
)

var batchFile string

// tripRow is one CSV line of a batch file. The header must carry the same
// field names as the JSON API.
type tripRow struct {
	PickupLatitude   float64 `csv:"pickup_latitude"`
	PickupLongitude  float64 `csv:"pickup_longitude"`
	DropoffLatitude  float64 `csv:"dropoff_latitude"`
	DropoffLongitude float64 `csv:"dropoff_longitude"`
	PickupDatetime   string  `csv:"pickup_datetime"`
	Model            string  `csv:"model,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Estimate fares for a CSV file of trips",
	RunE:  batchPredict,
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "CSV file of trips")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

func batchPredict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	raw, err := os.ReadFile(batchFile)
	if err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}
	var rows []tripRow
	if err := csvutil.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("decode batch file: %w", err)
	}

	items := make([]model.TripRequest, len(rows))
	for i := range rows {
		r := &rows[i]
		items[i] = model.TripRequest{
			PickupLatitude:   &r.PickupLatitude,
			PickupLongitude:  &r.PickupLongitude,
			DropoffLatitude:  &r.DropoffLatitude,
			DropoffLongitude: &r.DropoffLongitude,
			PickupDatetime:   &r.PickupDatetime,
			Model:            r.Model,
		}
	}

	svc := predict.New(registry.New(cfg.Models.Dir), cfg.Models.Default, logger.New("predict"))
	results, err := svc.BatchPredict(items)
	if err != nil {
		return err
	}
	for i, res := range results {
		if res.Err != nil {
			fmt.Printf("%d\terror\t%v\n", i, res.Err)
			continue
		}
		fmt.Printf("%d\t%.2f\t%s\n", i, res.Result.Prediction, res.Result.ModelUsed)
	}
	return nil
}
