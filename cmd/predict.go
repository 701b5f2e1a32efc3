package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/farecast/config"
	"github.com/kilianp07/farecast/core/model"
	"github.com/kilianp07/farecast/core/predict"
	"github.com/kilianp07/farecast/core/registry"
	"github.com/kilianp07/farecast/infra/logger"
)

var predictFlags struct {
	pickupLat  float64
	pickupLon  float64
	dropoffLat float64
	dropoffLon float64
	pickupTime string
	model      string
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate the fare for one trip",
	RunE:  predictOnce,
}

func init() {
	f := predictCmd.Flags()
	f.Float64Var(&predictFlags.pickupLat, "pickup-lat", 0, "pickup latitude")
	f.Float64Var(&predictFlags.pickupLon, "pickup-lon", 0, "pickup longitude")
	f.Float64Var(&predictFlags.dropoffLat, "dropoff-lat", 0, "dropoff latitude")
	f.Float64Var(&predictFlags.dropoffLon, "dropoff-lon", 0, "dropoff longitude")
	f.StringVar(&predictFlags.pickupTime, "time", "", "pickup datetime, e.g. 2024-06-15T08:30:00")
	f.StringVar(&predictFlags.model, "model", "", "model identifier (defaults to the configured model)")
	for _, name := range []string{"pickup-lat", "pickup-lon", "dropoff-lat", "dropoff-lon", "time"} {
		_ = predictCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(predictCmd)
}

func predictOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc := predict.New(registry.New(cfg.Models.Dir), cfg.Models.Default, logger.New("predict"))

	req := model.TripRequest{
		PickupLatitude:   &predictFlags.pickupLat,
		PickupLongitude:  &predictFlags.pickupLon,
		DropoffLatitude:  &predictFlags.dropoffLat,
		DropoffLongitude: &predictFlags.dropoffLon,
		PickupDatetime:   &predictFlags.pickupTime,
		Model:            predictFlags.model,
	}
	res, err := svc.Predict(req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
