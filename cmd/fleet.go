package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chargeplan/chargeplan/config"
	"github.com/chargeplan/chargeplan/core/plan"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Show the assembled fleet and horizon without solving",
	RunE:  showFleet,
}

func init() {
	fleetCmd.Flags().StringVarP(&tripsPath, "trips", "t", "trips.json", "trip records file")
	rootCmd.AddCommand(fleetCmd)
}

func showFleet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	trips, err := plan.LoadTrips(tripsPath)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(trips))
	for id := range trips {
		ids = append(ids, id)
	}
	fleet, err := cfg.Fleet.Resolve(ids)
	if err != nil {
		return err
	}
	asm, err := plan.Assemble(fleet, trips)
	if err != nil {
		return err
	}

	fmt.Printf("horizon: %d minutes starting at minute %d\n", asm.NumSteps, asm.StartMinute)
	for v, veh := range asm.Vehicles {
		fmt.Printf("%s: %d trips, %d dwells, %.1f kWh demand (battery %.0f kWh, %.0f kW)\n",
			veh.ID, len(trips[veh.ID]), len(asm.Dwells[v]), asm.TotalEnergyKWh(v),
			veh.BatteryKWh, veh.MaxPowerKW)
	}
	return nil
}
