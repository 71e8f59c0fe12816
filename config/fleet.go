package config

import (
	"fmt"
	"sort"

	"github.com/chargeplan/chargeplan/core/model"
)

// VehicleTypeConfig is one bus type's battery spec.
type VehicleTypeConfig struct {
	CapacityKWh float64 `json:"capacity_kwh"`
	MaxPowerKW  float64 `json:"max_power_kw"`
}

// FleetConfig maps vehicles to battery specs via a vehicle-type lookup.
type FleetConfig struct {
	Types map[string]VehicleTypeConfig `json:"types"`
	// Assignments maps vehicle id -> type name.
	Assignments map[string]string `json:"assignments"`
}

// Validate checks the type table and the assignment references.
func (c FleetConfig) Validate() error {
	for name, t := range c.Types {
		if t.CapacityKWh <= 0 {
			return fmt.Errorf("vehicle type %s: capacity must be positive", name)
		}
		if t.MaxPowerKW <= 0 {
			return fmt.Errorf("vehicle type %s: max power must be positive", name)
		}
	}
	for id, typ := range c.Assignments {
		if _, ok := c.Types[typ]; !ok {
			return fmt.Errorf("vehicle %s assigned to unknown type %s", id, typ)
		}
	}
	return nil
}

// Resolve builds the vehicle list for the given ids in a stable sorted
// order. Every id must have a type assignment.
func (c FleetConfig) Resolve(ids []string) ([]model.Vehicle, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	vehicles := make([]model.Vehicle, 0, len(sorted))
	for _, id := range sorted {
		typ, ok := c.Assignments[id]
		if !ok {
			return nil, fmt.Errorf("vehicle %s has no type assignment", id)
		}
		spec := c.Types[typ]
		vehicles = append(vehicles, model.Vehicle{
			ID:         id,
			BatteryKWh: spec.CapacityKWh,
			MaxPowerKW: spec.MaxPowerKW,
		})
	}
	return vehicles, nil
}
