package model

import (
	"fmt"
	"math"
)

// Vehicle describes one electric bus taking part in a planning run.
// The battery spec comes from the fleet configuration's vehicle-type
// mapping and is immutable for the duration of a run.
type Vehicle struct {
	ID         string
	BatteryKWh float64 // total battery capacity in kWh
	MaxPowerKW float64 // max charging power in kW
}

// Validate checks that the vehicle configuration is sound.
func (v Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vehicle id must not be empty")
	}
	if v.BatteryKWh <= 0 || math.IsNaN(v.BatteryKWh) {
		return fmt.Errorf("vehicle %s: battery capacity must be positive", v.ID)
	}
	if v.MaxPowerKW <= 0 || math.IsNaN(v.MaxPowerKW) {
		return fmt.Errorf("vehicle %s: max charging power must be positive", v.ID)
	}
	return nil
}

// Trip is one scheduled service leg of a vehicle. Times are minutes of
// the operating day and may exceed 1440 for post-midnight service; they
// are never wrapped. EnergyKWh is supplied by the upstream consumption
// estimator and is subtracted from the battery at the arrival minute.
type Trip struct {
	VehicleID   string
	Departure   int
	Arrival     int
	Origin      string
	Destination string
	EnergyKWh   float64
}

// Validate rejects trips the optimizer cannot reason about.
func (t Trip) Validate() error {
	if t.Arrival < t.Departure {
		return fmt.Errorf("trip of %s departing %d: arrival %d before departure", t.VehicleID, t.Departure, t.Arrival)
	}
	if t.EnergyKWh < 0 || math.IsNaN(t.EnergyKWh) {
		return fmt.Errorf("trip of %s departing %d: invalid energy %v", t.VehicleID, t.Departure, t.EnergyKWh)
	}
	if t.Destination == "" {
		return fmt.Errorf("trip of %s departing %d: missing destination station", t.VehicleID, t.Departure)
	}
	return nil
}
