package plan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chargeplan/chargeplan/core/model"
)

// TripRecord is the handoff format of the upstream schedule provider:
// one record per trip, minute-of-day times (unbounded above 1440 for
// post-midnight service) and the externally estimated energy use.
type TripRecord struct {
	VehicleID   string  `json:"vehicle_id"`
	Departure   int     `json:"departure_time"`
	Arrival     int     `json:"arrival_time"`
	Origin      string  `json:"origin_station"`
	Destination string  `json:"destination_station"`
	EnergyKWh   float64 `json:"energy_kwh"`
}

// GroupTrips converts raw trip records into per-vehicle trip lists,
// preserving record order within each vehicle. Ordering and overlap
// validation happens later in Assemble.
func GroupTrips(records []TripRecord) map[string][]model.Trip {
	trips := make(map[string][]model.Trip)
	for _, r := range records {
		trips[r.VehicleID] = append(trips[r.VehicleID], model.Trip{
			VehicleID:   r.VehicleID,
			Departure:   r.Departure,
			Arrival:     r.Arrival,
			Origin:      r.Origin,
			Destination: r.Destination,
			EnergyKWh:   r.EnergyKWh,
		})
	}
	return trips
}

// LoadTrips reads a JSON array of trip records from path and groups it
// by vehicle.
func LoadTrips(path string) (map[string][]model.Trip, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trips: %w", err)
	}
	var records []TripRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parse trips: %w", err)
	}
	if len(records) == 0 {
		return nil, inputErrorf("trips file %s holds no records", path)
	}
	return GroupTrips(records), nil
}
