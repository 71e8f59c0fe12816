package plan

import (
	"github.com/chargeplan/chargeplan/core/model"
)

// stepHours is the energy-integration factor of one time-grid step.
const stepHours = 1.0 / 60.0

// Dwell is a contiguous interval during which a vehicle stands at a
// station between two trips. Start and End are time-grid indices, End
// exclusive.
type Dwell struct {
	Start   int
	End     int
	Station string
}

// Assembly is the discretized view of one day's schedules that the model
// builder consumes: a minute grid spanning the global trip time range, a
// per-vehicle presence mask, the station each present vehicle dwells at,
// and instantaneous discharge events at trip arrivals.
type Assembly struct {
	NumSteps    int
	StartMinute int
	Vehicles    []model.Vehicle

	// Presence, StationAt and Discharge are indexed [vehicle][step],
	// following the order of Vehicles. StationAt is "" where a vehicle
	// is driving.
	Presence  [][]bool
	StationAt [][]string
	Discharge [][]float64

	// Dwells lists each vehicle's presence intervals in chronological
	// order; it carries the same information as Presence/StationAt in
	// the block form the model builder works with.
	Dwells [][]Dwell
}

// TotalEnergyKWh returns the energy demand of one vehicle over the day.
func (a *Assembly) TotalEnergyKWh(v int) float64 {
	var e float64
	for _, d := range a.Discharge[v] {
		e += d
	}
	return e
}

// Assemble validates the per-vehicle trip lists and discretizes them
// onto a minute grid. Trips must be chronologically sorted with
// non-overlapping intervals; violations are rejected as input errors
// rather than silently reordered. A vehicle with fewer than two trips
// contributes discharge but never gains presence, which is a valid
// degenerate case.
func Assemble(vehicles []model.Vehicle, trips map[string][]model.Trip) (*Assembly, error) {
	if len(vehicles) == 0 {
		return nil, inputErrorf("no vehicles in scope")
	}
	index := make(map[string]int, len(vehicles))
	for i, v := range vehicles {
		if err := v.Validate(); err != nil {
			return nil, &InputError{Msg: err.Error()}
		}
		if _, dup := index[v.ID]; dup {
			return nil, inputErrorf("duplicate vehicle id %s", v.ID)
		}
		index[v.ID] = i
	}
	for id := range trips {
		if _, ok := index[id]; !ok {
			return nil, inputErrorf("trips reference unknown vehicle %s", id)
		}
	}

	// Horizon bounds over every in-scope trip.
	first, last, any := 0, 0, false
	for _, vts := range trips {
		for i, t := range vts {
			if err := t.Validate(); err != nil {
				return nil, &InputError{Msg: err.Error()}
			}
			if i > 0 && t.Departure < vts[i-1].Arrival {
				return nil, inputErrorf("vehicle %s: trip departing %d overlaps previous arrival %d", t.VehicleID, t.Departure, vts[i-1].Arrival)
			}
			if !any || t.Departure < first {
				first = t.Departure
			}
			if !any || t.Arrival > last {
				last = t.Arrival
			}
			any = true
		}
	}
	if !any {
		return nil, inputErrorf("no trips in scope")
	}

	a := &Assembly{
		NumSteps:    last - first + 1,
		StartMinute: first,
		Vehicles:    vehicles,
		Presence:    make([][]bool, len(vehicles)),
		StationAt:   make([][]string, len(vehicles)),
		Discharge:   make([][]float64, len(vehicles)),
		Dwells:      make([][]Dwell, len(vehicles)),
	}
	for v := range vehicles {
		a.Presence[v] = make([]bool, a.NumSteps)
		a.StationAt[v] = make([]string, a.NumSteps)
		a.Discharge[v] = make([]float64, a.NumSteps)
	}

	for id, vts := range trips {
		v := index[id]
		for _, t := range vts {
			if t.VehicleID != id {
				return nil, inputErrorf("trip of %s listed under vehicle %s", t.VehicleID, id)
			}
		}
		for i, t := range vts {
			a.Discharge[v][t.Arrival-first] += t.EnergyKWh
			if i+1 >= len(vts) {
				continue
			}
			// Zero-length gaps produce no presence.
			start, end := t.Arrival-first, vts[i+1].Departure-first
			if end <= start {
				continue
			}
			a.Dwells[v] = append(a.Dwells[v], Dwell{Start: start, End: end, Station: t.Destination})
			for s := start; s < end; s++ {
				a.Presence[v][s] = true
				a.StationAt[v][s] = t.Destination
			}
		}
	}
	return a, nil
}
