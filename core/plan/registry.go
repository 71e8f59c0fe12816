package plan

import (
	"fmt"
	"math"
	"sort"
)

// SlotCost is one installable charging point at a station: slot Slot may
// only be installed once all slots below it are. Menus are ragged, so
// the registry stores a sparse arena of these triples instead of a dense
// station-by-slot matrix.
type SlotCost struct {
	Station string
	Slot    int
	CostEUR float64
}

// Registry holds the per-station menus of installable charging points.
// A station with an empty menu (or one never registered) has hard-zero
// installable capacity. The registry is scoped to one run's lifetime and
// is passed by reference, never captured in closures.
type Registry struct {
	menus map[string][]float64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{menus: make(map[string][]float64)}
}

// Register sets the ordered incremental cost menu for a station. Costs
// are in order of adoption: index 0 is the first point installed there.
// Re-registering a station replaces its menu.
func (r *Registry) Register(station string, costs []float64) error {
	if station == "" {
		return inputErrorf("station id must not be empty")
	}
	for k, c := range costs {
		if c < 0 || math.IsNaN(c) {
			return inputErrorf("station %s slot %d: invalid cost %v", station, k, c)
		}
	}
	r.menus[station] = append([]float64(nil), costs...)
	return nil
}

// NumSlots returns how many charging points may be installed at station.
func (r *Registry) NumSlots(station string) int {
	return len(r.menus[station])
}

// Cost returns the incremental cost of slot k at station.
func (r *Registry) Cost(station string, k int) (float64, error) {
	menu, ok := r.menus[station]
	if !ok || k < 0 || k >= len(menu) {
		return 0, fmt.Errorf("station %s has no slot %d", station, k)
	}
	return menu[k], nil
}

// Arena returns the sparse (station, slot, cost) triples in a stable
// order: stations sorted lexicographically, slots ascending.
func (r *Registry) Arena() []SlotCost {
	stations := make([]string, 0, len(r.menus))
	for s := range r.menus {
		stations = append(stations, s)
	}
	sort.Strings(stations)
	var arena []SlotCost
	for _, s := range stations {
		for k, c := range r.menus[s] {
			arena = append(arena, SlotCost{Station: s, Slot: k, CostEUR: c})
		}
	}
	return arena
}
