package plan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trips.json")
	data := `[
		{"vehicle_id":"b1","departure_time":300,"arrival_time":360,"origin_station":"Depot","destination_station":"Terminus","energy_kwh":18.5},
		{"vehicle_id":"b2","departure_time":310,"arrival_time":380,"origin_station":"Depot","destination_station":"Airport","energy_kwh":22},
		{"vehicle_id":"b1","departure_time":400,"arrival_time":460,"origin_station":"Terminus","destination_station":"Depot","energy_kwh":19}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	trips, err := LoadTrips(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(trips))
	}
	b1 := trips["b1"]
	if len(b1) != 2 || b1[0].Departure != 300 || b1[1].Departure != 400 {
		t.Fatalf("record order must be preserved: %+v", b1)
	}
	if b1[0].EnergyKWh != 18.5 || b1[0].Destination != "Terminus" {
		t.Fatalf("unexpected mapping: %+v", b1[0])
	}
}

func TestLoadTripsEmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTrips(path); err == nil {
		t.Fatal("expected error for empty trips file")
	}
	if _, err := LoadTrips(filepath.Join(dir, "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
