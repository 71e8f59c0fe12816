package plan

import (
	"errors"
	"testing"

	"github.com/chargeplan/chargeplan/core/model"
)

func testVehicle(id string) model.Vehicle {
	return model.Vehicle{ID: id, BatteryKWh: 100, MaxPowerKW: 150}
}

func TestAssembleBasic(t *testing.T) {
	trips := map[string][]model.Trip{
		"b1": {
			{VehicleID: "b1", Departure: 300, Arrival: 360, Destination: "Depot", EnergyKWh: 20},
			{VehicleID: "b1", Departure: 420, Arrival: 480, Destination: "Terminus", EnergyKWh: 25},
		},
	}
	asm, err := Assemble([]model.Vehicle{testVehicle("b1")}, trips)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asm.StartMinute != 300 || asm.NumSteps != 181 {
		t.Fatalf("unexpected grid: start %d steps %d", asm.StartMinute, asm.NumSteps)
	}
	// Dwell covers [360,420) in absolute minutes, [60,120) on the grid.
	for tt := 0; tt < asm.NumSteps; tt++ {
		want := tt >= 60 && tt < 120
		if asm.Presence[0][tt] != want {
			t.Fatalf("presence at %d: got %v want %v", tt, asm.Presence[0][tt], want)
		}
	}
	if asm.StationAt[0][60] != "Depot" || asm.StationAt[0][0] != "" {
		t.Fatalf("unexpected station mapping")
	}
	if asm.Discharge[0][60] != 20 || asm.Discharge[0][180] != 25 {
		t.Fatalf("unexpected discharge events: %v %v", asm.Discharge[0][60], asm.Discharge[0][180])
	}
	if len(asm.Dwells[0]) != 1 || asm.Dwells[0][0] != (Dwell{Start: 60, End: 120, Station: "Depot"}) {
		t.Fatalf("unexpected dwells: %+v", asm.Dwells[0])
	}
}

func TestAssembleZeroGapNoPresence(t *testing.T) {
	trips := map[string][]model.Trip{
		"b1": {
			{VehicleID: "b1", Departure: 0, Arrival: 60, Destination: "A", EnergyKWh: 10},
			{VehicleID: "b1", Departure: 60, Arrival: 120, Destination: "B", EnergyKWh: 10},
		},
	}
	asm, err := Assemble([]model.Vehicle{testVehicle("b1")}, trips)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for tt := 0; tt < asm.NumSteps; tt++ {
		if asm.Presence[0][tt] {
			t.Fatalf("zero-length gap must not produce presence (minute %d)", tt)
		}
	}
}

func TestAssembleSingleTripVehicle(t *testing.T) {
	// Fewer than two trips: discharge happens but presence never does.
	trips := map[string][]model.Trip{
		"b1": {{VehicleID: "b1", Departure: 10, Arrival: 70, Destination: "A", EnergyKWh: 30}},
	}
	asm, err := Assemble([]model.Vehicle{testVehicle("b1")}, trips)
	if err != nil {
		t.Fatalf("single-trip vehicle is a valid degenerate case: %v", err)
	}
	if asm.TotalEnergyKWh(0) != 30 {
		t.Fatalf("expected discharge 30, got %v", asm.TotalEnergyKWh(0))
	}
	if len(asm.Dwells[0]) != 0 {
		t.Fatalf("expected no dwells, got %+v", asm.Dwells[0])
	}
}

func TestAssembleRejectsBadInput(t *testing.T) {
	cases := map[string]map[string][]model.Trip{
		"arrival before departure": {
			"b1": {{VehicleID: "b1", Departure: 100, Arrival: 50, Destination: "A", EnergyKWh: 1}},
		},
		"unsorted trips": {
			"b1": {
				{VehicleID: "b1", Departure: 200, Arrival: 260, Destination: "A", EnergyKWh: 1},
				{VehicleID: "b1", Departure: 100, Arrival: 160, Destination: "B", EnergyKWh: 1},
			},
		},
		"negative energy": {
			"b1": {{VehicleID: "b1", Departure: 0, Arrival: 60, Destination: "A", EnergyKWh: -1}},
		},
		"unknown vehicle": {
			"ghost": {{VehicleID: "ghost", Departure: 0, Arrival: 60, Destination: "A", EnergyKWh: 1}},
		},
	}
	for name, trips := range cases {
		_, err := Assemble([]model.Vehicle{testVehicle("b1")}, trips)
		var ie *InputError
		if !errors.As(err, &ie) {
			t.Fatalf("%s: expected InputError, got %v", name, err)
		}
	}
}

func TestAssembleNoTrips(t *testing.T) {
	_, err := Assemble([]model.Vehicle{testVehicle("b1")}, map[string][]model.Trip{})
	var ie *InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InputError for empty schedule, got %v", err)
	}
}
