package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/chargeplan/chargeplan/core/model"
)

func samplePlan() *model.Plan {
	return &model.Plan{
		RunID:       "run-1",
		DayType:     "weekday",
		NumSteps:    2,
		StartMinute: 300,
		Stations: []model.StationReport{
			{Station: "Depot", Installed: 1, CostEUR: 10, PeakConcurrency: 1, AvgUtilization: 0.5},
		},
		Vehicles: []model.VehiclePlan{
			{
				VehicleID: "b1",
				PowerKW:   []float64{0, 60},
				SoCKWh:    []float64{90, 90, 91},
				Sessions:  []model.Session{{Start: 1, End: 2, Station: "Depot", EnergyKWh: 1}},
			},
		},
		Diagnostics: model.SolveDiagnostics{Status: "optimal", Objective: 10, InstallCost: 10},
	}
}

func TestWriterFor(t *testing.T) {
	for _, format := range []string{"json", "series-csv", "stations-csv"} {
		write, err := WriterFor(format)
		if err != nil || write == nil {
			t.Fatalf("%s: expected a writer, got %v", format, err)
		}
		var buf bytes.Buffer
		if err := write(&buf, samplePlan()); err != nil {
			t.Fatalf("%s: write: %v", format, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("%s: empty output", format)
		}
	}
	if _, err := WriterFor("xml"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, samplePlan()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got model.Plan
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RunID != "run-1" || got.Stations[0].Installed != 1 {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}

func TestWriteSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSeriesCSV(&buf, samplePlan()); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(lines))
	}
	if lines[0] != "vehicle_id,minute,power_kw,soc_kwh" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	// Minutes are reported in absolute minute-of-day.
	if lines[2] != "b1,301,60,90" {
		t.Fatalf("unexpected row: %s", lines[2])
	}
}

func TestWriteStationsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStationsCSV(&buf, samplePlan()); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(lines))
	}
	if lines[1] != "Depot,1,10,1,0.5" {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}
