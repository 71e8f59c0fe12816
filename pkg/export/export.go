// Package export writes plan artifacts in exchange formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/chargeplan/chargeplan/core/model"
)

// WriterFor resolves a format name to its writer, so callers can reject
// an unknown format before producing the plan.
func WriterFor(format string) (func(io.Writer, *model.Plan) error, error) {
	switch format {
	case "json":
		return WriteJSON, nil
	case "series-csv":
		return WriteSeriesCSV, nil
	case "stations-csv":
		return WriteStationsCSV, nil
	default:
		return nil, fmt.Errorf("unknown output format %s", format)
	}
}

// WriteJSON writes the full plan to w in indented JSON.
func WriteJSON(w io.Writer, p *model.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// WriteSeriesCSV writes the per-minute power and SOC series, one row per
// vehicle and minute.
func WriteSeriesCSV(w io.Writer, p *model.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle_id", "minute", "power_kw", "soc_kwh"}); err != nil {
		return err
	}
	for _, vp := range p.Vehicles {
		for t, pow := range vp.PowerKW {
			rec := []string{
				vp.VehicleID,
				strconv.Itoa(p.StartMinute + t),
				strconv.FormatFloat(pow, 'f', -1, 64),
				strconv.FormatFloat(vp.SoCKWh[t], 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStationsCSV writes the installation and utilization summary, one
// row per station.
func WriteStationsCSV(w io.Writer, p *model.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"station", "installed", "cost_eur", "peak_concurrency", "avg_utilization"}); err != nil {
		return err
	}
	for _, st := range p.Stations {
		rec := []string{
			st.Station,
			strconv.Itoa(st.Installed),
			strconv.FormatFloat(st.CostEUR, 'f', -1, 64),
			strconv.Itoa(st.PeakConcurrency),
			strconv.FormatFloat(st.AvgUtilization, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
