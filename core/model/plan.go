package model

// Plan is the solution artifact of one planning run.
type Plan struct {
	RunID    string    `json:"run_id"`
	DayType  string    `json:"day_type"`
	Params   RunParams `json:"params"`
	NumSteps int       `json:"num_steps"`
	// StartMinute is the minute of day mapped to time-grid index 0.
	StartMinute int `json:"start_minute"`

	Stations []StationReport `json:"stations"`
	Vehicles []VehiclePlan   `json:"vehicles"`

	Diagnostics SolveDiagnostics `json:"diagnostics"`
}

// TotalInstallCost sums the installation cost over all stations.
func (p *Plan) TotalInstallCost() float64 {
	var c float64
	for _, s := range p.Stations {
		c += s.CostEUR
	}
	return c
}

// TotalInstalled sums the installed charging points over all stations.
func (p *Plan) TotalInstalled() int {
	var n int
	for _, s := range p.Stations {
		n += s.Installed
	}
	return n
}

// StationReport summarizes installation and utilization at one station.
type StationReport struct {
	Station   string  `json:"station"`
	Installed int     `json:"installed"`
	CostEUR   float64 `json:"cost_eur"`
	// PeakConcurrency is the maximum number of simultaneously connected
	// vehicles over the horizon. AvgUtilization is connected vehicles
	// divided by installed points, averaged over all minutes; zero when
	// nothing is installed.
	PeakConcurrency int     `json:"peak_concurrency"`
	AvgUtilization  float64 `json:"avg_utilization"`
}

// VehiclePlan carries the minute-indexed charging plan of one vehicle.
// PowerKW has NumSteps entries, SoCKWh has NumSteps+1 entries with the
// initial state at index 0.
type VehiclePlan struct {
	VehicleID string    `json:"vehicle_id"`
	PowerKW   []float64 `json:"power_kw"`
	SoCKWh    []float64 `json:"soc_kwh"`
	Sessions  []Session `json:"sessions"`
}

// Session is a maximal contiguous interval during which a vehicle is
// connected to a charging point. End is exclusive.
type Session struct {
	Start     int     `json:"start"`
	End       int     `json:"end"`
	Station   string  `json:"station"`
	EnergyKWh float64 `json:"energy_kwh"`
}

// Minutes returns the session duration.
func (s Session) Minutes() int { return s.End - s.Start }

// SolveDiagnostics echoes how the solver terminated and how the
// objective decomposes into its additive terms.
type SolveDiagnostics struct {
	Status         string  `json:"status"`
	Objective      float64 `json:"objective"`
	InstallCost    float64 `json:"install_cost"`
	SessionPenalty float64 `json:"session_penalty"`
	EarlyPenalty   float64 `json:"early_penalty"`
	SolveSeconds   float64 `json:"solve_seconds"`
	Columns        int     `json:"columns"`
	Rows           int     `json:"rows"`
}
