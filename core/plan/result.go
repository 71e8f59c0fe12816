package plan

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chargeplan/chargeplan/core/model"
	"github.com/chargeplan/chargeplan/core/solver"
)

// extract turns the raw column values of a feasible solution into the
// Plan artifact. It assumes the solution satisfies the model and does
// not re-validate constraints; a shape mismatch between model and
// solution is a contract violation and fails loudly.
func (b *builtModel) extract(sol *solver.Solution) (*model.Plan, error) {
	if len(sol.Values) != len(b.m.Vars) {
		return nil, &PostProcessingError{Msg: fmt.Sprintf("solution has %d values for %d columns", len(sol.Values), len(b.m.Vars))}
	}
	val := func(col int) float64 {
		if col < 0 {
			return 0
		}
		return sol.Values[col]
	}
	on := func(col int) bool { return val(col) >= 0.5 }

	plan := &model.Plan{
		DayType:     b.params.DayType,
		Params:      b.params,
		NumSteps:    b.asm.NumSteps,
		StartMinute: b.asm.StartMinute,
	}

	// Installed points per station: binaries are rounded at 0.5 and
	// counted contiguously from slot 0; the ordering rows guarantee no
	// gaps, so the first uninstalled slot ends the count.
	installed := make(map[string]int)
	cost := make(map[string]float64)
	for _, sc := range b.arena {
		if sc.Slot != installed[sc.Station] || !on(b.install[sc.Station][sc.Slot]) {
			continue
		}
		installed[sc.Station]++
		cost[sc.Station] += sc.CostEUR
	}

	// Per-vehicle series and sessions.
	connected := make(map[string][]int) // station -> per-minute connection count
	for v, veh := range b.asm.Vehicles {
		vp := model.VehiclePlan{
			VehicleID: veh.ID,
			PowerKW:   make([]float64, b.asm.NumSteps),
			SoCKWh:    make([]float64, b.asm.NumSteps+1),
		}
		for t := 0; t < b.asm.NumSteps; t++ {
			vp.PowerKW[t] = val(b.pow[v][t])
		}
		for t := 0; t <= b.asm.NumSteps; t++ {
			vp.SoCKWh[t] = val(b.soc[v][t])
		}
		vp.Sessions = b.scanSessions(v, vp.PowerKW, on)
		for t := 0; t < b.asm.NumSteps; t++ {
			if on(b.conn[v][t]) {
				st := b.asm.StationAt[v][t]
				if connected[st] == nil {
					connected[st] = make([]int, b.asm.NumSteps)
				}
				connected[st][t]++
			}
		}
		plan.Vehicles = append(plan.Vehicles, vp)
	}

	// Station reports cover every station with an install menu or any
	// presence, in lexicographic order.
	names := make(map[string]bool)
	for _, sc := range b.arena {
		names[sc.Station] = true
	}
	for st := range connected {
		names[st] = true
	}
	stations := make([]string, 0, len(names))
	for st := range names {
		stations = append(stations, st)
	}
	sort.Strings(stations)
	for _, st := range stations {
		rep := model.StationReport{
			Station:   st,
			Installed: installed[st],
			CostEUR:   cost[st],
		}
		if counts := connected[st]; counts != nil {
			util := make([]float64, len(counts))
			for t, n := range counts {
				if n > rep.PeakConcurrency {
					rep.PeakConcurrency = n
				}
				if rep.Installed > 0 {
					util[t] = float64(n) / float64(rep.Installed)
				}
			}
			if rep.Installed > 0 {
				rep.AvgUtilization = stat.Mean(util, nil)
			}
		}
		plan.Stations = append(plan.Stations, rep)
	}

	plan.Diagnostics = b.diagnostics(sol, val)
	return plan, nil
}

// scanSessions walks one vehicle's Connect series and records each
// maximal connected run with its dwell station and delivered energy.
// The series boundaries act as implicit disconnected edges.
func (b *builtModel) scanSessions(v int, power []float64, on func(int) bool) []model.Session {
	var sessions []model.Session
	begin := -1
	for t := 0; t <= b.asm.NumSteps; t++ {
		nowOn := t < b.asm.NumSteps && on(b.conn[v][t])
		switch {
		case nowOn && begin < 0:
			begin = t
		case !nowOn && begin >= 0:
			sessions = append(sessions, model.Session{
				Start:     begin,
				End:       t,
				Station:   b.asm.StationAt[v][begin],
				EnergyKWh: floats.Sum(power[begin:t]) * stepHours,
			})
			begin = -1
		}
	}
	return sessions
}

// diagnostics decomposes the objective into its additive terms using the
// same coefficients the builder attached.
func (b *builtModel) diagnostics(sol *solver.Solution, val func(int) float64) model.SolveDiagnostics {
	d := model.SolveDiagnostics{
		Status:    sol.Status.String(),
		Objective: sol.Objective,
		Columns:   len(b.m.Vars),
		Rows:      len(b.m.Rows),
	}
	for _, sc := range b.arena {
		d.InstallCost += sc.CostEUR * val(b.install[sc.Station][sc.Slot])
	}
	for v := range b.asm.Vehicles {
		for t := 0; t < b.asm.NumSteps; t++ {
			d.SessionPenalty += b.params.SessionWeight * val(b.start[v][t])
			d.EarlyPenalty += b.earlyCoeff(t) * val(b.conn[v][t])
		}
	}
	return d
}
