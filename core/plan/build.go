package plan

import (
	"fmt"
	"sort"

	"github.com/chargeplan/chargeplan/core/model"
	"github.com/chargeplan/chargeplan/core/solver"
)

// builtModel pairs the solver-neutral MILP with the index maps needed to
// read a solution back. Column index -1 marks a variable that was never
// declared because the vehicle is not present at that minute; such
// variables are structurally zero.
type builtModel struct {
	m      *solver.Model
	asm    *Assembly
	params model.RunParams
	arena  []SlotCost

	conn    [][]int          // [vehicle][step] Connect column
	pow     [][]int          // [vehicle][step] Power column
	start   [][]int          // [vehicle][step] StartSession column
	soc     [][]int          // [vehicle][step 0..NumSteps] SoC column
	install map[string][]int // station -> Install columns, slot order
}

// buildModel declares every decision variable and constraint of the
// placement problem. Columns are generated sparsely: Connect, Power and
// StartSession exist only where the presence mask is set, which encodes
// the Connect-implies-Presence invariant structurally instead of through
// rows.
func buildModel(asm *Assembly, reg *Registry, p model.RunParams) *builtModel {
	b := &builtModel{
		m:       &solver.Model{Name: "charger-placement-" + p.DayType},
		asm:     asm,
		params:  p,
		arena:   reg.Arena(),
		conn:    newIndex(len(asm.Vehicles), asm.NumSteps),
		pow:     newIndex(len(asm.Vehicles), asm.NumSteps),
		start:   newIndex(len(asm.Vehicles), asm.NumSteps),
		soc:     newIndex(len(asm.Vehicles), asm.NumSteps+1),
		install: make(map[string][]int),
	}

	b.addInstallVars()
	b.addVehicleVars()
	b.addCapacityRows()
	b.addSoCRows()
	b.addPowerRows()
	b.addSessionRows()
	if p.LockEntireDwell {
		b.addDwellLockRows()
	}
	return b
}

func newIndex(n, steps int) [][]int {
	idx := make([][]int, n)
	for v := range idx {
		idx[v] = make([]int, steps)
		for t := range idx[v] {
			idx[v][t] = -1
		}
	}
	return idx
}

// addInstallVars declares one binary per arena slot, carrying the slot's
// incremental cost in the objective, plus the adoption-ordering rows
// Install[s,k] <= Install[s,k-1].
func (b *builtModel) addInstallVars() {
	for _, sc := range b.arena {
		col := b.m.AddVar(solver.Var{
			Name:  fmt.Sprintf("Install_%s_%d", sc.Station, sc.Slot),
			Kind:  solver.Binary,
			Upper: 1,
			Obj:   sc.CostEUR,
		})
		b.install[sc.Station] = append(b.install[sc.Station], col)
		if sc.Slot > 0 {
			prev := b.install[sc.Station][sc.Slot-1]
			b.m.AddRow(solver.Row{
				Name:   fmt.Sprintf("Order_%s_%d", sc.Station, sc.Slot),
				Cols:   []int{col, prev},
				Coeffs: []float64{1, -1},
				Kind:   solver.RowLE,
				Upper:  0,
			})
		}
	}
}

// addVehicleVars declares the SoC trajectory for every vehicle and the
// Connect/Power/StartSession columns for every present minute.
func (b *builtModel) addVehicleVars() {
	minDur := b.params.MinSessionDuration
	for v, veh := range b.asm.Vehicles {
		floor := veh.BatteryKWh * b.params.MinSoCFraction
		ceil := veh.BatteryKWh * b.params.MaxSoCFraction
		for t := 0; t <= b.asm.NumSteps; t++ {
			lo := floor
			if t == 0 {
				// The day starts fully charged to the allowed ceiling.
				lo = ceil
			}
			b.soc[v][t] = b.m.AddVar(solver.Var{
				Name:  fmt.Sprintf("SoC_%s_%d", veh.ID, t),
				Kind:  solver.Continuous,
				Lower: lo,
				Upper: ceil,
			})
		}
		runEnds := contiguousRunEnds(b.asm.Dwells[v])
		for di, d := range b.asm.Dwells[v] {
			for t := d.Start; t < d.End; t++ {
				b.conn[v][t] = b.m.AddVar(solver.Var{
					Name:  fmt.Sprintf("Connect_%s_%d", veh.ID, t),
					Kind:  solver.Binary,
					Upper: 1,
					Obj:   b.earlyCoeff(t),
				})
				b.pow[v][t] = b.m.AddVar(solver.Var{
					Name:  fmt.Sprintf("Power_%s_%d", veh.ID, t),
					Kind:  solver.Continuous,
					Upper: veh.MaxPowerKW,
				})
				// A session may only start where a full minimum-length
				// window still fits inside the contiguous presence run.
				upper := 1.0
				if minDur > 0 && t+minDur > runEnds[di] {
					upper = 0
				}
				b.start[v][t] = b.m.AddVar(solver.Var{
					Name:  fmt.Sprintf("Start_%s_%d", veh.ID, t),
					Kind:  solver.Binary,
					Upper: upper,
					Obj:   b.params.SessionWeight,
				})
			}
		}
	}
}

// earlyCoeff is the time-of-day preference coefficient on Connect: zero
// when the penalty is disabled, otherwise it grows linearly from 0 at
// the first step to the configured weight at the last.
func (b *builtModel) earlyCoeff(t int) float64 {
	if b.params.EarlyWeight == 0 {
		return 0
	}
	denom := b.asm.NumSteps - 1
	if denom < 1 {
		denom = 1
	}
	return b.params.EarlyWeight * float64(t) / float64(denom)
}

// contiguousRunEnds gives, per dwell, the end of the maximal run of
// back-to-back dwells it belongs to. A zero-length trip joins the
// dwells before and after it into one contiguous presence run, so a
// connection may carry across the boundary.
func contiguousRunEnds(dwells []Dwell) []int {
	ends := make([]int, len(dwells))
	for i := len(dwells) - 1; i >= 0; i-- {
		ends[i] = dwells[i].End
		if i+1 < len(dwells) && dwells[i+1].Start == dwells[i].End {
			ends[i] = ends[i+1]
		}
	}
	return ends
}

// addCapacityRows couples connections to installed slots: for every
// (minute, station) pair with at least one present vehicle, the number
// of connected vehicles may not exceed the installed charging points.
// Pairs with no presence are omitted entirely.
func (b *builtModel) addCapacityRows() {
	type key struct {
		station string
		t       int
	}
	present := make(map[key][]int)
	for v := range b.asm.Vehicles {
		for _, d := range b.asm.Dwells[v] {
			for t := d.Start; t < d.End; t++ {
				k := key{d.Station, t}
				present[k] = append(present[k], b.conn[v][t])
			}
		}
	}
	keys := make([]key, 0, len(present))
	for k := range present {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].station != keys[j].station {
			return keys[i].station < keys[j].station
		}
		return keys[i].t < keys[j].t
	})
	for _, k := range keys {
		cols := append([]int(nil), present[k]...)
		coeffs := make([]float64, len(cols), len(cols)+len(b.install[k.station]))
		for i := range coeffs {
			coeffs[i] = 1
		}
		for _, ic := range b.install[k.station] {
			cols = append(cols, ic)
			coeffs = append(coeffs, -1)
		}
		b.m.AddRow(solver.Row{
			Name:   fmt.Sprintf("Cap_%s_%d", k.station, k.t),
			Cols:   cols,
			Coeffs: coeffs,
			Kind:   solver.RowLE,
			Upper:  0,
		})
	}
}

// addSoCRows encodes the exact state recurrence
// SoC[t+1] = SoC[t] - Discharge[t] + Power[t]*stepHours.
func (b *builtModel) addSoCRows() {
	for v, veh := range b.asm.Vehicles {
		for t := 0; t < b.asm.NumSteps; t++ {
			cols := []int{b.soc[v][t+1], b.soc[v][t]}
			coeffs := []float64{1, -1}
			if pc := b.pow[v][t]; pc >= 0 {
				cols = append(cols, pc)
				coeffs = append(coeffs, -stepHours)
			}
			b.m.AddRow(solver.Row{
				Name:   fmt.Sprintf("SoC_%s_%d", veh.ID, t),
				Cols:   cols,
				Coeffs: coeffs,
				Kind:   solver.RowEQ,
				Lower:  -b.asm.Discharge[v][t],
			})
		}
	}
}

// addPowerRows gates charging power behind the connection decision:
// Power <= MaxPower * Connect.
func (b *builtModel) addPowerRows() {
	for v, veh := range b.asm.Vehicles {
		for t := 0; t < b.asm.NumSteps; t++ {
			if b.pow[v][t] < 0 {
				continue
			}
			b.m.AddRow(solver.Row{
				Name:   fmt.Sprintf("Pow_%s_%d", veh.ID, t),
				Cols:   []int{b.pow[v][t], b.conn[v][t]},
				Coeffs: []float64{1, -veh.MaxPowerKW},
				Kind:   solver.RowLE,
				Upper:  0,
			})
		}
	}
}

// addSessionRows makes StartSession an exact indicator of a 0->1
// transition of Connect. Where the previous minute has no Connect
// column the predecessor is structurally disconnected and the indicator
// degenerates to StartSession = Connect; everywhere else, including a
// dwell boundary made contiguous by a zero-length trip, the three
// transition inequalities apply. When a minimum duration is configured,
// every permitted start forces the next MinSessionDuration minutes
// connected.
func (b *builtModel) addSessionRows() {
	minDur := b.params.MinSessionDuration
	for v, veh := range b.asm.Vehicles {
		runEnds := contiguousRunEnds(b.asm.Dwells[v])
		for di, d := range b.asm.Dwells[v] {
			for t := d.Start; t < d.End; t++ {
				st, cn := b.start[v][t], b.conn[v][t]
				prev := -1
				if t > 0 {
					prev = b.conn[v][t-1]
				}
				if prev < 0 {
					b.m.AddRow(solver.Row{
						Name:   fmt.Sprintf("SessEq_%s_%d", veh.ID, t),
						Cols:   []int{st, cn},
						Coeffs: []float64{1, -1},
						Kind:   solver.RowEQ,
						Lower:  0,
					})
				} else {
					b.m.AddRow(solver.Row{
						Name:   fmt.Sprintf("SessUp_%s_%d", veh.ID, t),
						Cols:   []int{st, cn, prev},
						Coeffs: []float64{1, -1, 1},
						Kind:   solver.RowGE,
						Lower:  0,
					})
					b.m.AddRow(solver.Row{
						Name:   fmt.Sprintf("SessConn_%s_%d", veh.ID, t),
						Cols:   []int{st, cn},
						Coeffs: []float64{1, -1},
						Kind:   solver.RowLE,
						Upper:  0,
					})
					b.m.AddRow(solver.Row{
						Name:   fmt.Sprintf("SessPrev_%s_%d", veh.ID, t),
						Cols:   []int{st, prev},
						Coeffs: []float64{1, 1},
						Kind:   solver.RowLE,
						Upper:  1,
					})
				}
				if minDur > 0 && t+minDur <= runEnds[di] {
					cols := make([]int, 0, minDur+1)
					coeffs := make([]float64, 0, minDur+1)
					for tau := t; tau < t+minDur; tau++ {
						cols = append(cols, b.conn[v][tau])
						coeffs = append(coeffs, 1)
					}
					cols = append(cols, st)
					coeffs = append(coeffs, -float64(minDur))
					b.m.AddRow(solver.Row{
						Name:   fmt.Sprintf("SessLen_%s_%d", veh.ID, t),
						Cols:   cols,
						Coeffs: coeffs,
						Kind:   solver.RowGE,
						Lower:  0,
					})
				}
			}
		}
	}
}

// addDwellLockRows forbids disconnecting before the dwell ends once a
// vehicle has connected: Connect is non-decreasing inside each block.
func (b *builtModel) addDwellLockRows() {
	for v, veh := range b.asm.Vehicles {
		for _, d := range b.asm.Dwells[v] {
			for t := d.Start + 1; t < d.End; t++ {
				b.m.AddRow(solver.Row{
					Name:   fmt.Sprintf("Lock_%s_%d", veh.ID, t),
					Cols:   []int{b.conn[v][t], b.conn[v][t-1]},
					Coeffs: []float64{1, -1},
					Kind:   solver.RowGE,
					Lower:  0,
				})
			}
		}
	}
}
