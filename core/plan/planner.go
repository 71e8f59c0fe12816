// Package plan implements the charging-point placement pipeline: trip
// lists are discretized onto a minute grid, compiled into a MILP, handed
// to an external solver and read back as an installation and charging
// plan.
package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chargeplan/chargeplan/core/logger"
	"github.com/chargeplan/chargeplan/core/metrics"
	"github.com/chargeplan/chargeplan/core/model"
	"github.com/chargeplan/chargeplan/core/solver"
)

// Planner runs the assemble -> build -> solve -> extract pipeline. One
// Planner may serve many runs; runs share no state and a run is a pure
// function of its inputs.
type Planner struct {
	solver   solver.Solver
	registry *Registry
	params   model.RunParams
	log      logger.Logger
	sink     metrics.RunSink
}

// NewPlanner wires a planner. A nil sink defaults to a no-op sink, a nil
// logger to a silent one.
func NewPlanner(s solver.Solver, reg *Registry, params model.RunParams, log logger.Logger, sink metrics.RunSink) (*Planner, error) {
	if s == nil {
		return nil, errors.New("solver is required")
	}
	if reg == nil {
		return nil, errors.New("station registry is required")
	}
	params.SetDefaults()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("run params: %w", err)
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Planner{solver: s, registry: reg, params: params, log: log, sink: sink}, nil
}

// Run plans one day type. Infeasible models surface as InfeasibleError,
// engine failures as SolverError. When the solver stops on its time
// budget with an incumbent, the plan is returned with a "time_limit"
// diagnostics status; accepting such a sub-optimal plan is the caller's
// call.
func (p *Planner) Run(ctx context.Context, fleet []model.Vehicle, trips map[string][]model.Trip) (*model.Plan, error) {
	runID := uuid.NewString()
	asm, err := Assemble(fleet, trips)
	if err != nil {
		return nil, err
	}
	b := buildModel(asm, p.registry, p.params)
	p.log.Debugw("model built", map[string]any{
		"run_id":  runID,
		"steps":   asm.NumSteps,
		"columns": len(b.m.Vars),
		"rows":    len(b.m.Rows),
	})

	started := time.Now()
	sol, err := p.solver.Solve(ctx, b.m)
	elapsed := time.Since(started)
	if err != nil {
		p.recordRun(runID, "error", nil, elapsed)
		return nil, &SolverError{Status: "error", Err: err}
	}

	switch sol.Status {
	case solver.StatusInfeasible:
		p.recordRun(runID, sol.Status.String(), nil, elapsed)
		return nil, &InfeasibleError{Hint: diagnose(asm, p.registry, p.params)}
	case solver.StatusTimeLimit:
		if sol.Values == nil {
			p.recordRun(runID, sol.Status.String(), nil, elapsed)
			return nil, &SolverError{Status: sol.Status.String(), Err: errors.New("time limit reached without incumbent")}
		}
		p.log.Warnf("run %s: time limit reached, reporting incumbent without optimality proof", runID)
	case solver.StatusOptimal:
	default:
		p.recordRun(runID, sol.Status.String(), nil, elapsed)
		return nil, &SolverError{Status: sol.Status.String()}
	}

	result, err := b.extract(sol)
	if err != nil {
		return nil, err
	}
	result.RunID = runID
	result.Diagnostics.SolveSeconds = elapsed.Seconds()
	p.recordRun(runID, sol.Status.String(), result, elapsed)
	p.log.Infof("run %s: %s, objective %.3f, %d charging points for %.2f EUR",
		runID, result.Diagnostics.Status, result.Diagnostics.Objective,
		result.TotalInstalled(), result.TotalInstallCost())
	return result, nil
}

func (p *Planner) recordRun(runID, status string, result *model.Plan, elapsed time.Duration) {
	res := metrics.RunResult{
		RunID:        runID,
		DayType:      p.params.DayType,
		Status:       status,
		SolveSeconds: elapsed.Seconds(),
		Time:         time.Now(),
	}
	if result != nil {
		res.Objective = result.Diagnostics.Objective
		res.InstallCostEUR = result.TotalInstallCost()
		res.InstalledPoints = result.TotalInstalled()
	}
	if err := p.sink.RecordRun(res); err != nil {
		p.log.Errorf("record run metrics: %v", err)
	}
	if result != nil {
		if err := p.sink.RecordPlan(result); err != nil {
			p.log.Errorf("record plan series: %v", err)
		}
	}
}

// diagnose names the constraint family most likely responsible for an
// infeasibility, from a cheap relaxation argument: if a vehicle cannot
// stay above the SOC floor even when charging at full power during every
// dwell minute, its power limit or the floor itself is binding; if it
// only fails once charging is restricted to stations with installable
// slots, station capacity is.
func diagnose(asm *Assembly, reg *Registry, p model.RunParams) string {
	for v, veh := range asm.Vehicles {
		if !sustainable(asm, v, veh, p, func(string) bool { return true }) {
			return fmt.Sprintf("SOC floor or charging power limit (vehicle %s)", veh.ID)
		}
	}
	for v, veh := range asm.Vehicles {
		if !sustainable(asm, v, veh, p, func(st string) bool { return reg.NumSlots(st) > 0 }) {
			return fmt.Sprintf("station capacity: no installable slots where vehicle %s must charge", veh.ID)
		}
	}
	return "station capacity or minimum-session constraints"
}

// sustainable simulates one vehicle's SOC assuming it charges at maximum
// power during every dwell minute at a station accepted by ok.
func sustainable(asm *Assembly, v int, veh model.Vehicle, p model.RunParams, ok func(string) bool) bool {
	soc := veh.BatteryKWh * p.MaxSoCFraction
	floor := veh.BatteryKWh * p.MinSoCFraction
	ceil := soc
	for t := 0; t < asm.NumSteps; t++ {
		soc -= asm.Discharge[v][t]
		if asm.Presence[v][t] && ok(asm.StationAt[v][t]) {
			soc += veh.MaxPowerKW * stepHours
			if soc > ceil {
				soc = ceil
			}
		}
		if soc < floor {
			return false
		}
	}
	return true
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
