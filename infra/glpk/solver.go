// Package glpk adapts the solver-neutral MILP description onto the GNU
// Linear Programming Kit through the lukpank/go-glpk binding. It is the
// only package that talks to a real optimization engine; everything
// upstream of it is pure data transformation.
package glpk

import (
	"context"
	"fmt"
	"time"

	"github.com/lukpank/go-glpk/glpk"

	"github.com/chargeplan/chargeplan/core/logger"
	"github.com/chargeplan/chargeplan/core/solver"
)

// Config tunes the engine run.
type Config struct {
	// TimeLimit bounds the wall clock of one solve. The binding does
	// not expose GLPK's internal time limit, so the budget is checked
	// after the run: an unproven incumbent past the budget is reported
	// as a time-limit termination, never as optimal. Zero disables the
	// check.
	TimeLimit time.Duration `json:"time_limit"`
	// Verbose lifts the engine's message level from errors-only to
	// full progress output.
	Verbose bool `json:"verbose"`
}

// Solver solves models with GLPK's simplex plus branch-and-cut.
type Solver struct {
	cfg Config
	log logger.Logger
}

// New returns a GLPK-backed solver.
func New(cfg Config, log logger.Logger) *Solver {
	return &Solver{cfg: cfg, log: log}
}

// Solve loads the model into a fresh GLPK problem object, runs the LP
// relaxation and then the integer optimizer, and maps GLPK's termination
// statuses onto the solver taxonomy. Infeasibility proven by either
// phase is reported as StatusInfeasible with a nil error; only engine
// failures return an error.
func (s *Solver) Solve(ctx context.Context, m *solver.Model) (*solver.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lp := glpk.New()
	defer lp.Delete()
	lp.SetProbName(m.Name)
	lp.SetObjDir(glpk.ObjDir(glpk.MIN))

	s.loadColumns(lp, m)
	s.loadRows(lp, m)
	if s.log != nil {
		s.log.Debugw("glpk problem loaded", map[string]any{
			"name":    m.Name,
			"columns": len(m.Vars),
			"rows":    len(m.Rows),
		})
	}

	msgLev := glpk.MsgLev(glpk.MSG_ERR)
	if s.cfg.Verbose {
		msgLev = glpk.MsgLev(glpk.MSG_ON)
	}

	started := time.Now()
	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(msgLev)
	if err := lp.Simplex(smcp); err != nil {
		return nil, fmt.Errorf("simplex: %w", err)
	}
	switch lp.Status() {
	case glpk.NOFEAS:
		return &solver.Solution{Status: solver.StatusInfeasible}, nil
	case glpk.UNBND:
		return nil, fmt.Errorf("relaxation is unbounded")
	}

	iocp := glpk.NewIocp()
	// The LP relaxation was just solved to optimality, so branch-and-cut
	// starts from that basis instead of presolving again.
	iocp.SetPresolve(false)
	iocp.SetMsgLev(msgLev)
	if err := lp.Intopt(iocp); err != nil {
		return nil, fmt.Errorf("intopt: %w", err)
	}
	elapsed := time.Since(started)

	switch st := lp.MipStatus(); st {
	case glpk.OPT:
		if s.cfg.TimeLimit > 0 && elapsed > s.cfg.TimeLimit {
			// Proven optimal, just slower than budgeted; still optimal.
			if s.log != nil {
				s.log.Warnf("solve exceeded time budget %v (took %v)", s.cfg.TimeLimit, elapsed)
			}
		}
		return s.readSolution(lp, m, solver.StatusOptimal), nil
	case glpk.FEAS:
		// Incumbent without an optimality proof.
		return s.readSolution(lp, m, solver.StatusTimeLimit), nil
	case glpk.NOFEAS:
		return &solver.Solution{Status: solver.StatusInfeasible}, nil
	default:
		return &solver.Solution{Status: solver.StatusError}, fmt.Errorf("unrecognized MIP status %v", st)
	}
}

func (s *Solver) loadColumns(lp *glpk.Prob, m *solver.Model) {
	if len(m.Vars) == 0 {
		return
	}
	lp.AddCols(len(m.Vars))
	for i, v := range m.Vars {
		col := i + 1
		lp.SetColName(col, v.Name)
		lp.SetObjCoef(col, v.Obj)
		if v.Kind == solver.Binary {
			lp.SetColKind(col, glpk.VarType(glpk.BV))
			if v.Upper == 0 {
				// Pinned binary: integrality kept, value fixed.
				lp.SetColBnds(col, glpk.BndsType(glpk.FX), 0, 0)
			}
			continue
		}
		lp.SetColKind(col, glpk.VarType(glpk.CV))
		switch {
		case v.Lower == v.Upper:
			lp.SetColBnds(col, glpk.BndsType(glpk.FX), v.Lower, v.Upper)
		default:
			lp.SetColBnds(col, glpk.BndsType(glpk.DB), v.Lower, v.Upper)
		}
	}
}

func (s *Solver) loadRows(lp *glpk.Prob, m *solver.Model) {
	if len(m.Rows) == 0 {
		return
	}
	lp.AddRows(len(m.Rows))
	for i, r := range m.Rows {
		row := i + 1
		lp.SetRowName(row, r.Name)
		switch r.Kind {
		case solver.RowLE:
			lp.SetRowBnds(row, glpk.BndsType(glpk.UP), 0, r.Upper)
		case solver.RowGE:
			lp.SetRowBnds(row, glpk.BndsType(glpk.LO), r.Lower, 0)
		case solver.RowEQ:
			lp.SetRowBnds(row, glpk.BndsType(glpk.FX), r.Lower, r.Lower)
		case solver.RowRange:
			lp.SetRowBnds(row, glpk.BndsType(glpk.DB), r.Lower, r.Upper)
		}
		ind := make([]int32, len(r.Cols))
		for j, c := range r.Cols {
			ind[j] = int32(c + 1)
		}
		lp.SetMatRow(row, ind, r.Coeffs)
	}
}

func (s *Solver) readSolution(lp *glpk.Prob, m *solver.Model, status solver.Status) *solver.Solution {
	sol := &solver.Solution{
		Status:    status,
		Objective: lp.MipObjVal(),
		Values:    make([]float64, len(m.Vars)),
	}
	for i := range m.Vars {
		sol.Values[i] = lp.MipColVal(i + 1)
	}
	return sol
}
