// Package solver defines a solver-neutral description of a mixed-integer
// linear program and the interface an engine adapter must implement. The
// planning core only ever talks to this package; the GLPK binding lives
// in infra/glpk and test suites substitute a stub.
package solver

import "context"

// VarKind distinguishes continuous from binary columns.
type VarKind int

const (
	Continuous VarKind = iota
	Binary
)

// Var is one decision variable. Bounds are ignored for Binary columns.
// Obj is the variable's coefficient in the linear objective.
type Var struct {
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64
	Obj   float64
}

// RowKind states which of a row's bounds are active.
type RowKind int

const (
	RowLE RowKind = iota // sum <= Upper
	RowGE                // sum >= Lower
	RowEQ                // sum == Lower
	RowRange             // Lower <= sum <= Upper
)

// Row is one linear constraint over the columns listed in Cols.
// Cols holds zero-based column indices returned by AddVar.
type Row struct {
	Name   string
	Cols   []int
	Coeffs []float64
	Kind   RowKind
	Lower  float64
	Upper  float64
}

// Model is a minimization MILP assembled by the planning core.
type Model struct {
	Name string
	Vars []Var
	Rows []Row
}

// AddVar appends a variable and returns its column index.
func (m *Model) AddVar(v Var) int {
	m.Vars = append(m.Vars, v)
	return len(m.Vars) - 1
}

// AddRow appends a constraint row.
func (m *Model) AddRow(r Row) {
	m.Rows = append(m.Rows, r)
}

// SetObj sets the objective coefficient of column i.
func (m *Model) SetObj(i int, c float64) {
	m.Vars[i].Obj = c
}

// AddObj adds c to the objective coefficient of column i.
func (m *Model) AddObj(i int, c float64) {
	m.Vars[i].Obj += c
}

// Solver submits a model to an external MILP engine. Implementations
// must map engine termination codes onto Status and must never invent a
// solution: a non-nil Solution is returned only when the engine produced
// an assignment (optimal or incumbent at the time limit).
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}
