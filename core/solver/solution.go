package solver

// Status classifies how the engine terminated.
type Status int

const (
	// StatusOptimal means the engine proved optimality within its gap
	// tolerance.
	StatusOptimal Status = iota
	// StatusInfeasible means the engine proved no assignment satisfies
	// all constraints.
	StatusInfeasible
	// StatusTimeLimit means the engine stopped on its time budget. The
	// Solution carries the incumbent if one was found, otherwise Values
	// is nil.
	StatusTimeLimit
	// StatusError covers crashes and unrecognized termination codes.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimeLimit:
		return "time_limit"
	default:
		return "error"
	}
}

// Solution is the engine's answer: one value per column of the model,
// in column order.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}
