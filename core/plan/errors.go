package plan

import "fmt"

// InputError marks malformed or inconsistent planning input. It is
// always raised before any model construction happens.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return "invalid input: " + e.Msg }

func inputErrorf(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// InfeasibleError reports that the solver proved the model has no
// feasible assignment. Hint names the constraint family most likely to
// be binding, derived from a cheap pre-solve diagnosis of the inputs.
type InfeasibleError struct {
	Hint string
}

func (e *InfeasibleError) Error() string {
	if e.Hint == "" {
		return "model is infeasible"
	}
	return "model is infeasible, likely binding: " + e.Hint
}

// SolverError wraps an engine failure or an unrecognized termination.
// Status carries the raw termination condition as reported by the
// adapter; deciding whether an incumbent at the time limit is acceptable
// is left to the caller.
type SolverError struct {
	Status string
	Err    error
}

func (e *SolverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("solver terminated with %s: %v", e.Status, e.Err)
	}
	return "solver terminated with " + e.Status
}

func (e *SolverError) Unwrap() error { return e.Err }

// PostProcessingError signals a contract violation between the model and
// the solution read back from the engine, e.g. a shape mismatch.
type PostProcessingError struct {
	Msg string
}

func (e *PostProcessingError) Error() string { return "post-processing: " + e.Msg }
