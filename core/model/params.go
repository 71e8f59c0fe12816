package model

import "fmt"

// RunParams are the knobs of a single planning run. A run is a pure
// function of its inputs and these parameters.
type RunParams struct {
	// MinSoCFraction and MaxSoCFraction bound the battery state of
	// charge as fractions of capacity. Every vehicle starts the day at
	// MaxSoCFraction of its capacity.
	MinSoCFraction float64 `json:"min_soc_fraction"`
	MaxSoCFraction float64 `json:"max_soc_fraction"`

	// MinSessionDuration, in minutes, forbids charging sessions shorter
	// than this. Zero disables the constraint.
	MinSessionDuration int `json:"min_session_duration"`

	// SessionWeight penalizes each started charging session in the
	// objective. EarlyWeight penalizes charging late in the horizon,
	// nudging sessions toward the start of the day. Both default to
	// zero and are calibrated empirically; no normalization against the
	// installation cost term is applied.
	SessionWeight float64 `json:"session_penalty_weight"`
	EarlyWeight   float64 `json:"early_charging_weight"`

	// LockEntireDwell forbids disconnecting before the end of the dwell
	// once a vehicle has connected within it.
	LockEntireDwell bool `json:"lock_entire_dwell"`

	// DayType labels the schedule horizon, e.g. "weekday" or "sunday".
	DayType string `json:"day_type"`
}

// SetDefaults applies sane defaults.
func (p *RunParams) SetDefaults() {
	if p.MinSoCFraction == 0 && p.MaxSoCFraction == 0 {
		p.MinSoCFraction = 0.2
		p.MaxSoCFraction = 0.9
	}
	if p.DayType == "" {
		p.DayType = "weekday"
	}
}

// Validate checks parameter consistency.
func (p RunParams) Validate() error {
	if p.MinSoCFraction < 0 || p.MinSoCFraction >= 1 {
		return fmt.Errorf("min_soc_fraction %v out of [0,1)", p.MinSoCFraction)
	}
	if p.MaxSoCFraction <= p.MinSoCFraction || p.MaxSoCFraction > 1 {
		return fmt.Errorf("max_soc_fraction %v must lie in (min_soc_fraction,1]", p.MaxSoCFraction)
	}
	if p.MinSessionDuration < 0 {
		return fmt.Errorf("min_session_duration must not be negative")
	}
	if p.SessionWeight < 0 || p.EarlyWeight < 0 {
		return fmt.Errorf("penalty weights must not be negative")
	}
	return nil
}
