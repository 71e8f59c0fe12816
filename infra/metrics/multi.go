package metrics

import (
	coremetrics "github.com/chargeplan/chargeplan/core/metrics"
	"github.com/chargeplan/chargeplan/core/model"
)

// MultiSink fans planning run records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.RunSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.RunSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run summary to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordRun(res coremetrics.RunResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordPlan forwards the solved plan to all sinks.
func (m *MultiSink) RecordPlan(p *model.Plan) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlan(p); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, returning the first error encountered.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
