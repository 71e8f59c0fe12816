package metrics

import (
	"errors"
	"testing"

	coremetrics "github.com/chargeplan/chargeplan/core/metrics"
	"github.com/chargeplan/chargeplan/core/model"
)

type recordingSink struct {
	runs  int
	plans int
	err   error
}

func (s *recordingSink) RecordRun(coremetrics.RunResult) error {
	s.runs++
	return s.err
}

func (s *recordingSink) RecordPlan(*model.Plan) error {
	s.plans++
	return s.err
}

func (s *recordingSink) Close() error { return nil }

func TestMultiSinkFanout(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordRun(coremetrics.RunResult{}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := m.RecordPlan(&model.Plan{}); err != nil {
		t.Fatalf("record plan: %v", err)
	}
	if a.runs != 1 || b.runs != 1 || a.plans != 1 || b.plans != 1 {
		t.Fatalf("fanout incomplete: %+v %+v", a, b)
	}
}

func TestMultiSinkFirstError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMultiSink(&recordingSink{err: boom}, &recordingSink{})
	if err := m.RecordRun(coremetrics.RunResult{}); !errors.Is(err, boom) {
		t.Fatalf("expected first error, got %v", err)
	}
}

func TestNewFromConfigDefaultsToNop(t *testing.T) {
	sink, err := NewFromConfig(coremetrics.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sink.(coremetrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", sink)
	}
}
