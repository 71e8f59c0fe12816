// Package metrics defines the run-level metrics surface of the planner.
// Sinks receive one RunResult per planning run plus the full plan for
// series export. Implementations live in infra/metrics.
package metrics

import (
	"time"

	"github.com/chargeplan/chargeplan/core/model"
)

// RunResult summarizes one planning run for metric sinks.
type RunResult struct {
	RunID           string
	DayType         string
	Status          string
	Objective       float64
	InstallCostEUR  float64
	InstalledPoints int
	SolveSeconds    float64
	Time            time.Time
}

// RunSink consumes planning run outcomes.
type RunSink interface {
	// RecordRun reports the run summary; it is called for every run,
	// including infeasible and failed ones.
	RecordRun(RunResult) error
	// RecordPlan exports the solved plan's series; it is only called
	// when a plan was produced.
	RecordPlan(*model.Plan) error
	Close() error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordRun(RunResult) error      { return nil }
func (NopSink) RecordPlan(*model.Plan) error   { return nil }
func (NopSink) Close() error                   { return nil }

// Config selects and parameterizes the metric sinks.
type Config struct {
	// PrometheusAddr enables the Prometheus sink and /metrics server
	// when non-empty, e.g. ":9090".
	PrometheusAddr string `json:"prometheus_addr"`

	InfluxURL    string `json:"influx_url"`
	InfluxToken  string `json:"influx_token"`
	InfluxOrg    string `json:"influx_org"`
	InfluxBucket string `json:"influx_bucket"`
}
