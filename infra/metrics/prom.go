package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/chargeplan/chargeplan/core/metrics"
	"github.com/chargeplan/chargeplan/core/model"
)

// PromSink records planning runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	solveTime *prometheus.HistogramVec
	installed *prometheus.GaugeVec
	cost      *prometheus.GaugeVec
}

// NewPromSink registers planner metrics on the default Prometheus
// registerer. The metrics server is started separately with
// metrics.StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_runs_total",
		Help: "Total number of planning runs by termination status",
	}, []string{"day_type", "status"})
	solveTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plan_solve_seconds",
		Help:    "Wall-clock time spent in the MILP solver",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"day_type", "status"})
	installed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "plan_installed_points",
		Help: "Charging points installed by the most recent plan",
	}, []string{"day_type", "station"})
	cost := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "plan_install_cost",
		Help: "Installation cost of the most recent plan",
	}, []string{"day_type"})

	for _, c := range []prometheus.Collector{runs, solveTime, installed, cost} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return &PromSink{runs: runs, solveTime: solveTime, installed: installed, cost: cost}, nil
}

// RecordRun counts the run and observes its solve time.
func (s *PromSink) RecordRun(res coremetrics.RunResult) error {
	s.runs.WithLabelValues(res.DayType, res.Status).Inc()
	s.solveTime.WithLabelValues(res.DayType, res.Status).Observe(res.SolveSeconds)
	return nil
}

// RecordPlan publishes the installation outcome per station.
func (s *PromSink) RecordPlan(p *model.Plan) error {
	for _, st := range p.Stations {
		s.installed.WithLabelValues(p.DayType, st.Station).Set(float64(st.Installed))
	}
	s.cost.WithLabelValues(p.DayType).Set(p.TotalInstallCost())
	return nil
}

// Close is a no-op for the Prometheus sink.
func (s *PromSink) Close() error { return nil }
