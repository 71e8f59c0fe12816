package metrics

import (
	coremetrics "github.com/chargeplan/chargeplan/core/metrics"
)

// NewFromConfig assembles the configured sinks into one RunSink. With no
// sink configured it returns a NopSink; with several, a MultiSink.
func NewFromConfig(cfg coremetrics.Config) (coremetrics.RunSink, error) {
	var sinks []coremetrics.RunSink
	if cfg.PrometheusAddr != "" {
		prom, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, prom)
	}
	if cfg.InfluxURL != "" {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
