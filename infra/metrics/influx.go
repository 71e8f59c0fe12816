package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/chargeplan/chargeplan/core/metrics"
	"github.com/chargeplan/chargeplan/core/model"
	"github.com/chargeplan/chargeplan/infra/logger"
)

// InfluxSink writes run summaries and the per-minute power/SOC series to
// an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails, so a missing telemetry store never
// blocks planning.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.RunSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one summary point per planning run.
func (s *InfluxSink) RecordRun(res coremetrics.RunResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan_run").
		AddTag("run_id", res.RunID).
		AddTag("day_type", res.DayType).
		AddTag("status", res.Status).
		AddField("objective", res.Objective).
		AddField("install_cost", res.InstallCostEUR).
		AddField("installed_points", res.InstalledPoints).
		AddField("solve_seconds", res.SolveSeconds).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPlan exports the minute-indexed power and SOC series of every
// vehicle. Grid indices are mapped onto a synthetic day starting at the
// plan's start minute so the series align in dashboards.
func (s *InfluxSink) RecordPlan(plan *model.Plan) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(plan.StartMinute) * time.Minute)
	for _, vp := range plan.Vehicles {
		for t, p := range vp.PowerKW {
			pt := write.NewPointWithMeasurement("plan_series").
				AddTag("run_id", plan.RunID).
				AddTag("day_type", plan.DayType).
				AddTag("vehicle_id", vp.VehicleID).
				AddField("power_kw", p).
				AddField("soc_kwh", vp.SoCKWh[t]).
				SetTime(day.Add(time.Duration(t) * time.Minute))
			if err := s.writeAPI.WritePoint(ctx, pt); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
