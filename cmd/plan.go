package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chargeplan/chargeplan/config"
	"github.com/chargeplan/chargeplan/core/plan"
	"github.com/chargeplan/chargeplan/infra/glpk"
	"github.com/chargeplan/chargeplan/infra/logger"
	inframetrics "github.com/chargeplan/chargeplan/infra/metrics"
	"github.com/chargeplan/chargeplan/metrics"
	"github.com/chargeplan/chargeplan/pkg/export"
)

var (
	tripsPath string
	outPath   string
	outFormat string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan charging points and per-minute charging power for one day type",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&tripsPath, "trips", "t", "trips.json", "trip records file")
	planCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	planCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "output format: json, series-csv or stations-csv")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reject a bad output format before spending time on the solve.
	write, err := export.WriterFor(outFormat)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("plan-command")

	trips, err := plan.LoadTrips(tripsPath)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(trips))
	for id := range trips {
		ids = append(ids, id)
	}
	fleet, err := cfg.Fleet.Resolve(ids)
	if err != nil {
		return err
	}

	registry := plan.NewRegistry()
	for _, st := range cfg.Stations {
		if err := registry.Register(st.ID, st.SlotCosts); err != nil {
			return err
		}
	}

	sink, err := inframetrics.NewFromConfig(cfg.Metrics)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Errorf("close metrics sink: %v", err)
		}
	}()
	if cfg.Metrics.PrometheusAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, cfg.Metrics.PrometheusAddr); err != nil {
				log.Errorf("prom server: %v", err)
			}
		}()
	}

	planner, err := plan.NewPlanner(glpk.New(cfg.Solver, log), registry, cfg.Run, log, sink)
	if err != nil {
		return err
	}
	result, err := planner.Run(ctx, fleet, trips)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return write(out, result)
}
