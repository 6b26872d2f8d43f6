package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/slotstore"
	"github.com/hupe1980/slotstore/internal/printer"
	"github.com/hupe1980/slotstore/promcollector"
	"github.com/hupe1980/slotstore/workload"
)

var (
	stressConfigPath  string
	stressWorkers     int
	stressOps         int
	stressConcurrent  int
	stressInsertRatio float64
	stressSnapRatio   float64
	stressScanRatio   float64
	stressRate        float64
	stressRetain      int64
	stressSeed        int64
	stressCodec       string
	stressMetricsAddr string
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run a concurrent stress workload against a fresh store",
	Long: `Run a concurrent stress workload against a fresh store.

Workers issue a mix of inserts, head reads, snapshot re-reads and attribute
scans. The run fails if any write is lost, any read is torn, or any snapshot
token returns two different answers.

Settings are read from --config (YAML) first; flags that are set explicitly
override the file.`,
	RunE: runStress,
}

func init() {
	def := workload.DefaultConfig()

	f := stressCmd.Flags()
	f.StringVarP(&stressConfigPath, "config", "c", "", "Path to a YAML workload config")
	f.IntVar(&stressWorkers, "workers", def.Workers, "Number of workers")
	f.IntVar(&stressOps, "ops", def.OpsPerWorker, "Operations per worker")
	f.IntVar(&stressConcurrent, "max-concurrent", def.MaxConcurrent, "Workers running at once (0 = all)")
	f.Float64Var(&stressInsertRatio, "insert-ratio", def.InsertRatio, "Share of inserts")
	f.Float64Var(&stressSnapRatio, "snapshot-ratio", def.SnapshotRatio, "Share of snapshot re-reads")
	f.Float64Var(&stressScanRatio, "scan-ratio", def.ScanRatio, "Share of attribute scans")
	f.Float64Var(&stressRate, "rate", def.OpsPerSecond, "Aggregate operations per second (0 = unlimited)")
	f.Int64Var(&stressRetain, "retain", def.RetainRevisions, "Trim history above this many revisions (0 = never)")
	f.Int64Var(&stressSeed, "seed", def.Seed, "Random seed")
	f.StringVar(&stressCodec, "codec", "", "Print the report with this codec (indent, json, go-json)")
	f.StringVar(&stressMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run")

	rootCmd.AddCommand(stressCmd)
}

func stressConfig(cmd *cobra.Command) (workload.Config, error) {
	cfg := workload.DefaultConfig()
	if stressConfigPath != "" {
		loaded, err := workload.LoadConfig(stressConfigPath)
		if err != nil {
			return cfg, printer.Error(
				"Invalid workload config",
				err.Error(),
				[]string{"Check the YAML file passed with --config"},
			)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("workers") {
		cfg.Workers = stressWorkers
	}
	if f.Changed("ops") {
		cfg.OpsPerWorker = stressOps
	}
	if f.Changed("max-concurrent") {
		cfg.MaxConcurrent = stressConcurrent
	}
	if f.Changed("insert-ratio") {
		cfg.InsertRatio = stressInsertRatio
	}
	if f.Changed("snapshot-ratio") {
		cfg.SnapshotRatio = stressSnapRatio
	}
	if f.Changed("scan-ratio") {
		cfg.ScanRatio = stressScanRatio
	}
	if f.Changed("rate") {
		cfg.OpsPerSecond = stressRate
	}
	if f.Changed("retain") {
		cfg.RetainRevisions = stressRetain
	}
	if f.Changed("seed") {
		cfg.Seed = stressSeed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, printer.Error("Invalid workload settings", err.Error(), nil)
	}
	return cfg, nil
}

func runStress(cmd *cobra.Command, args []string) error {
	cfg, err := stressConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return printer.Error("Invalid logging flags", err.Error(), []string{
			"Use --log-level off, debug, info, warn or error",
			"Use --log-format text or json",
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []slotstore.Option{slotstore.WithLogger(logger)}
	if stressMetricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, slotstore.WithMetricsCollector(promcollector.New(reg)))

		shutdown, err := serveMetrics(stressMetricsAddr, reg)
		if err != nil {
			return printer.Error("Failed to serve metrics", err.Error(), []string{"Choose a free address with --metrics-addr"})
		}
		defer shutdown()
		printer.Step("Serving metrics on http://%s/metrics\n", stressMetricsAddr)
	}

	s := slotstore.New("stress", opts...)
	printer.Step("Running %d workers × %d ops against store %s\n", cfg.Workers, cfg.OpsPerWorker, s.ID())

	rep, runErr := workload.Run(ctx, s, cfg, workload.WithLogger(logger))

	if stressCodec != "" {
		b, err := encode(stressCodec, rep)
		if err != nil {
			return err
		}
		printer.Raw(b)
	} else {
		printReport(rep)
	}

	switch {
	case errors.Is(runErr, workload.ErrViolation):
		return printer.Error(
			"Consistency violation",
			fmt.Sprintf("%d violation(s) detected; first: %s", len(rep.Violations), rep.Violations[0]),
			nil,
		)
	case runErr != nil:
		return printer.Error("Stress run aborted", runErr.Error(), nil)
	}

	printer.Success("No lost writes, torn reads or snapshot drift\n")
	return nil
}

func printReport(rep workload.Report) {
	printer.Info("ops:             %d (%.0f/s)\n", rep.Ops, float64(rep.Ops)/max(rep.Elapsed.Seconds(), 1e-9))
	printer.Info("inserts:         %d\n", rep.Inserts)
	printer.Info("gets:            %d (%d hits)\n", rep.Gets, rep.Hits)
	printer.Info("snapshot reads:  %d (%d trimmed, %d version-checked)\n", rep.SnapshotOps, rep.TrimmedReads, rep.VersionCheck)
	printer.Info("scans:           %d\n", rep.Scans)
	printer.Info("trims:           %d (%d revisions released)\n", rep.Trims, rep.Trimmed)
	printer.Info("retained:        %d revisions\n", rep.Retained)
	printer.Info("final version:   %d\n", rep.FinalVersion)
	printer.Info("peak workers:    %d\n", rep.PeakWorkers)
	printer.Info("elapsed:         %s\n", rep.Elapsed.Round(time.Millisecond))
	for _, v := range rep.Violations {
		printer.Warning("%s\n", v)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() { _ = srv.Serve(ln) }()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
