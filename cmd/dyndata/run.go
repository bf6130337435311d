package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"dynamic-data/internal/scenario"
	"dynamic-data/matrixcommit"
	"dynamic-data/prof"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func initRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "encode, commit, open, update and recover one random matrix",
		Args:  cobra.NoArgs,
		RunE:  runRunCmd,
	}
	runCmd.Flags().Int("k", 0, "systematic rows")
	runCmd.Flags().Int("n", 0, "total rows")
	runCmd.Flags().Int("m", 0, "columns")
	runCmd.Flags().Int("column", 0, "column to update")
	runCmd.Flags().IntSlice("erase", nil, "rows to erase before reconstruction")
	runCmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address while running")
	bindFlag(runCmd, "k", "k")
	bindFlag(runCmd, "n", "n")
	bindFlag(runCmd, "m", "m")
	bindFlag(runCmd, "update.column", "column")
	bindFlag(runCmd, "erase", "erase")
	bindFlag(runCmd, "metrics.addr", "metrics-addr")
	return runCmd
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reg := prometheus.NewRegistry()
	metrics, err := matrixcommit.NewMetrics(reg)
	if err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		srv := startMetrics(cfg.MetricsAddr, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	prof.SnapshotAndReset()
	rep, err := scenario.Run(ctx, cfg, log, matrixcommit.WithMetrics(metrics))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "strategy\t%s\n", rep.Strategy)
	fmt.Fprintf(w, "shape\t%s\n", rep.Shape)
	fmt.Fprintf(w, "cells verified\t%d\n", rep.CellsVerified)
	fmt.Fprintf(w, "column %d update consistent\t%v\n", rep.UpdatedColumn, rep.UpdateConsistent)
	fmt.Fprintf(w, "rows %v recovered\t%v\n", rep.ErasedRows, rep.Recovered)
	fmt.Fprintf(w, "commitment root\t%s\n", rep.Root)
	_ = w.Flush()

	printTimings(prof.Summarize(prof.SnapshotAndReset()))

	if !rep.OK() {
		return errors.New("run: consistency check failed")
	}
	return nil
}

func printTimings(stats []prof.Stat) {
	if len(stats) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "label\tcalls\ttotal\tmean\tmax\t")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t\n", s.Label, s.Count, s.Total.Round(time.Microsecond), s.Mean().Round(time.Microsecond), s.Max.Round(time.Microsecond))
	}
	_ = w.Flush()
}

func startMetrics(addr string, reg *prometheus.Registry) *http.Server {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server: %v", err)
		}
	}()
	log.Infof("prometheus metrics exposed on %s/metrics", addr)
	return srv
}
