package main

import (
	"context"
	"fmt"
	"os"

	"dynamic-data/internal/sweep"
	"dynamic-data/prof"

	"github.com/spf13/cobra"
)

func initSweepCmd() *cobra.Command {
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "time fresh commit, point update and row delta update over several m",
		Args:  cobra.NoArgs,
		RunE:  runSweepCmd,
	}
	sweepCmd.Flags().IntSlice("m", nil, "row lengths to measure")
	sweepCmd.Flags().String("out", "", "JSONL output file")
	sweepCmd.Flags().Int("reps", 8, "repetitions per operation")
	bindFlag(sweepCmd, "sweep.m", "m")
	bindFlag(sweepCmd, "sweep.out", "out")
	return sweepCmd
}

func runSweepCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	reps, err := cmd.Flags().GetInt("reps")
	if err != nil {
		return err
	}

	prof.SetEnabled(false)
	defer prof.SetEnabled(true)
	points, err := sweep.Run(ctx, cfg.SweepM, reps, []byte(cfg.Seed), log)
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.SweepOut)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	defer f.Close()
	if err := sweep.WriteJSONL(f, points); err != nil {
		return err
	}
	log.Infof("wrote %d points to %s", len(points), cfg.SweepOut)
	return nil
}
