package main

import (
	"fmt"
	"os"

	"dynamic-data/internal/sweep"

	"github.com/spf13/cobra"
)

func initPlotCmd() *cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "render a sweep JSONL file as an HTML line chart",
		Args:  cobra.NoArgs,
		RunE:  runPlotCmd,
	}
	plotCmd.Flags().String("in", "", "sweep JSONL input (default: sweep.out)")
	plotCmd.Flags().String("out", "sweep.html", "HTML output file")
	return plotCmd
}

func runPlotCmd(cmd *cobra.Command, _ []string) error {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")
	if in == "" {
		in = cfg.SweepOut
	}

	src, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	defer src.Close()
	points, err := sweep.ReadJSONL(src)
	if err != nil {
		return err
	}

	dst, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	defer dst.Close()
	if err := sweep.Render(dst, points); err != nil {
		return err
	}
	log.Infof("wrote %s (%d points from %s)", out, len(points), in)
	return nil
}
