package main

import (
	"fmt"
	"os"

	"dynamic-data/config"
	"dynamic-data/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	loader     = config.NewLoader()
	cfg        *config.Config
	log        *zap.SugaredLogger
	rootCmd    *cobra.Command
)

func init() {
	initRoot()
	rootCmd.AddCommand(initRunCmd(), initSweepCmd(), initPlotCmd())
}

func initRoot() {
	rootCmd = &cobra.Command{
		Use:   "dyndata",
		Short: "erasure-coded matrix with updatable row commitments",
		Long: `dyndata drives the dynamic-data store end to end.
It provides:
      - run:   encode, commit, open and verify a random matrix, then update a column and recover erased rows
      - sweep: time fresh commits against point and row-delta updates over several row lengths
      - plot:  render a sweep as an HTML chart
`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "config file (default is ./dyndata.yaml)")
	pf.String("strategy", "", "erasure strategy: bytes or field")
	pf.String("seed", "", "seed for data and setup; empty draws fresh randomness")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.Int("workers", 0, "rows committed concurrently (0 = GOMAXPROCS)")
	bindFlag(rootCmd, "strategy", "strategy")
	bindFlag(rootCmd, "seed", "seed")
	bindFlag(rootCmd, "log.level", "log-level")
	bindFlag(rootCmd, "workers", "workers")
}

// bindFlag lets flag name override config key. Unset flags leave the key alone.
func bindFlag(cmd *cobra.Command, key, name string) {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(name)
	}
	if err := loader.Viper().BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

// initConfig reads the config file and DYNDATA_* variables, then builds the logger.
func initConfig() error {
	var err error
	if cfg, err = loader.Load(configFile); err != nil {
		return err
	}
	if log, err = logging.New("dyndata", cfg.LogLevel); err != nil {
		return err
	}
	if used := loader.Viper().ConfigFileUsed(); used != "" {
		log.Infof("using config file: %s", used)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
