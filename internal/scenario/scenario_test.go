package scenario

import (
	"context"
	"testing"

	"dynamic-data/config"
	"dynamic-data/logging"
	"dynamic-data/matrixcommit"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func baseConfig(strategy string) *config.Config {
	return &config.Config{
		K: 4, N: 8, M: 8,
		Seed:         "scenario",
		Strategy:     strategy,
		Workers:      2,
		UpdateColumn: 5,
		Erase:        []int{1, 4},
	}
}

func TestRunBothStrategies(t *testing.T) {
	for _, s := range []string{config.StrategyBytes, config.StrategyField} {
		cfg := baseConfig(s)
		require.NoError(t, cfg.Validate())
		rep, err := Run(context.Background(), cfg, logging.Nop())
		require.NoError(t, err, s)
		require.True(t, rep.OK(), "%s: %+v", s, rep)
		require.Equal(t, 64, rep.CellsVerified)
		require.Equal(t, s, rep.Strategy)
		require.Len(t, rep.Root, 64)
	}
}

func TestRunIsReproducible(t *testing.T) {
	a, err := Run(context.Background(), baseConfig(config.StrategyBytes), logging.Nop())
	require.NoError(t, err)
	b, err := Run(context.Background(), baseConfig(config.StrategyBytes), logging.Nop())
	require.NoError(t, err)
	require.Equal(t, a.Root, b.Root)
}

func TestRunNonPowerOfTwoShape(t *testing.T) {
	cfg := baseConfig(config.StrategyField)
	cfg.K, cfg.N, cfg.M = 3, 7, 6
	cfg.UpdateColumn = 5
	cfg.Erase = []int{0, 2, 6}
	reg := prometheus.NewRegistry()
	metrics, err := matrixcommit.NewMetrics(reg)
	require.NoError(t, err)

	rep, err := Run(context.Background(), cfg, logging.Nop(), matrixcommit.WithMetrics(metrics))
	require.NoError(t, err)
	require.True(t, rep.OK())
	require.Equal(t, 42, rep.CellsVerified)
}

func TestRunRejectsUnknownStrategy(t *testing.T) {
	_, err := Run(context.Background(), baseConfig("lzma"), logging.Nop())
	require.ErrorIs(t, err, config.ErrInvalid)
}
