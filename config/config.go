// Package config reads the run parameters of the dyndata tool from an optional
// YAML file and DYNDATA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"dynamic-data/matrix"

	"github.com/spf13/viper"
)

const (
	StrategyBytes = "bytes"
	StrategyField = "field"

	envPrefix   = "DYNDATA"
	defaultName = "dyndata"
)

// ErrInvalid is returned for values that fail validation.
var ErrInvalid = errors.New("config: invalid value")

// Config is the validated view of all keys.
type Config struct {
	K, N, M      int
	Seed         string
	Strategy     string
	Workers      int
	LogLevel     string
	UpdateColumn int
	Erase        []int
	SweepM       []int
	SweepOut     string
	MetricsAddr  string
}

// Loader wraps a private viper instance so flags can be bound before Load.
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	v.SetDefault("k", 4)
	v.SetDefault("n", 8)
	v.SetDefault("m", 8)
	v.SetDefault("seed", "")
	v.SetDefault("strategy", StrategyField)
	v.SetDefault("workers", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("update.column", 5)
	v.SetDefault("erase", []int{1, 4})
	v.SetDefault("sweep.m", []int{8, 16, 32, 64, 128, 256})
	v.SetDefault("sweep.out", "sweep.jsonl")
	v.SetDefault("metrics.addr", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Viper exposes the instance for flag binding.
func (l *Loader) Viper() *viper.Viper { return l.v }

// Load reads path when given, otherwise ./dyndata.yaml if it exists, and
// validates the result.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		l.v.AddConfigPath(".")
		l.v.SetConfigName(defaultName)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}
	cfg := &Config{
		K:            l.v.GetInt("k"),
		N:            l.v.GetInt("n"),
		M:            l.v.GetInt("m"),
		Seed:         l.v.GetString("seed"),
		Strategy:     strings.ToLower(l.v.GetString("strategy")),
		Workers:      l.v.GetInt("workers"),
		LogLevel:     l.v.GetString("log.level"),
		UpdateColumn: l.v.GetInt("update.column"),
		Erase:        l.v.GetIntSlice("erase"),
		SweepM:       l.v.GetIntSlice("sweep.m"),
		SweepOut:     l.v.GetString("sweep.out"),
		MetricsAddr:  l.v.GetString("metrics.addr"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is NewLoader().Load(path).
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Params builds the matrix shape.
func (c *Config) Params() (*matrix.Params, error) {
	return matrix.NewParams(c.K, c.N, c.M)
}

func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Strategy {
	case StrategyBytes:
		if c.N > 256 {
			return fmt.Errorf("%w: n=%d exceeds 256 for the bytes strategy", ErrInvalid, c.N)
		}
	case StrategyField:
	default:
		return fmt.Errorf("%w: strategy %q", ErrInvalid, c.Strategy)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers=%d", ErrInvalid, c.Workers)
	}
	if c.UpdateColumn < 0 || c.UpdateColumn >= c.M {
		return fmt.Errorf("%w: update.column=%d outside [0,%d)", ErrInvalid, c.UpdateColumn, c.M)
	}
	if len(c.Erase) > c.N-c.K {
		return fmt.Errorf("%w: %d erased rows, at most %d recoverable", ErrInvalid, len(c.Erase), c.N-c.K)
	}
	seen := make(map[int]bool, len(c.Erase))
	for _, r := range c.Erase {
		if r < 0 || r >= c.N || seen[r] {
			return fmt.Errorf("%w: erase row %d", ErrInvalid, r)
		}
		seen[r] = true
	}
	for _, m := range c.SweepM {
		if m <= 0 {
			return fmt.Errorf("%w: sweep.m entry %d", ErrInvalid, m)
		}
	}
	return nil
}
