// Package scenario runs the end-to-end flow of the store once: random data,
// column encoding, row commitments, cell openings, a column update propagated
// through the point-update path and recovery of erased rows.
package scenario

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"dynamic-data/config"
	"dynamic-data/erasure"
	"dynamic-data/internal/rng"
	"dynamic-data/matrix"
	"dynamic-data/matrixcommit"
	"dynamic-data/pcs"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"go.uber.org/zap"
)

// Report summarises one run.
type Report struct {
	Strategy         string `json:"strategy"`
	Shape            string `json:"shape"`
	CellsVerified    int    `json:"cells_verified"`
	UpdatedColumn    int    `json:"updated_column"`
	UpdateConsistent bool   `json:"update_consistent"`
	ErasedRows       []int  `json:"erased_rows"`
	Recovered        bool   `json:"recovered"`
	Root             string `json:"root"`
}

// OK reports whether every check of the run passed.
func (r *Report) OK() bool {
	return r.UpdateConsistent && r.Recovered
}

// strategy adapts one erasure code to the commitment layer, which always works
// on field elements.
type strategy[T matrix.Scalar] struct {
	name    string
	enc     erasure.Encoder[T]
	random  func(*matrix.Params, io.Reader) (*matrix.Matrix[T], error)
	toField func(*matrix.Matrix[T]) *matrix.Matrix[fr.Element]
	scalar  func(uint64) T
}

func byteStrategy(p *matrix.Params) (*strategy[uint8], error) {
	enc, err := erasure.NewByteEncoder(p)
	if err != nil {
		return nil, err
	}
	return &strategy[uint8]{
		name:    config.StrategyBytes,
		enc:     enc,
		random:  matrix.NewRandomBytes,
		toField: matrix.FromBytes,
		scalar:  func(v uint64) uint8 { return uint8(v) },
	}, nil
}

func fieldStrategy(p *matrix.Params) (*strategy[fr.Element], error) {
	enc, err := erasure.NewFieldEncoder(p)
	if err != nil {
		return nil, err
	}
	return &strategy[fr.Element]{
		name:    config.StrategyField,
		enc:     enc,
		random:  matrix.NewRandomField,
		toField: func(mx *matrix.Matrix[fr.Element]) *matrix.Matrix[fr.Element] { return mx.Clone() },
		scalar: func(v uint64) fr.Element {
			var e fr.Element
			e.SetUint64(v)
			return e
		},
	}, nil
}

// Run executes the flow described by cfg.
func Run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, opts ...matrixcommit.Option) (*Report, error) {
	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	switch cfg.Strategy {
	case config.StrategyBytes:
		s, err := byteStrategy(p)
		if err != nil {
			return nil, err
		}
		return run(ctx, cfg, p, s, log, opts)
	case config.StrategyField:
		s, err := fieldStrategy(p)
		if err != nil {
			return nil, err
		}
		return run(ctx, cfg, p, s, log, opts)
	default:
		return nil, fmt.Errorf("%w: strategy %q", config.ErrInvalid, cfg.Strategy)
	}
}

func run[T matrix.Scalar](ctx context.Context, cfg *config.Config, p *matrix.Params, s *strategy[T], log *zap.SugaredLogger, opts []matrixcommit.Option) (*Report, error) {
	seed := []byte(cfg.Seed)
	prng, err := rng.New(seed)
	if err != nil {
		return nil, err
	}
	mx, err := s.random(p, prng)
	if err != nil {
		return nil, err
	}
	if err := s.enc.Encode(mx); err != nil {
		return nil, err
	}
	log.Infow("matrix encoded", "strategy", s.name, "shape", p.String())

	srs, err := pcs.Setup(p.M(), seed)
	if err != nil {
		return nil, err
	}
	scheme := pcs.KZG{}
	opts = append([]matrixcommit.Option{matrixcommit.WithWorkers(cfg.Workers), matrixcommit.WithLogger(log)}, opts...)
	fm := s.toField(mx)
	set, err := matrixcommit.CommitMatrix(ctx, scheme, srs, fm, opts...)
	if err != nil {
		return nil, err
	}
	log.Infow("rows committed", "rows", set.Len())

	rep := &Report{Strategy: s.name, Shape: p.String(), UpdatedColumn: cfg.UpdateColumn, ErasedRows: cfg.Erase}
	if rep.CellsVerified, err = openAll(set, scheme, srs, fm); err != nil {
		return nil, err
	}
	log.Infow("all cells opened and verified", "cells", rep.CellsVerified)

	if rep.UpdateConsistent, err = updateColumn(ctx, cfg, p, s, mx, scheme, srs, set); err != nil {
		return nil, err
	}
	log.Infow("column update propagated", "column", cfg.UpdateColumn, "consistent", rep.UpdateConsistent)

	if rep.Recovered, err = recoverRows(s.enc, mx, cfg.Erase); err != nil {
		return nil, err
	}
	log.Infow("erased rows reconstructed", "rows", cfg.Erase, "recovered", rep.Recovered)

	root := set.Root()
	rep.Root = hex.EncodeToString(root[:])
	return rep, nil
}

func openAll(set *matrixcommit.Set, scheme pcs.Scheme, srs *pcs.SRS, fm *matrix.Matrix[fr.Element]) (int, error) {
	vk := srs.VerifyingKey()
	commitments := set.Commitments()
	p := fm.Params()
	count := 0
	for r := 0; r < p.N(); r++ {
		for c := 0; c < p.M(); c++ {
			proof, err := set.Open(srs, r, c)
			if err != nil {
				return count, err
			}
			v, err := fm.Get(r, c)
			if err != nil {
				return count, err
			}
			if !matrixcommit.Verify(scheme, vk, commitments, r, c, v, proof) {
				return count, fmt.Errorf("scenario: opening of cell (%d,%d) rejected", r, c)
			}
			count++
		}
	}
	return count, nil
}

// updateColumn sets the systematic part of the column to 0..k-1, re-encodes
// it, applies the point updates and compares every row against a fresh commit.
func updateColumn[T matrix.Scalar](ctx context.Context, cfg *config.Config, p *matrix.Params, s *strategy[T], mx *matrix.Matrix[T], scheme pcs.Scheme, srs *pcs.SRS, set *matrixcommit.Set) (bool, error) {
	col := cfg.UpdateColumn
	before := s.toField(mx)
	oldCol, err := before.Col(col)
	if err != nil {
		return false, err
	}
	values := make([]T, p.K())
	for i := range values {
		values[i] = s.scalar(uint64(i))
	}
	if err := mx.UpdateColumn(col, values); err != nil {
		return false, err
	}
	if _, err := s.enc.EncodeColumn(mx, col); err != nil {
		return false, err
	}
	after := s.toField(mx)
	newCol, err := after.Col(col)
	if err != nil {
		return false, err
	}
	if err := set.UpdateAfterColumnChange(ctx, srs, col, oldCol, newCol); err != nil {
		return false, err
	}

	for r := 0; r < p.N(); r++ {
		row, err := after.Row(r)
		if err != nil {
			return false, err
		}
		fresh, err := scheme.Commit(srs, row)
		if err != nil {
			return false, err
		}
		got, err := set.Row(r)
		if err != nil {
			return false, err
		}
		if !fresh.Equal(got) {
			return false, nil
		}
	}
	return true, nil
}

func recoverRows[T matrix.Scalar](enc erasure.Encoder[T], mx *matrix.Matrix[T], erase []int) (bool, error) {
	shards := mx.Clone().Shards()
	for _, r := range erase {
		shards[r] = nil
	}
	if err := enc.Reconstruct(shards); err != nil {
		return false, err
	}
	got, err := matrix.FromRows(mx.Params(), shards)
	if err != nil {
		return false, err
	}
	return got.Equal(mx), nil
}
