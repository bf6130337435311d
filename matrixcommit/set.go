// Package matrixcommit keeps one row commitment per matrix row and propagates
// column changes into them. It never runs an erasure encoder: callers re-encode
// the touched column first and pass the full old and new columns.
package matrixcommit

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"dynamic-data/logging"
	"dynamic-data/matrix"
	"dynamic-data/pcs"
	"dynamic-data/prof"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrOutOfRange is returned for a row or column outside the committed matrix.
	ErrOutOfRange = errors.New("matrixcommit: index out of range")
	// ErrLengthMismatch is returned when a column, row or SRS has the wrong size.
	ErrLengthMismatch = errors.New("matrixcommit: length mismatch")
)

// Option configures CommitMatrix.
type Option func(*options)

type options struct {
	workers int
	log     *zap.SugaredLogger
	metrics *Metrics
}

// WithWorkers bounds the number of rows processed concurrently. Zero or less
// means GOMAXPROCS.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

// WithLogger sets the logger for commit and update events. nil means no logging.
func WithLogger(log *zap.SugaredLogger) Option { return func(o *options) { o.log = log } }

// WithMetrics records commits, updates and openings in m.
func WithMetrics(m *Metrics) Option { return func(o *options) { o.metrics = m } }

// Set is the ordered collection of the n row commitments of a matrix.
type Set struct {
	scheme  pcs.Scheme
	rows    []*pcs.RowCommitment
	workers int
	log     *zap.SugaredLogger
	metrics *Metrics
}

// CommitMatrix commits every row of mx independently. Each row is owned by one
// worker; the SRS is only read.
func CommitMatrix(ctx context.Context, scheme pcs.Scheme, srs *pcs.SRS, mx *matrix.Matrix[fr.Element], opts ...Option) (*Set, error) {
	defer prof.Track(time.Now(), "matrixcommit.CommitMatrix")
	o := options{log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.log == nil {
		o.log = logging.Nop()
	}
	p := mx.Params()
	if srs.M() != p.M() {
		return nil, fmt.Errorf("%w: SRS for m=%d, matrix is %s", ErrLengthMismatch, srs.M(), p)
	}

	start := time.Now()
	rows := make([]*pcs.RowCommitment, p.N())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for r := range rows {
		r := r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := mx.Row(r)
			if err != nil {
				return err
			}
			rc, err := scheme.Commit(srs, row)
			if err != nil {
				return fmt.Errorf("matrixcommit: row %d: %w", r, err)
			}
			rows[r] = rc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	o.metrics.incRowsCommitted(len(rows))
	o.metrics.observeCommit(elapsed.Seconds())
	o.log.Debugw("matrix committed", "shape", p.String(), "workers", o.workers, "elapsed", elapsed)

	return &Set{scheme: scheme, rows: rows, workers: o.workers, log: o.log, metrics: o.metrics}, nil
}

// Len is the number of row commitments (n).
func (s *Set) Len() int { return len(s.rows) }

// Row returns the prover state of row r.
func (s *Set) Row(r int) (*pcs.RowCommitment, error) {
	if err := s.checkRow(r); err != nil {
		return nil, err
	}
	return s.rows[r], nil
}

// Commitments exports the public commitments in row order.
func (s *Set) Commitments() []pcs.Commitment {
	out := make([]pcs.Commitment, len(s.rows))
	for i, rc := range s.rows {
		out[i] = rc.Commitment()
	}
	return out
}

// UpdateAfterColumnChange applies, for every row r, the point update of cell
// (r, col) from oldCol[r] to newCol[r]. newCol must already carry the
// re-encoded parity of the column.
//
// The change is all or nothing: everything is validated first, a context
// cancelled once the updates have started does not interrupt them, and if a
// row fails the rows already updated are reverted.
func (s *Set) UpdateAfterColumnChange(ctx context.Context, srs *pcs.SRS, col int, oldCol, newCol []fr.Element) error {
	defer prof.Track(time.Now(), "matrixcommit.UpdateAfterColumnChange")
	n := len(s.rows)
	if len(oldCol) != n || len(newCol) != n {
		return fmt.Errorf("%w: columns of %d and %d values, want n=%d", ErrLengthMismatch, len(oldCol), len(newCol), n)
	}
	if col < 0 || col >= srs.M() {
		return fmt.Errorf("%w: column %d, m=%d", ErrOutOfRange, col, srs.M())
	}
	for r, rc := range s.rows {
		if rc == nil || rc.M() != srs.M() {
			return fmt.Errorf("%w: row %d does not match SRS for m=%d", ErrLengthMismatch, r, srs.M())
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	applied := make([]bool, n)
	var g errgroup.Group
	g.SetLimit(s.workers)
	for r := range s.rows {
		r := r
		g.Go(func() error {
			if err := s.scheme.UpdateCell(srs, s.rows[r], col, oldCol[r], newCol[r]); err != nil {
				return fmt.Errorf("matrixcommit: update row %d: %w", r, err)
			}
			applied[r] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.revertColumn(srs, col, oldCol, newCol, applied)
		return err
	}
	for r := range s.rows {
		s.metrics.incPointUpdate(oldCol[r].Equal(&newCol[r]))
	}
	s.log.Debugw("column change applied", "column", col, "rows", n)
	return nil
}

func (s *Set) revertColumn(srs *pcs.SRS, col int, oldCol, newCol []fr.Element, applied []bool) {
	for r, ok := range applied {
		if !ok {
			continue
		}
		if err := s.scheme.UpdateCell(srs, s.rows[r], col, newCol[r], oldCol[r]); err != nil {
			s.log.Errorw("column change revert failed", "row", r, "column", col, "err", err)
		}
	}
}

// UpdateAfterRowChange applies a whole-row delta to row r.
func (s *Set) UpdateAfterRowChange(srs *pcs.SRS, r int, oldRow, newRow []fr.Element) error {
	if err := s.checkRow(r); err != nil {
		return err
	}
	if err := s.scheme.UpdateRow(srs, s.rows[r], oldRow, newRow); err != nil {
		return fmt.Errorf("matrixcommit: update row %d: %w", r, err)
	}
	s.metrics.incRowUpdate()
	s.log.Debugw("row change applied", "row", r)
	return nil
}

// Open proves cell (r, col).
func (s *Set) Open(srs *pcs.SRS, r, col int) (pcs.Proof, error) {
	if err := s.checkRow(r); err != nil {
		return pcs.Proof{}, err
	}
	proof, err := s.scheme.Open(srs, s.rows[r], col)
	if err != nil {
		return pcs.Proof{}, fmt.Errorf("matrixcommit: open (%d,%d): %w", r, col, err)
	}
	s.metrics.incOpenings()
	return proof, nil
}

// Verify checks an opening of cell (r, col) against the public commitments
// only. An out-of-range row is reported as false.
func Verify(scheme pcs.Scheme, vk *pcs.VerifyingKey, commitments []pcs.Commitment, r, col int, value fr.Element, proof pcs.Proof) bool {
	if r < 0 || r >= len(commitments) {
		return false
	}
	return scheme.Verify(vk, commitments[r], col, value, proof)
}

// Root is the Merkle root over the encoded row commitments.
func (s *Set) Root() Digest {
	return buildMerkleTree(s.leaves()).root()
}

// MembershipPath returns the sibling path proving that row r's commitment is
// under Root.
func (s *Set) MembershipPath(r int) ([][]byte, error) {
	if err := s.checkRow(r); err != nil {
		return nil, err
	}
	return buildMerkleTree(s.leaves()).path(r), nil
}

// VerifyMembership checks that c is the commitment of row r under root.
func VerifyMembership(root Digest, c pcs.Commitment, r int, path [][]byte) bool {
	if r < 0 {
		return false
	}
	return verifyPath(c.Bytes(), path, root, r)
}

func (s *Set) leaves() [][]byte {
	out := make([][]byte, len(s.rows))
	for i, rc := range s.rows {
		out[i] = rc.Commitment().Bytes()
	}
	return out
}

func (s *Set) checkRow(r int) error {
	if r < 0 || r >= len(s.rows) {
		return fmt.Errorf("%w: row %d, n=%d", ErrOutOfRange, r, len(s.rows))
	}
	return nil
}
