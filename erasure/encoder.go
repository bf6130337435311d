// Package erasure protects every column of a matrix with a systematic
// Reed–Solomon code: rows [0,k) are the data, rows [k,n) the parity. Two
// strategies share one contract: ByteEncoder over GF(2^8) and FieldEncoder over
// the BLS12-381 scalar field, evaluating on the same kind of domain the row
// commitments use.
package erasure

import (
	"errors"
	"fmt"

	"dynamic-data/matrix"
)

var (
	// ErrInvalidParams is returned when an encoder cannot be built for the parameters.
	ErrInvalidParams = errors.New("erasure: invalid parameters")
	// ErrTooManyErasures is returned when more than n-k rows are missing. Nothing is
	// written when it is returned.
	ErrTooManyErasures = errors.New("erasure: too many erasures")
)

// Encoder fills and repairs the parity rows of a matrix over scalar type T.
// Implementations never write rows [0,k) except through UpdateCell.
type Encoder[T matrix.Scalar] interface {
	// Params returns the shape the encoder was built for.
	Params() *matrix.Params
	// Encode recomputes the parity rows of every column.
	Encode(mx *matrix.Matrix[T]) error
	// EncodeColumn recomputes the parity of column c and returns the full column.
	EncodeColumn(mx *matrix.Matrix[T], c int) ([]T, error)
	// Reconstruct fills the nil shards (erased rows) in place.
	Reconstruct(shards [][]T) error
	// Verify reports whether the parity rows match the systematic rows.
	Verify(mx *matrix.Matrix[T]) (bool, error)
}

// CellUpdater is implemented by encoders able to patch the parity of one
// column for a single systematic change, in O(n-k).
type CellUpdater[T matrix.Scalar] interface {
	// UpdateCell writes v at (r, c), r < k, and adjusts the parity of column c.
	UpdateCell(mx *matrix.Matrix[T], r, c int, v T) error
}

// ReconstructColumn repairs a single column given as n optional symbols; nil
// marks an erasure. On success every entry is non-nil.
func ReconstructColumn[T matrix.Scalar](enc Encoder[T], col []*T) error {
	shards := make([][]T, len(col))
	for i, v := range col {
		if v != nil {
			shards[i] = []T{*v}
		}
	}
	if err := enc.Reconstruct(shards); err != nil {
		return err
	}
	for i := range col {
		if col[i] == nil {
			v := shards[i][0]
			col[i] = &v
		}
	}
	return nil
}

func checkMatrix[T matrix.Scalar](p *matrix.Params, mx *matrix.Matrix[T]) error {
	if mx == nil {
		return fmt.Errorf("%w: nil matrix", matrix.ErrLengthMismatch)
	}
	if !p.Equal(mx.Params()) {
		return fmt.Errorf("%w: matrix is %s, encoder is %s", matrix.ErrLengthMismatch, mx.Params(), p)
	}
	return nil
}

// checkShards validates the erasure pattern and returns the indices of the
// present and missing shards together with the common shard length.
func checkShards[T matrix.Scalar](p *matrix.Params, shards [][]T) (present, missing []int, size int, err error) {
	if len(shards) != p.N() {
		err = fmt.Errorf("%w: got %d shards, want n=%d", matrix.ErrLengthMismatch, len(shards), p.N())
		return
	}
	size = -1
	for i, s := range shards {
		if len(s) == 0 {
			missing = append(missing, i)
			continue
		}
		if size >= 0 && len(s) != size {
			err = fmt.Errorf("%w: shard %d has %d symbols, want %d", matrix.ErrLengthMismatch, i, len(s), size)
			return
		}
		size = len(s)
		present = append(present, i)
	}
	if len(missing) > p.P() {
		err = fmt.Errorf("%w: %d rows missing, at most %d recoverable", ErrTooManyErasures, len(missing), p.P())
	}
	return
}
