package matrix

import (
	"fmt"
	"io"

	"dynamic-data/internal/rng"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Scalar is the cell type of a matrix: bytes for the GF(2^8) code, field
// elements for the evaluation code and the commitments.
type Scalar interface {
	uint8 | fr.Element
}

// Matrix is an n×m grid stored as n rows. Rows [0,k) hold source data, rows
// [k,n) hold parity derived from them column by column.
type Matrix[T Scalar] struct {
	params *Params
	rows   [][]T
}

// New returns a zero matrix shaped by p.
func New[T Scalar](p *Params) *Matrix[T] {
	rows := make([][]T, p.n)
	for i := range rows {
		rows[i] = make([]T, p.m)
	}
	return &Matrix[T]{params: p, rows: rows}
}

// FromRows copies rows into a new matrix after checking the shape.
func FromRows[T Scalar](p *Params, rows [][]T) (*Matrix[T], error) {
	if len(rows) != p.n {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrLengthMismatch, len(rows), p.n)
	}
	out := New[T](p)
	for i, row := range rows {
		if len(row) != p.m {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrLengthMismatch, i, len(row), p.m)
		}
		copy(out.rows[i], row)
	}
	return out, nil
}

// NewRandom fills the systematic rows with values drawn from sample and leaves
// the parity rows zero, i.e. the pre-encode state.
func NewRandom[T Scalar](p *Params, sample func() (T, error)) (*Matrix[T], error) {
	out := New[T](p)
	for i := 0; i < p.k; i++ {
		for j := 0; j < p.m; j++ {
			v, err := sample()
			if err != nil {
				return nil, fmt.Errorf("matrix: random cell (%d,%d): %w", i, j, err)
			}
			out.rows[i][j] = v
		}
	}
	return out, nil
}

// NewRandomBytes draws the systematic rows from r. A nil r uses a fresh PRNG.
func NewRandomBytes(p *Params, r io.Reader) (*Matrix[uint8], error) {
	r, err := orFresh(r)
	if err != nil {
		return nil, err
	}
	return NewRandom(p, func() (uint8, error) { return rng.ReadByte(r) })
}

// NewRandomField draws the systematic rows as uniform field elements from r.
// A nil r uses a fresh PRNG.
func NewRandomField(p *Params, r io.Reader) (*Matrix[fr.Element], error) {
	r, err := orFresh(r)
	if err != nil {
		return nil, err
	}
	return NewRandom(p, func() (fr.Element, error) { return rng.ReadFieldElement(r) })
}

func orFresh(r io.Reader) (io.Reader, error) {
	if r != nil {
		return r, nil
	}
	return rng.New(nil)
}

// FromBytes embeds a byte matrix into the field, one element per byte. The
// result shares the Params of b.
func FromBytes(b *Matrix[uint8]) *Matrix[fr.Element] {
	out := New[fr.Element](b.params)
	for i, row := range b.rows {
		for j, v := range row {
			out.rows[i][j].SetUint64(uint64(v))
		}
	}
	return out
}

// Params returns the shared shape descriptor.
func (mx *Matrix[T]) Params() *Params { return mx.params }

// Get returns cell (r, c).
func (mx *Matrix[T]) Get(r, c int) (T, error) {
	if err := mx.params.CheckCell(r, c); err != nil {
		var zero T
		return zero, err
	}
	return mx.rows[r][c], nil
}

// Set overwrites cell (r, c). Writing a parity cell breaks the encoding
// invariant until the column is re-encoded; callers own that.
func (mx *Matrix[T]) Set(r, c int, v T) error {
	if err := mx.params.CheckCell(r, c); err != nil {
		return err
	}
	mx.rows[r][c] = v
	return nil
}

// Row returns a copy of row r.
func (mx *Matrix[T]) Row(r int) ([]T, error) {
	if err := mx.params.CheckRow(r); err != nil {
		return nil, err
	}
	out := make([]T, mx.params.m)
	copy(out, mx.rows[r])
	return out, nil
}

// Col returns a copy of column c, all n entries.
func (mx *Matrix[T]) Col(c int) ([]T, error) {
	if err := mx.params.CheckCol(c); err != nil {
		return nil, err
	}
	out := make([]T, mx.params.n)
	for i := range mx.rows {
		out[i] = mx.rows[i][c]
	}
	return out, nil
}

// Shards exposes the live row slices. It exists for encoders, which own the
// matrix exclusively for the duration of an encode call.
func (mx *Matrix[T]) Shards() [][]T { return mx.rows }

// UpdateColumn replaces the k systematic entries of column c. Parity entries of
// the column are left stale until the column is re-encoded.
func (mx *Matrix[T]) UpdateColumn(c int, values []T) error {
	if len(values) != mx.params.k {
		return fmt.Errorf("%w: new column has %d entries, want k=%d", ErrLengthMismatch, len(values), mx.params.k)
	}
	if err := mx.params.CheckCol(c); err != nil {
		return err
	}
	for i := 0; i < mx.params.k; i++ {
		mx.rows[i][c] = values[i]
	}
	return nil
}

// Clone returns a deep copy sharing the same Params.
func (mx *Matrix[T]) Clone() *Matrix[T] {
	out := New[T](mx.params)
	for i := range mx.rows {
		copy(out.rows[i], mx.rows[i])
	}
	return out
}

// Equal reports whether both matrices have the same shape and cells.
func (mx *Matrix[T]) Equal(o *Matrix[T]) bool {
	if !mx.params.Equal(o.params) {
		return false
	}
	for i := range mx.rows {
		for j := range mx.rows[i] {
			if mx.rows[i][j] != o.rows[i][j] {
				return false
			}
		}
	}
	return true
}
