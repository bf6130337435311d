package erasure

import (
	"fmt"

	"dynamic-data/internal/fpoly"
	"dynamic-data/matrix"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// FieldEncoder is Reed–Solomon in evaluation form over Fr. The k data values of
// a column are the evaluations of a polynomial of degree < k at the first k
// points of an n-position domain; the parity values are its evaluations at the
// remaining n-k points.
type FieldEncoder struct {
	params *matrix.Params
	domain *fpoly.Domain
	// table[i][j] is the weight of data row j in parity row k+i.
	table [][]fr.Element
}

// NewFieldEncoder precomputes the (n-k)×k parity table for p.
func NewFieldEncoder(p *matrix.Params) (*FieldEncoder, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil params", ErrInvalidParams)
	}
	if p.K() >= p.N() {
		return nil, fmt.Errorf("%w: k=%d must be less than n=%d", ErrInvalidParams, p.K(), p.N())
	}
	d, err := fpoly.NewDomain(p.N())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	points := d.Elements()
	ip, err := fpoly.NewInterpolator(points[:p.K()])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return &FieldEncoder{
		params: p,
		domain: d,
		table:  ip.Table(points[p.K():]),
	}, nil
}

func (e *FieldEncoder) Params() *matrix.Params { return e.params }

// Domain returns the column evaluation domain (n positions).
func (e *FieldEncoder) Domain() *fpoly.Domain { return e.domain }

// Encode overwrites the parity rows of mx from its k data rows.
func (e *FieldEncoder) Encode(mx *matrix.Matrix[fr.Element]) error {
	if err := checkMatrix(e.params, mx); err != nil {
		return err
	}
	rows := mx.Shards()
	k := e.params.K()
	var t fr.Element
	for i, coeffs := range e.table {
		out := rows[k+i]
		for c := range out {
			out[c].SetZero()
		}
		for j := 0; j < k; j++ {
			w := &coeffs[j]
			for c, v := range rows[j] {
				t.Mul(w, &v)
				out[c].Add(&out[c], &t)
			}
		}
	}
	return nil
}

// EncodeColumn recomputes the parity of column c in place and returns the
// full column.
func (e *FieldEncoder) EncodeColumn(mx *matrix.Matrix[fr.Element], c int) ([]fr.Element, error) {
	if err := checkMatrix(e.params, mx); err != nil {
		return nil, err
	}
	if err := e.params.CheckCol(c); err != nil {
		return nil, fmt.Errorf("erasure: encode column: %w", err)
	}
	rows := mx.Shards()
	k, n := e.params.K(), e.params.N()
	col := make([]fr.Element, n)
	for j := 0; j < k; j++ {
		col[j] = rows[j][c]
	}
	for i, coeffs := range e.table {
		col[k+i] = fpoly.Combine(coeffs, col[:k])
		rows[k+i][c] = col[k+i]
	}
	return col, nil
}

// Reconstruct interpolates through the first k surviving rows and evaluates at
// every erased position.
func (e *FieldEncoder) Reconstruct(shards [][]fr.Element) error {
	present, missing, size, err := checkShards(e.params, shards)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	k := e.params.K()
	nodes := make([]fr.Element, k)
	for j := 0; j < k; j++ {
		nodes[j] = e.domain.Element(present[j])
	}
	ip, err := fpoly.NewInterpolator(nodes)
	if err != nil {
		return fmt.Errorf("erasure: reconstruct: %w", err)
	}
	values := make([]fr.Element, k)
	recovered := make([][]fr.Element, len(missing))
	for t, idx := range missing {
		coeffs := ip.Coefficients(e.domain.Element(idx))
		out := make([]fr.Element, size)
		for c := 0; c < size; c++ {
			for j := 0; j < k; j++ {
				values[j] = shards[present[j]][c]
			}
			out[c] = fpoly.Combine(coeffs, values)
		}
		recovered[t] = out
	}
	for t, idx := range missing {
		shards[idx] = recovered[t]
	}
	return nil
}

// Verify reports whether the parity rows of mx match its data rows.
func (e *FieldEncoder) Verify(mx *matrix.Matrix[fr.Element]) (bool, error) {
	if err := checkMatrix(e.params, mx); err != nil {
		return false, err
	}
	rows := mx.Shards()
	k := e.params.K()
	values := make([]fr.Element, k)
	for c := 0; c < e.params.M(); c++ {
		for j := 0; j < k; j++ {
			values[j] = rows[j][c]
		}
		for i, coeffs := range e.table {
			want := fpoly.Combine(coeffs, values)
			if !want.Equal(&rows[k+i][c]) {
				return false, nil
			}
		}
	}
	return true, nil
}

// UpdateCell writes v at systematic cell (r, c) and adds table[i][r]·(v-old) to
// each parity cell of the column.
func (e *FieldEncoder) UpdateCell(mx *matrix.Matrix[fr.Element], r, c int, v fr.Element) error {
	if err := checkMatrix(e.params, mx); err != nil {
		return err
	}
	if err := e.params.CheckCell(r, c); err != nil {
		return fmt.Errorf("erasure: update cell: %w", err)
	}
	k := e.params.K()
	if r >= k {
		return fmt.Errorf("erasure: update cell: %w: row %d is parity", matrix.ErrOutOfRange, r)
	}
	rows := mx.Shards()
	var delta, t fr.Element
	delta.Sub(&v, &rows[r][c])
	if delta.IsZero() {
		return nil
	}
	rows[r][c] = v
	for i, coeffs := range e.table {
		t.Mul(&coeffs[r], &delta)
		rows[k+i][c].Add(&rows[k+i][c], &t)
	}
	return nil
}
