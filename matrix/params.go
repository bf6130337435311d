package matrix

import "fmt"

// Params fixes the shape of an erasure-coded matrix:
//   - k: number of systematic (data) rows
//   - n: number of data + parity rows
//   - m: number of columns
//
// Params is immutable; matrices built from the same Params share the pointer.
type Params struct {
	k, n, m int
}

// NewParams validates and returns a parameter triple.
func NewParams(k, n, m int) (*Params, error) {
	if k <= 0 || n <= 0 || m <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive (k=%d n=%d m=%d)", ErrInvalidParams, k, n, m)
	}
	if k >= n {
		return nil, fmt.Errorf("%w: k=%d must be less than n=%d", ErrInvalidParams, k, n)
	}
	return &Params{k: k, n: n, m: m}, nil
}

// K is the number of systematic rows.
func (p *Params) K() int { return p.k }

// N is the total number of rows.
func (p *Params) N() int { return p.n }

// M is the number of columns.
func (p *Params) M() int { return p.m }

// P is the number of parity rows, n-k.
func (p *Params) P() int { return p.n - p.k }

// Equal reports whether both triples describe the same shape.
func (p *Params) Equal(o *Params) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.k == o.k && p.n == o.n && p.m == o.m
}

func (p *Params) String() string {
	return fmt.Sprintf("k=%d n=%d m=%d", p.k, p.n, p.m)
}

// CheckRow returns ErrOutOfRange unless 0 <= r < n.
func (p *Params) CheckRow(r int) error {
	if r < 0 || r >= p.n {
		return fmt.Errorf("%w: row %d, must be < %d", ErrOutOfRange, r, p.n)
	}
	return nil
}

// CheckCol returns ErrOutOfRange unless 0 <= c < m.
func (p *Params) CheckCol(c int) error {
	if c < 0 || c >= p.m {
		return fmt.Errorf("%w: col %d, must be < %d", ErrOutOfRange, c, p.m)
	}
	return nil
}

// CheckCell checks both indices.
func (p *Params) CheckCell(r, c int) error {
	if err := p.CheckRow(r); err != nil {
		return err
	}
	return p.CheckCol(c)
}
