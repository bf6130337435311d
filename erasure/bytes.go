package erasure

import (
	"errors"
	"fmt"

	"dynamic-data/matrix"

	"github.com/klauspost/reedsolomon"
)

// maxByteShards is the GF(2^8) code length limit.
const maxByteShards = 256

// ByteEncoder is the systematic Reed–Solomon code over GF(2^8). Each column is an
// independent codeword of length n and dimension k; rows are the shards.
type ByteEncoder struct {
	params *matrix.Params
	rs     reedsolomon.Encoder
}

// NewByteEncoder builds the GF(2^8) code for p. n may not exceed 256.
func NewByteEncoder(p *matrix.Params) (*ByteEncoder, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil params", ErrInvalidParams)
	}
	if p.K() >= p.N() {
		return nil, fmt.Errorf("%w: k=%d must be less than n=%d", ErrInvalidParams, p.K(), p.N())
	}
	if p.N() > maxByteShards {
		return nil, fmt.Errorf("%w: n=%d exceeds the GF(2^8) limit of %d", ErrInvalidParams, p.N(), maxByteShards)
	}
	rs, err := reedsolomon.New(p.K(), p.P())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return &ByteEncoder{params: p, rs: rs}, nil
}

// Params returns the matrix shape the encoder was built for.
func (e *ByteEncoder) Params() *matrix.Params { return e.params }

// Encode fills every parity row in one pass; each row is one shard of m bytes.
func (e *ByteEncoder) Encode(mx *matrix.Matrix[uint8]) error {
	if err := checkMatrix(e.params, mx); err != nil {
		return err
	}
	if err := e.rs.Encode(mx.Shards()); err != nil {
		return fmt.Errorf("erasure: encode: %w", err)
	}
	return nil
}

// EncodeColumn encodes column c as a stripe of one-byte shards and writes the
// parity back. Cost does not depend on m.
func (e *ByteEncoder) EncodeColumn(mx *matrix.Matrix[uint8], c int) ([]uint8, error) {
	if err := checkMatrix(e.params, mx); err != nil {
		return nil, err
	}
	if err := e.params.CheckCol(c); err != nil {
		return nil, fmt.Errorf("erasure: encode column: %w", err)
	}
	rows := mx.Shards()
	k, n := e.params.K(), e.params.N()
	stripe := make([][]byte, n)
	for i := 0; i < n; i++ {
		if i < k {
			stripe[i] = []byte{rows[i][c]}
		} else {
			stripe[i] = []byte{0}
		}
	}
	if err := e.rs.Encode(stripe); err != nil {
		return nil, fmt.Errorf("erasure: encode column %d: %w", c, err)
	}
	col := make([]uint8, n)
	for i := 0; i < n; i++ {
		col[i] = stripe[i][0]
		if i >= k {
			rows[i][c] = col[i]
		}
	}
	return col, nil
}

// Reconstruct fills the missing (nil or empty) shards in place.
func (e *ByteEncoder) Reconstruct(shards [][]uint8) error {
	if _, _, _, err := checkShards(e.params, shards); err != nil {
		return err
	}
	if err := e.rs.Reconstruct(shards); err != nil {
		if errors.Is(err, reedsolomon.ErrTooFewShards) {
			return fmt.Errorf("%w: %v", ErrTooManyErasures, err)
		}
		return fmt.Errorf("erasure: reconstruct: %w", err)
	}
	return nil
}

// Verify reports whether the parity rows are the code image of the data rows.
func (e *ByteEncoder) Verify(mx *matrix.Matrix[uint8]) (bool, error) {
	if err := checkMatrix(e.params, mx); err != nil {
		return false, err
	}
	ok, err := e.rs.Verify(mx.Shards())
	if err != nil {
		return false, fmt.Errorf("erasure: verify: %w", err)
	}
	return ok, nil
}

// UpdateCell writes v at systematic cell (r, c) and patches the column parity
// from the old and new data byte only.
func (e *ByteEncoder) UpdateCell(mx *matrix.Matrix[uint8], r, c int, v uint8) error {
	if err := checkMatrix(e.params, mx); err != nil {
		return err
	}
	if err := e.params.CheckCell(r, c); err != nil {
		return fmt.Errorf("erasure: update cell: %w", err)
	}
	k, n := e.params.K(), e.params.N()
	if r >= k {
		return fmt.Errorf("erasure: update cell: %w: row %d is parity", matrix.ErrOutOfRange, r)
	}
	rows := mx.Shards()
	if rows[r][c] == v {
		return nil
	}
	stripe := make([][]byte, n)
	for i := 0; i < n; i++ {
		stripe[i] = []byte{rows[i][c]}
	}
	changed := make([][]byte, k)
	changed[r] = []byte{v}
	if err := e.rs.Update(stripe, changed); err != nil {
		return fmt.Errorf("erasure: update cell (%d,%d): %w", r, c, err)
	}
	rows[r][c] = v
	for i := k; i < n; i++ {
		rows[i][c] = stripe[i][0]
	}
	return nil
}
