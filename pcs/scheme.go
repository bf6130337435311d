// Package pcs commits to matrix rows as univariate polynomials over the
// BLS12-381 scalar field. A row of m values is read as the evaluations of a
// polynomial on the first m points of a power-of-two domain; a commitment binds
// that polynomial and every cell can be opened and checked on its own.
//
// Besides commit/open/verify the scheme supports two in-place updates of an
// existing RowCommitment: a whole-row delta (interpolate and commit the
// difference) and a single-cell point update (one scalar multiplication of a
// Lagrange key element). Both leave the row in the state a fresh commit of the
// new values would produce.
package pcs

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

var (
	// ErrSetup is returned when public parameters cannot be generated.
	ErrSetup = errors.New("pcs: setup failed")
	// ErrOutOfRange is returned for a column index outside [0, m).
	ErrOutOfRange = errors.New("pcs: index out of range")
	// ErrLengthMismatch is returned when a row or key does not match the SRS size.
	ErrLengthMismatch = errors.New("pcs: length mismatch")
	// ErrNotImplemented marks declared but unsupported operations.
	ErrNotImplemented = errors.New("pcs: not implemented")
)

// Scheme is a row polynomial commitment scheme with homomorphic updates.
// Verification only needs the VerifyingKey, never the rows.
type Scheme interface {
	Commit(srs *SRS, row []fr.Element) (*RowCommitment, error)
	Open(srs *SRS, rc *RowCommitment, col int) (Proof, error)
	Verify(vk *VerifyingKey, c Commitment, col int, value fr.Element, proof Proof) bool

	// UpdateRow moves rc from oldRow to newRow by committing the difference.
	UpdateRow(srs *SRS, rc *RowCommitment, oldRow, newRow []fr.Element) error
	// UpdateCell moves cell idx of rc from oldV to newV. It is a no-op when the
	// two values are equal.
	UpdateCell(srs *SRS, rc *RowCommitment, idx int, oldV, newV fr.Element) error

	BatchOpen(srs *SRS, rows []*RowCommitment, cells []Cell) (Proof, error)
	BatchVerify(vk *VerifyingKey, commitments []Commitment, cells []Cell, values []fr.Element, proof Proof) (bool, error)
}

// Cell addresses one entry of a committed matrix.
type Cell struct {
	Row, Col int
}
