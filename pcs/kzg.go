package pcs

import (
	"fmt"
	"time"

	"dynamic-data/prof"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
)

// KZG is the non-hiding KZG10 scheme over BLS12-381.
type KZG struct{}

var _ Scheme = KZG{}

// Commit binds row, read as evaluations on the row domain. Rows are committed
// against the Lagrange key so no interpolation is needed.
func (KZG) Commit(srs *SRS, row []fr.Element) (*RowCommitment, error) {
	defer prof.Track(time.Now(), "pcs.Commit")
	if len(row) != srs.M() {
		return nil, fmt.Errorf("%w: row has %d values, want m=%d", ErrLengthMismatch, len(row), srs.M())
	}
	evals := make([]fr.Element, srs.domain.Cardinality())
	copy(evals, row)
	digest, err := kzg.Commit(evals, srs.lagrange)
	if err != nil {
		return nil, fmt.Errorf("pcs: commit: %w", err)
	}
	return &RowCommitment{
		domain:     srs.domain,
		evals:      evals,
		commitment: Commitment{p: digest},
	}, nil
}

// Open proves the value of column col.
func (KZG) Open(srs *SRS, rc *RowCommitment, col int) (Proof, error) {
	if col < 0 || col >= srs.M() {
		return Proof{}, fmt.Errorf("%w: column %d, m=%d", ErrOutOfRange, col, srs.M())
	}
	if err := checkRow(srs, rc); err != nil {
		return Proof{}, err
	}
	coeffs, err := srs.domain.Interpolate(rc.evals)
	if err != nil {
		return Proof{}, fmt.Errorf("pcs: open: %w", err)
	}
	op, err := kzg.Open(coeffs, srs.domain.Element(col), srs.monomial)
	if err != nil {
		return Proof{}, fmt.Errorf("pcs: open column %d: %w", col, err)
	}
	return Proof{h: op.H}, nil
}

// Verify checks that c opens to value at column col. Any failure, including
// an out-of-range column, is reported as false.
func (KZG) Verify(vk *VerifyingKey, c Commitment, col int, value fr.Element, proof Proof) bool {
	if vk == nil || col < 0 || col >= vk.M() {
		return false
	}
	op := kzg.OpeningProof{H: proof.h, ClaimedValue: value}
	return kzg.Verify(&c.p, &op, vk.point(col), vk.vk) == nil
}

func (KZG) BatchOpen(*SRS, []*RowCommitment, []Cell) (Proof, error) {
	return Proof{}, fmt.Errorf("%w: batch open", ErrNotImplemented)
}

func (KZG) BatchVerify(*VerifyingKey, []Commitment, []Cell, []fr.Element, Proof) (bool, error) {
	return false, fmt.Errorf("%w: batch verify", ErrNotImplemented)
}

func checkRow(srs *SRS, rc *RowCommitment) error {
	if rc == nil {
		return fmt.Errorf("%w: nil row commitment", ErrLengthMismatch)
	}
	if len(rc.evals) != srs.domain.Cardinality() {
		return fmt.Errorf("%w: row commitment over %d points, SRS over %d", ErrLengthMismatch, len(rc.evals), srs.domain.Cardinality())
	}
	return nil
}
