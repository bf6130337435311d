package pcs

import (
	"fmt"
	"math/big"
	"time"

	"dynamic-data/prof"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
)

// UpdateRow applies newRow-oldRow to rc: the difference is interpolated,
// committed with the monomial key and added to the commitment; the stored
// evaluations and randomness absorb the same delta. Cost does not depend on how
// many entries changed.
func (KZG) UpdateRow(srs *SRS, rc *RowCommitment, oldRow, newRow []fr.Element) error {
	defer prof.Track(time.Now(), "pcs.UpdateRow")
	if err := checkRow(srs, rc); err != nil {
		return err
	}
	if len(oldRow) != srs.M() || len(newRow) != srs.M() {
		return fmt.Errorf("%w: rows of %d and %d values, want m=%d", ErrLengthMismatch, len(oldRow), len(newRow), srs.M())
	}
	diff := make([]fr.Element, len(newRow))
	changed := false
	for i := range diff {
		diff[i].Sub(&newRow[i], &oldRow[i])
		changed = changed || !diff[i].IsZero()
	}
	if !changed {
		return nil
	}

	start := time.Now()
	coeffs, err := srs.domain.Interpolate(diff)
	if err != nil {
		return fmt.Errorf("pcs: update row: %w", err)
	}
	prof.Track(start, "pcs.UpdateRow.interpolate")

	digest, err := kzg.Commit(coeffs, srs.monomial)
	if err != nil {
		return fmt.Errorf("pcs: update row: %w", err)
	}
	// Plain KZG carries no blinding, so the delta randomness is zero.
	var deltaRandomness fr.Element

	rc.commitment = rc.commitment.Combine(Commitment{p: digest})
	for i := range diff {
		rc.evals[i].Add(&rc.evals[i], &diff[i])
	}
	rc.randomness.Add(&rc.randomness, &deltaRandomness)
	return nil
}

// UpdateCell moves cell idx from oldV to newV with a single scalar
// multiplication of the Lagrange key element at idx. Equal values leave rc
// untouched.
func (KZG) UpdateCell(srs *SRS, rc *RowCommitment, idx int, oldV, newV fr.Element) error {
	if idx < 0 || idx >= srs.M() {
		return fmt.Errorf("%w: column %d, m=%d", ErrOutOfRange, idx, srs.M())
	}
	if err := checkRow(srs, rc); err != nil {
		return err
	}
	var delta fr.Element
	delta.Sub(&newV, &oldV)
	if delta.IsZero() {
		return nil
	}
	var step Commitment
	step.p.ScalarMultiplication(&srs.lagrange.G1[idx], delta.BigInt(new(big.Int)))
	rc.commitment = rc.commitment.Combine(step)
	rc.evals[idx].Add(&rc.evals[idx], &delta)
	return nil
}
