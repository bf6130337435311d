package pcs

import (
	"fmt"

	"dynamic-data/internal/fpoly"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Commitment is a G1 element binding one row polynomial.
type Commitment struct {
	p bls12381.G1Affine
}

// CommitmentFromBytes decodes the compressed form produced by Bytes.
func CommitmentFromBytes(b []byte) (Commitment, error) {
	var c Commitment
	if _, err := c.p.SetBytes(b); err != nil {
		return Commitment{}, fmt.Errorf("pcs: decode commitment: %w", err)
	}
	return c, nil
}

// Equal reports whether both commitments are the same group element.
func (c Commitment) Equal(o Commitment) bool { return c.p.Equal(&o.p) }

// Bytes is the 48-byte compressed encoding.
func (c Commitment) Bytes() []byte {
	b := c.p.Bytes()
	return b[:]
}

// Combine returns c + o, the commitment to the sum of both polynomials.
func (c Commitment) Combine(o Commitment) Commitment {
	var j bls12381.G1Jac
	j.FromAffine(&c.p)
	j.AddMixed(&o.p)
	var out Commitment
	out.p.FromJacobian(&j)
	return out
}

func (c Commitment) String() string { return fmt.Sprintf("%x", c.Bytes()) }

// Proof is an opening witness [q(τ)]G1 for one cell.
type Proof struct {
	h bls12381.G1Affine
}

// ProofFromBytes decodes the compressed form produced by Bytes.
func ProofFromBytes(b []byte) (Proof, error) {
	var p Proof
	if _, err := p.h.SetBytes(b); err != nil {
		return Proof{}, fmt.Errorf("pcs: decode proof: %w", err)
	}
	return p, nil
}

// Bytes is the 48-byte compressed encoding of the quotient commitment.
func (p Proof) Bytes() []byte {
	b := p.h.Bytes()
	return b[:]
}

// RowCommitment is the prover-side state of one row: its polynomial in
// evaluation form over the padded row domain, the public commitment and the
// accumulated randomness term (zero for plain KZG).
type RowCommitment struct {
	domain     *fpoly.Domain
	evals      []fr.Element
	commitment Commitment
	randomness fr.Element
}

// Commitment returns the public part.
func (rc *RowCommitment) Commitment() Commitment { return rc.commitment }

// Randomness returns the accumulated blinding term.
func (rc *RowCommitment) Randomness() fr.Element { return rc.randomness }

// M is the row length the commitment was made for.
func (rc *RowCommitment) M() int { return rc.domain.Size() }

// Evaluations returns a copy of the m committed row values.
func (rc *RowCommitment) Evaluations() []fr.Element {
	out := make([]fr.Element, rc.domain.Size())
	copy(out, rc.evals)
	return out
}

// Coefficients returns the monomial coefficients of the committed polynomial.
func (rc *RowCommitment) Coefficients() ([]fr.Element, error) {
	return rc.domain.Interpolate(rc.evals)
}

// Equal compares the stored polynomial, the commitment and the randomness.
func (rc *RowCommitment) Equal(o *RowCommitment) bool {
	if len(rc.evals) != len(o.evals) || !rc.commitment.Equal(o.commitment) || !rc.randomness.Equal(&o.randomness) {
		return false
	}
	for i := range rc.evals {
		if !rc.evals[i].Equal(&o.evals[i]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (rc *RowCommitment) Clone() *RowCommitment {
	out := *rc
	out.evals = make([]fr.Element, len(rc.evals))
	copy(out.evals, rc.evals)
	return &out
}
