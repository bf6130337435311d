package pcs

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"time"

	"dynamic-data/internal/fpoly"
	"dynamic-data/internal/rng"
	"dynamic-data/prof"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
)

const tauLabel = "dynamic-data/pcs/kzg/tau"

// SRS holds the public parameters for rows of length m.
//
// The commitment key comes in two bases over the same trapdoor τ: monomial
// powers [τ^i]G1, used to open and to commit delta polynomials, and the
// Lagrange key [L_i(τ)]G1 over the row domain, used to commit rows straight
// from their evaluations and for point updates.
type SRS struct {
	domain   *fpoly.Domain
	monomial kzg.ProvingKey
	lagrange kzg.ProvingKey
	vk       VerifyingKey
}

// VerifyingKey is the verifier half of the SRS. It carries only the domain
// generator; column c is checked at ω^c.
type VerifyingKey struct {
	m     int
	omega fr.Element
	vk    kzg.VerifyingKey
}

// Setup generates parameters for rows of m values. A non-empty seed makes the
// trapdoor, and therefore every commitment, reproducible; with an empty seed τ
// is drawn from fresh randomness and forgotten.
func Setup(m int, seed []byte) (*SRS, error) {
	defer prof.Track(time.Now(), "pcs.Setup")
	if m <= 0 {
		return nil, fmt.Errorf("%w: m=%d", ErrSetup, m)
	}
	d, err := fpoly.NewDomain(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	tau, err := trapdoor(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	basis, err := d.LagrangeBasisAt(tau)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	srs, err := kzg.NewSRS(uint64(d.Cardinality()), tau.BigInt(new(big.Int)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	_, _, g1, _ := bls12381.Generators()
	return &SRS{
		domain:   d,
		monomial: srs.Pk,
		lagrange: kzg.ProvingKey{G1: bls12381.BatchScalarMultiplicationG1(&g1, basis)},
		vk:       VerifyingKey{m: m, omega: d.Generator(), vk: srs.Vk},
	}, nil
}

func trapdoor(seed []byte) (fr.Element, error) {
	if len(seed) > 0 {
		return rng.DeriveFieldElement(seed, tauLabel), nil
	}
	r, err := rng.New(nil)
	if err != nil {
		return fr.Element{}, err
	}
	return rng.ReadFieldElement(r)
}

// M is the row length the SRS was generated for.
func (s *SRS) M() int { return s.domain.Size() }

// Domain returns the row evaluation domain; column c is opened at Element(c).
func (s *SRS) Domain() *fpoly.Domain { return s.domain }

// VerifyingKey returns the verifier half, safe to hand to other processes.
func (s *SRS) VerifyingKey() *VerifyingKey { return &s.vk }

// M is the row length the key verifies openings for.
func (vk *VerifyingKey) M() int { return vk.m }

// point returns ω^col.
func (vk *VerifyingKey) point(col int) fr.Element {
	var x fr.Element
	x.Exp(vk.omega, big.NewInt(int64(col)))
	return x
}

// WriteTo encodes the key as the row length followed by the KZG verifying key.
func (vk *VerifyingKey) WriteTo(w io.Writer) (int64, error) {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(vk.m))
	n, err := w.Write(hdr[:])
	if err != nil {
		return int64(n), fmt.Errorf("pcs: write verifying key: %w", err)
	}
	k, err := vk.vk.WriteTo(w)
	if err != nil {
		return int64(n) + k, fmt.Errorf("pcs: write verifying key: %w", err)
	}
	return int64(n) + k, nil
}

// ReadVerifyingKey decodes a key written by WriteTo. The KZG body is read
// before the row length is trusted, and only ω is derived from the length.
func ReadVerifyingKey(r io.Reader) (*VerifyingKey, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("pcs: read verifying key: %w", err)
	}
	out := &VerifyingKey{m: int(binary.BigEndian.Uint32(hdr[:]))}
	if _, err := out.vk.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("pcs: read verifying key: %w", err)
	}
	omega, err := fpoly.Generator(out.m)
	if err != nil {
		return nil, fmt.Errorf("%w: verifying key for m=%d: %v", ErrLengthMismatch, out.m, err)
	}
	out.omega = omega
	return out, nil
}
