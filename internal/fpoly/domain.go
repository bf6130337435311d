// Package fpoly implements the univariate polynomial plumbing over the BLS12-381
// scalar field shared by the field erasure code and the row commitments:
// power-of-two evaluation domains, FFT interpolation, Horner evaluation and
// Lagrange coefficients over arbitrary node sets.
package fpoly

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
)

var (
	// ErrDomainSize is returned when a domain cannot be built for the requested size.
	ErrDomainSize = errors.New("fpoly: invalid domain size")
	// ErrTooManyValues is returned when a vector does not fit in the domain.
	ErrTooManyValues = errors.New("fpoly: vector longer than domain")
	// ErrDuplicateNode is returned when interpolation nodes are not distinct.
	ErrDuplicateNode = errors.New("fpoly: duplicate interpolation node")
)

// maxLogCardinality bounds domains to the 2-adicity of Fr (32).
const maxLogCardinality = 32

// Domain is the ordered set {ω^0, …, ω^(size-1)} where ω generates the smallest
// multiplicative subgroup of power-of-two order N ≥ max(size, 2). Positions in
// [size, N) exist for interpolation padding only.
type Domain struct {
	size   int
	fft    *fft.Domain
	points []fr.Element
}

// NewDomain builds the evaluation domain for size positions.
func NewDomain(size int) (*Domain, error) {
	card, err := cardinality(size)
	if err != nil {
		return nil, err
	}
	d := fft.NewDomain(card)
	if d == nil || d.Cardinality != card {
		return nil, fmt.Errorf("%w: fft domain for %d", ErrDomainSize, card)
	}
	points := make([]fr.Element, card)
	points[0].SetOne()
	for i := 1; i < len(points); i++ {
		points[i].Mul(&points[i-1], &d.Generator)
	}
	return &Domain{size: size, fft: d, points: points}, nil
}

// Generator returns ω for the domain NewDomain(size) would build, without
// materialising the domain.
func Generator(size int) (fr.Element, error) {
	card, err := cardinality(size)
	if err != nil {
		return fr.Element{}, err
	}
	g, err := fft.Generator(card)
	if err != nil {
		return fr.Element{}, fmt.Errorf("%w: %v", ErrDomainSize, err)
	}
	return g, nil
}

func cardinality(size int) (uint64, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrDomainSize, size)
	}
	card := uint64(2)
	for card < uint64(size) {
		card <<= 1
	}
	if card > uint64(1)<<maxLogCardinality {
		return 0, fmt.Errorf("%w: %d exceeds field two-adicity", ErrDomainSize, size)
	}
	return card, nil
}

// Size is the number of addressable positions.
func (d *Domain) Size() int { return d.size }

// Cardinality is the power-of-two order of the underlying subgroup.
func (d *Domain) Cardinality() int { return len(d.points) }

// Generator is ω.
func (d *Domain) Generator() fr.Element { return d.fft.Generator }

// Element returns ω^i. i must be below Cardinality.
func (d *Domain) Element(i int) fr.Element { return d.points[i] }

// Elements returns a copy of the first Size positions.
func (d *Domain) Elements() []fr.Element {
	out := make([]fr.Element, d.size)
	copy(out, d.points[:d.size])
	return out
}

// Interpolate returns the Cardinality coefficients of the unique polynomial of
// degree < Cardinality whose evaluations at the domain are evals, zero-padded.
func (d *Domain) Interpolate(evals []fr.Element) ([]fr.Element, error) {
	if len(evals) > len(d.points) {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyValues, len(evals), len(d.points))
	}
	out := make([]fr.Element, len(d.points))
	copy(out, evals)
	d.fft.FFTInverse(out, fft.DIF)
	fft.BitReverse(out)
	return out, nil
}

// Evaluate returns the evaluations of coeffs at every domain point, in order.
func (d *Domain) Evaluate(coeffs []fr.Element) ([]fr.Element, error) {
	if len(coeffs) > len(d.points) {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyValues, len(coeffs), len(d.points))
	}
	out := make([]fr.Element, len(d.points))
	copy(out, coeffs)
	d.fft.FFT(out, fft.DIF)
	fft.BitReverse(out)
	return out, nil
}

// LagrangeBasisAt returns L_i(x) for every i < Cardinality, using
// L_i(x) = ω^i (x^N - 1) / (N (x - ω^i)).
func (d *Domain) LagrangeBasisAt(x fr.Element) ([]fr.Element, error) {
	n := len(d.points)
	den := make([]fr.Element, n)
	for i := range d.points {
		den[i].Sub(&x, &d.points[i])
		if den[i].IsZero() {
			return nil, fmt.Errorf("%w: point lies on the domain", ErrDuplicateNode)
		}
	}
	inv := fr.BatchInvert(den)

	var zx, nInv fr.Element
	zx.Set(&x)
	for i := 1; i < n; i <<= 1 {
		zx.Square(&zx)
	}
	var one fr.Element
	one.SetOne()
	zx.Sub(&zx, &one)
	nInv.SetUint64(uint64(n))
	nInv.Inverse(&nInv)
	zx.Mul(&zx, &nInv)

	out := make([]fr.Element, n)
	for i := range out {
		out[i].Mul(&d.points[i], &zx)
		out[i].Mul(&out[i], &inv[i])
	}
	return out, nil
}

// Eval evaluates the polynomial given by coeffs at x (Horner).
func Eval(coeffs []fr.Element, x fr.Element) fr.Element {
	var res fr.Element
	for i := len(coeffs) - 1; i >= 0; i-- {
		res.Mul(&res, &x)
		res.Add(&res, &coeffs[i])
	}
	return res
}
