package fpoly

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Interpolator evaluates, at arbitrary points, the polynomial of degree
// < len(nodes) defined by its values on a fixed node set. Barycentric weights
// are computed once; each target point then costs O(len(nodes)).
type Interpolator struct {
	nodes   []fr.Element
	weights []fr.Element // w_j = 1 / Π_{l≠j} (x_j - x_l)
}

// NewInterpolator precomputes barycentric weights for distinct nodes.
func NewInterpolator(nodes []fr.Element) (*Interpolator, error) {
	k := len(nodes)
	if k == 0 {
		return nil, fmt.Errorf("%w: empty node set", ErrDomainSize)
	}
	den := make([]fr.Element, k)
	var diff fr.Element
	for j := range nodes {
		den[j].SetOne()
		for l := range nodes {
			if l == j {
				continue
			}
			diff.Sub(&nodes[j], &nodes[l])
			if diff.IsZero() {
				return nil, fmt.Errorf("%w: nodes %d and %d", ErrDuplicateNode, j, l)
			}
			den[j].Mul(&den[j], &diff)
		}
	}
	ns := make([]fr.Element, k)
	copy(ns, nodes)
	return &Interpolator{nodes: ns, weights: fr.BatchInvert(den)}, nil
}

// Coefficients returns c such that f(y) = Σ_j c_j f(x_j) for every f of degree < len(nodes).
func (ip *Interpolator) Coefficients(y fr.Element) []fr.Element {
	k := len(ip.nodes)
	out := make([]fr.Element, k)
	diffs := make([]fr.Element, k)
	for j := range ip.nodes {
		diffs[j].Sub(&y, &ip.nodes[j])
		if diffs[j].IsZero() {
			out[j].SetOne()
			return out
		}
	}
	// ℓ(y) = Π_l (y - x_l)
	var ell fr.Element
	ell.SetOne()
	for j := range diffs {
		ell.Mul(&ell, &diffs[j])
	}
	inv := fr.BatchInvert(diffs)
	for j := range out {
		out[j].Mul(&ip.weights[j], &inv[j])
		out[j].Mul(&out[j], &ell)
	}
	return out
}

// Table returns one coefficient row per target point.
func (ip *Interpolator) Table(targets []fr.Element) [][]fr.Element {
	out := make([][]fr.Element, len(targets))
	for i := range targets {
		out[i] = ip.Coefficients(targets[i])
	}
	return out
}

// Combine returns Σ_j coeffs[j]·values[j].
func Combine(coeffs, values []fr.Element) fr.Element {
	var acc, t fr.Element
	for j := range coeffs {
		t.Mul(&coeffs[j], &values[j])
		acc.Add(&acc, &t)
	}
	return acc
}
