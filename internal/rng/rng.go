// Package rng is the single source of randomness for matrix generation and
// trusted setup. A non-empty seed makes every draw reproducible.
package rng

import (
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/sha3"
)

// fieldSampleBytes is 128 bits wider than Fr so that reduction bias is negligible.
const fieldSampleBytes = 48

// New returns a PRNG keyed by seed. An empty seed yields a PRNG keyed with
// fresh system randomness.
func New(seed []byte) (io.Reader, error) {
	if len(seed) == 0 {
		prng, err := utils.NewPRNG()
		if err != nil {
			return nil, fmt.Errorf("rng: %w", err)
		}
		return prng, nil
	}
	prng, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return nil, fmt.Errorf("rng: %w", err)
	}
	return prng, nil
}

// ReadFieldElement draws a uniformly distributed Fr element from r.
func ReadFieldElement(r io.Reader) (fr.Element, error) {
	var buf [fieldSampleBytes]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return fr.Element{}, fmt.Errorf("rng: read field element: %w", err)
	}
	return reduce(buf[:]), nil
}

// ReadByte draws one byte from r.
func ReadByte(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("rng: read byte: %w", err)
	}
	return buf[0], nil
}

// DeriveFieldElement maps (seed, label) to a field element with SHAKE-256.
// Distinct labels give independent elements for the same seed.
func DeriveFieldElement(seed []byte, label string) fr.Element {
	var out [fieldSampleBytes]byte
	h := sha3.NewShake256()
	_, _ = h.Write([]byte(label))
	_, _ = h.Write([]byte{0x00})
	_, _ = h.Write(seed)
	_, _ = h.Read(out[:])
	return reduce(out[:])
}

func reduce(b []byte) fr.Element {
	v := new(big.Int).SetBytes(b)
	v.Mod(v, fr.Modulus())
	var e fr.Element
	e.SetBigInt(v)
	return e
}
