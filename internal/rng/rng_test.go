package rng

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedPRNGIsReproducible(t *testing.T) {
	a, err := New([]byte("seed"))
	require.NoError(t, err)
	b, err := New([]byte("seed"))
	require.NoError(t, err)

	bufA := make([]byte, 64)
	bufB := make([]byte, 64)
	_, err = io.ReadFull(a, bufA)
	require.NoError(t, err)
	_, err = io.ReadFull(b, bufB)
	require.NoError(t, err)
	require.Equal(t, bufA, bufB)

	x, err := ReadFieldElement(a)
	require.NoError(t, err)
	y, err := ReadFieldElement(b)
	require.NoError(t, err)
	require.True(t, x.Equal(&y))
}

func TestFreshPRNG(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	_, err = ReadByte(r)
	require.NoError(t, err)
}

func TestDeriveFieldElement(t *testing.T) {
	a := DeriveFieldElement([]byte("seed"), "tau")
	b := DeriveFieldElement([]byte("seed"), "tau")
	c := DeriveFieldElement([]byte("seed"), "other")
	require.True(t, a.Equal(&b))
	require.False(t, a.Equal(&c))
	require.False(t, a.IsZero())
}
