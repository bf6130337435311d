package matrix

import (
	"testing"

	"dynamic-data/internal/rng"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"
)

func testParams(t *testing.T) *Params {
	p, err := NewParams(4, 8, 8)
	require.NoError(t, err)
	return p
}

func TestNewParams(t *testing.T) {
	p := testParams(t)
	require.Equal(t, 4, p.K())
	require.Equal(t, 8, p.N())
	require.Equal(t, 8, p.M())
	require.Equal(t, 4, p.P())

	for _, tc := range [][3]int{{4, 4, 8}, {5, 4, 8}, {0, 4, 8}, {2, 4, 0}, {-1, 4, 8}} {
		_, err := NewParams(tc[0], tc[1], tc[2])
		require.ErrorIs(t, err, ErrInvalidParams, "params %v", tc)
	}
}

func TestNewRandomBytesLeavesParityZero(t *testing.T) {
	p := testParams(t)
	prng, err := rng.New([]byte("matrix"))
	require.NoError(t, err)
	mx, err := NewRandomBytes(p, prng)
	require.NoError(t, err)
	require.Same(t, p, mx.Params())
	for r := p.K(); r < p.N(); r++ {
		row, err := mx.Row(r)
		require.NoError(t, err)
		require.Equal(t, make([]uint8, p.M()), row)
	}

	prng2, err := rng.New([]byte("matrix"))
	require.NoError(t, err)
	again, err := NewRandomBytes(p, prng2)
	require.NoError(t, err)
	require.True(t, mx.Equal(again))
}

func TestNewRandomField(t *testing.T) {
	p := testParams(t)
	mx, err := NewRandomField(p, nil)
	require.NoError(t, err)
	v, err := mx.Get(p.N()-1, 0)
	require.NoError(t, err)
	require.True(t, v.IsZero())
}

func TestGetSetBounds(t *testing.T) {
	p := testParams(t)
	mx := New[uint8](p)

	require.NoError(t, mx.Set(2, 3, 7))
	v, err := mx.Get(2, 3)
	require.NoError(t, err)
	require.EqualValues(t, 7, v)

	for _, rc := range [][2]int{{8, 0}, {0, 8}, {-1, 0}, {0, -1}} {
		_, err := mx.Get(rc[0], rc[1])
		require.ErrorIs(t, err, ErrOutOfRange)
		require.ErrorIs(t, mx.Set(rc[0], rc[1], 1), ErrOutOfRange)
	}
	_, err = mx.Row(8)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = mx.Col(8)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestUpdateColumnTouchesSystematicRowsOnly(t *testing.T) {
	p := testParams(t)
	mx := New[uint8](p)
	for r := 0; r < p.N(); r++ {
		require.NoError(t, mx.Set(r, 5, 0xaa))
	}

	require.NoError(t, mx.UpdateColumn(5, []uint8{0, 1, 2, 3}))
	col, err := mx.Col(5)
	require.NoError(t, err)
	require.Equal(t, []uint8{0, 1, 2, 3, 0xaa, 0xaa, 0xaa, 0xaa}, col)

	require.ErrorIs(t, mx.UpdateColumn(5, []uint8{1, 2, 3}), ErrLengthMismatch)
	require.ErrorIs(t, mx.UpdateColumn(8, []uint8{1, 2, 3, 4}), ErrOutOfRange)
}

func TestFromBytesEmbedding(t *testing.T) {
	p := testParams(t)
	b, err := NewRandomBytes(p, nil)
	require.NoError(t, err)
	f := FromBytes(b)
	require.Same(t, p, f.Params())
	for r := 0; r < p.N(); r++ {
		for c := 0; c < p.M(); c++ {
			bv, _ := b.Get(r, c)
			fv, _ := f.Get(r, c)
			var want fr.Element
			want.SetUint64(uint64(bv))
			require.True(t, want.Equal(&fv))
		}
	}
}

func TestFromRowsAndClone(t *testing.T) {
	p, err := NewParams(1, 2, 2)
	require.NoError(t, err)
	mx, err := FromRows(p, [][]uint8{{1, 2}, {3, 4}})
	require.NoError(t, err)
	cl := mx.Clone()
	require.True(t, mx.Equal(cl))
	require.NoError(t, cl.Set(0, 0, 9))
	require.False(t, mx.Equal(cl))

	_, err = FromRows(p, [][]uint8{{1, 2}})
	require.ErrorIs(t, err, ErrLengthMismatch)
	_, err = FromRows(p, [][]uint8{{1, 2}, {3}})
	require.ErrorIs(t, err, ErrLengthMismatch)
}
