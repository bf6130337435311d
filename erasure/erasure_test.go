package erasure

import (
	"testing"

	"dynamic-data/internal/rng"
	"dynamic-data/matrix"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"
)

func params(t *testing.T, k, n, m int) *matrix.Params {
	t.Helper()
	p, err := matrix.NewParams(k, n, m)
	require.NoError(t, err)
	return p
}

func randomBytes(t *testing.T, p *matrix.Params, seed string) *matrix.Matrix[uint8] {
	t.Helper()
	r, err := rng.New([]byte(seed))
	require.NoError(t, err)
	mx, err := matrix.NewRandomBytes(p, r)
	require.NoError(t, err)
	return mx
}

func randomField(t *testing.T, p *matrix.Params, seed string) *matrix.Matrix[fr.Element] {
	t.Helper()
	r, err := rng.New([]byte(seed))
	require.NoError(t, err)
	mx, err := matrix.NewRandomField(p, r)
	require.NoError(t, err)
	return mx
}

func erase[T matrix.Scalar](mx *matrix.Matrix[T], rows ...int) [][]T {
	cl := mx.Clone().Shards()
	for _, r := range rows {
		cl[r] = nil
	}
	return cl
}

func TestNewEncodersRejectBadParams(t *testing.T) {
	_, err := NewByteEncoder(nil)
	require.ErrorIs(t, err, ErrInvalidParams)
	_, err = NewFieldEncoder(nil)
	require.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewByteEncoder(params(t, 100, 300, 4))
	require.ErrorIs(t, err, ErrInvalidParams)
	_, err = NewFieldEncoder(params(t, 100, 300, 4))
	require.NoError(t, err)
}

func TestByteEncodeIsSystematicAndIdempotent(t *testing.T) {
	p := params(t, 4, 8, 8)
	enc, err := NewByteEncoder(p)
	require.NoError(t, err)
	mx := randomBytes(t, p, "bytes")
	data := mx.Clone()

	require.NoError(t, enc.Encode(mx))
	for r := 0; r < p.K(); r++ {
		got, _ := mx.Row(r)
		want, _ := data.Row(r)
		require.Equal(t, want, got)
	}
	ok, err := enc.Verify(mx)
	require.NoError(t, err)
	require.True(t, ok)

	once := mx.Clone()
	require.NoError(t, enc.Encode(mx))
	require.True(t, once.Equal(mx))
}

func TestByteReconstructRows(t *testing.T) {
	p := params(t, 4, 8, 8)
	enc, err := NewByteEncoder(p)
	require.NoError(t, err)
	mx := randomBytes(t, p, "reconstruct")
	require.NoError(t, enc.Encode(mx))

	shards := erase(mx, 1, p.K())
	require.NoError(t, enc.Reconstruct(shards))
	got, err := matrix.FromRows(p, shards)
	require.NoError(t, err)
	require.True(t, mx.Equal(got))

	shards = erase(mx, 0, 1, 2, 3)
	require.NoError(t, enc.Reconstruct(shards))
	got, err = matrix.FromRows(p, shards)
	require.NoError(t, err)
	require.True(t, mx.Equal(got))
}

func TestFieldReconstructRows(t *testing.T) {
	p := params(t, 4, 8, 8)
	enc, err := NewFieldEncoder(p)
	require.NoError(t, err)
	mx := randomField(t, p, "reconstruct")
	require.NoError(t, enc.Encode(mx))
	ok, err := enc.Verify(mx)
	require.NoError(t, err)
	require.True(t, ok)

	for _, lost := range [][]int{{1, p.K()}, {0, 1, 2, 3}, {4, 5, 6, 7}, {0, 2, 5, 7}} {
		shards := erase(mx, lost...)
		require.NoError(t, enc.Reconstruct(shards), "erased %v", lost)
		got, err := matrix.FromRows(p, shards)
		require.NoError(t, err)
		require.True(t, mx.Equal(got), "erased %v", lost)
	}
}

func TestReconstructTooManyErasuresLeavesShards(t *testing.T) {
	p := params(t, 4, 8, 8)
	benc, err := NewByteEncoder(p)
	require.NoError(t, err)
	bm := randomBytes(t, p, "too-many")
	require.NoError(t, benc.Encode(bm))
	bs := erase(bm, 0, 1, 2, 3, 4)
	require.ErrorIs(t, benc.Reconstruct(bs), ErrTooManyErasures)
	for _, r := range []int{0, 1, 2, 3, 4} {
		require.Nil(t, bs[r])
	}

	fenc, err := NewFieldEncoder(p)
	require.NoError(t, err)
	fm := randomField(t, p, "too-many")
	require.NoError(t, fenc.Encode(fm))
	fs := erase(fm, 3, 4, 5, 6, 7)
	require.ErrorIs(t, fenc.Reconstruct(fs), ErrTooManyErasures)
	for _, r := range []int{3, 4, 5, 6, 7} {
		require.Nil(t, fs[r])
	}
}

func TestReconstructShapeErrors(t *testing.T) {
	p := params(t, 2, 4, 3)
	enc, err := NewFieldEncoder(p)
	require.NoError(t, err)
	require.ErrorIs(t, enc.Reconstruct(make([][]fr.Element, 3)), matrix.ErrLengthMismatch)
	bad := [][]fr.Element{make([]fr.Element, 3), make([]fr.Element, 2), nil, nil}
	require.ErrorIs(t, enc.Reconstruct(bad), matrix.ErrLengthMismatch)

	other := matrix.New[fr.Element](params(t, 2, 4, 4))
	require.ErrorIs(t, enc.Encode(other), matrix.ErrLengthMismatch)

	require.ErrorIs(t, enc.Encode(nil), matrix.ErrLengthMismatch)
	_, err = enc.Verify(nil)
	require.ErrorIs(t, err, matrix.ErrLengthMismatch)
	benc, err := NewByteEncoder(p)
	require.NoError(t, err)
	require.ErrorIs(t, benc.Encode(nil), matrix.ErrLengthMismatch)
}

func TestReconstructColumn(t *testing.T) {
	p := params(t, 3, 6, 5)
	enc, err := NewByteEncoder(p)
	require.NoError(t, err)
	mx := randomBytes(t, p, "column")
	require.NoError(t, enc.Encode(mx))
	full, err := mx.Col(2)
	require.NoError(t, err)

	col := make([]*uint8, p.N())
	for i := range col {
		if i == 0 || i == 4 {
			continue
		}
		v := full[i]
		col[i] = &v
	}
	require.NoError(t, ReconstructColumn[uint8](enc, col))
	for i := range col {
		require.Equal(t, full[i], *col[i])
	}
}

func TestEncodeColumnMatchesEncode(t *testing.T) {
	p := params(t, 4, 8, 8)
	benc, err := NewByteEncoder(p)
	require.NoError(t, err)
	bm := randomBytes(t, p, "col")
	want := bm.Clone()
	require.NoError(t, benc.Encode(want))
	for c := 0; c < p.M(); c++ {
		col, err := benc.EncodeColumn(bm, c)
		require.NoError(t, err)
		exp, _ := want.Col(c)
		require.Equal(t, exp, col)
	}
	require.True(t, want.Equal(bm))

	fenc, err := NewFieldEncoder(p)
	require.NoError(t, err)
	fm := randomField(t, p, "col")
	fwant := fm.Clone()
	require.NoError(t, fenc.Encode(fwant))
	for c := 0; c < p.M(); c++ {
		_, err := fenc.EncodeColumn(fm, c)
		require.NoError(t, err)
	}
	require.True(t, fwant.Equal(fm))

	_, err = fenc.EncodeColumn(fm, p.M())
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestColumnUpdateThenEncode(t *testing.T) {
	p := params(t, 4, 8, 8)
	enc, err := NewByteEncoder(p)
	require.NoError(t, err)
	mx := randomBytes(t, p, "update")
	require.NoError(t, enc.Encode(mx))

	require.NoError(t, mx.UpdateColumn(5, []uint8{0, 1, 2, 3}))
	col, err := enc.EncodeColumn(mx, 5)
	require.NoError(t, err)
	require.Equal(t, []uint8{0, 1, 2, 3}, col[:4])

	ok, err := enc.Verify(mx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUpdateCellMatchesReencode(t *testing.T) {
	p := params(t, 4, 8, 8)

	benc, err := NewByteEncoder(p)
	require.NoError(t, err)
	bm := randomBytes(t, p, "cell")
	require.NoError(t, benc.Encode(bm))
	require.NoError(t, benc.UpdateCell(bm, 2, 6, 0x5a))
	ok, err := benc.Verify(bm)
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := bm.Get(2, 6)
	require.EqualValues(t, 0x5a, v)
	require.ErrorIs(t, benc.UpdateCell(bm, p.K(), 0, 1), matrix.ErrOutOfRange)

	fenc, err := NewFieldEncoder(p)
	require.NoError(t, err)
	fm := randomField(t, p, "cell")
	require.NoError(t, fenc.Encode(fm))
	var nv fr.Element
	nv.SetUint64(42)
	require.NoError(t, fenc.UpdateCell(fm, 3, 1, nv))
	ref := fm.Clone()
	require.NoError(t, fenc.Encode(ref))
	require.True(t, ref.Equal(fm))
	require.ErrorIs(t, fenc.UpdateCell(fm, 0, p.M(), nv), matrix.ErrOutOfRange)
}

func TestVerifyDetectsCorruptParity(t *testing.T) {
	p := params(t, 2, 5, 4)
	benc, err := NewByteEncoder(p)
	require.NoError(t, err)
	bm := randomBytes(t, p, "corrupt")
	require.NoError(t, benc.Encode(bm))
	v, _ := bm.Get(4, 1)
	require.NoError(t, bm.Set(4, 1, v^1))
	ok, err := benc.Verify(bm)
	require.NoError(t, err)
	require.False(t, ok)

	fenc, err := NewFieldEncoder(p)
	require.NoError(t, err)
	fm := randomField(t, p, "corrupt")
	require.NoError(t, fenc.Encode(fm))
	var one fr.Element
	one.SetOne()
	require.NoError(t, fm.Set(3, 0, one))
	ok, err = fenc.Verify(fm)
	require.NoError(t, err)
	require.False(t, ok)
}
