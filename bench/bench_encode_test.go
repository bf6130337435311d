package bench

import (
	"testing"

	"dynamic-data/erasure"
	"dynamic-data/internal/rng"
	"dynamic-data/matrix"
)

func benchParams(b *testing.B) *matrix.Params {
	p, err := matrix.NewParams(16, 32, 256)
	if err != nil {
		b.Fatal(err)
	}
	return p
}

func BenchmarkByteEncode(b *testing.B) {
	p := benchParams(b)
	r, _ := rng.New([]byte("bench"))
	mx, err := matrix.NewRandomBytes(p, r)
	if err != nil {
		b.Fatal(err)
	}
	enc, err := erasure.NewByteEncoder(p)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := enc.Encode(mx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFieldEncode(b *testing.B) {
	p := benchParams(b)
	r, _ := rng.New([]byte("bench"))
	mx, err := matrix.NewRandomField(p, r)
	if err != nil {
		b.Fatal(err)
	}
	enc, err := erasure.NewFieldEncoder(p)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := enc.Encode(mx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFieldEncodeColumn(b *testing.B) {
	p := benchParams(b)
	r, _ := rng.New([]byte("bench"))
	mx, err := matrix.NewRandomField(p, r)
	if err != nil {
		b.Fatal(err)
	}
	enc, err := erasure.NewFieldEncoder(p)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := enc.EncodeColumn(mx, i%p.M()); err != nil {
			b.Fatal(err)
		}
	}
}
