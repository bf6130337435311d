package bench

import (
	"fmt"
	"testing"

	"dynamic-data/internal/rng"
	"dynamic-data/pcs"
	"dynamic-data/prof"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

var benchM = []int{64, 256, 1024}

func benchRow(b *testing.B, m int) (*pcs.SRS, []fr.Element) {
	b.Helper()
	srs, err := pcs.Setup(m, []byte("bench"))
	if err != nil {
		b.Fatal(err)
	}
	r, err := rng.New([]byte("bench-row"))
	if err != nil {
		b.Fatal(err)
	}
	row := make([]fr.Element, m)
	for i := range row {
		if row[i], err = rng.ReadFieldElement(r); err != nil {
			b.Fatal(err)
		}
	}
	return srs, row
}

func BenchmarkCommit(b *testing.B) {
	prof.SetEnabled(false)
	defer prof.SetEnabled(true)
	for _, m := range benchM {
		b.Run(fmt.Sprintf("m=%d", m), func(b *testing.B) {
			srs, row := benchRow(b, m)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := (pcs.KZG{}).Commit(srs, row); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkUpdateCell(b *testing.B) {
	for _, m := range benchM {
		b.Run(fmt.Sprintf("m=%d", m), func(b *testing.B) {
			srs, row := benchRow(b, m)
			rc, err := pcs.KZG{}.Commit(srs, row)
			if err != nil {
				b.Fatal(err)
			}
			var one fr.Element
			one.SetOne()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cur := rc.Evaluations()[i%m]
				var next fr.Element
				next.Add(&cur, &one)
				if err := (pcs.KZG{}).UpdateCell(srs, rc, i%m, cur, next); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkUpdateRow(b *testing.B) {
	prof.SetEnabled(false)
	defer prof.SetEnabled(true)
	for _, m := range benchM {
		b.Run(fmt.Sprintf("m=%d", m), func(b *testing.B) {
			srs, row := benchRow(b, m)
			rc, err := pcs.KZG{}.Commit(srs, row)
			if err != nil {
				b.Fatal(err)
			}
			next := append([]fr.Element(nil), row...)
			next[0].SetUint64(1)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := (pcs.KZG{}).UpdateRow(srs, rc, row, next); err != nil {
					b.Fatal(err)
				}
				row, next = next, row
			}
		})
	}
}
