// Package sweep times the three ways of bringing a row commitment up to date
// (fresh commit, single-cell point update, whole-row delta) across row lengths,
// and reads and writes the results as JSON lines.
package sweep

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"dynamic-data/internal/rng"
	"dynamic-data/pcs"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"go.uber.org/zap"
)

// Point is one measured row length. Durations are per operation, in
// microseconds.
type Point struct {
	M             int   `json:"m"`
	Reps          int   `json:"reps"`
	CommitUS      int64 `json:"commit_us"`
	PointUpdateUS int64 `json:"point_update_us"`
	RowUpdateUS   int64 `json:"row_update_us"`
	OpenUS        int64 `json:"open_us"`
}

// Run measures every m in ms with reps repetitions each.
func Run(ctx context.Context, ms []int, reps int, seed []byte, log *zap.SugaredLogger) ([]Point, error) {
	if reps <= 0 {
		reps = 1
	}
	out := make([]Point, 0, len(ms))
	for _, m := range ms {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		pt, err := measure(m, reps, seed)
		if err != nil {
			return out, fmt.Errorf("sweep: m=%d: %w", m, err)
		}
		log.Infow("sweep point", "m", m, "commit_us", pt.CommitUS, "point_update_us", pt.PointUpdateUS, "row_update_us", pt.RowUpdateUS)
		out = append(out, pt)
	}
	return out, nil
}

func measure(m, reps int, seed []byte) (Point, error) {
	srs, err := pcs.Setup(m, seed)
	if err != nil {
		return Point{}, err
	}
	prng, err := rng.New(seed)
	if err != nil {
		return Point{}, err
	}
	row, err := randomRow(prng, m)
	if err != nil {
		return Point{}, err
	}
	next, err := randomRow(prng, m)
	if err != nil {
		return Point{}, err
	}
	scheme := pcs.KZG{}

	var rc *pcs.RowCommitment
	start := time.Now()
	for i := 0; i < reps; i++ {
		if rc, err = scheme.Commit(srs, row); err != nil {
			return Point{}, err
		}
	}
	commit := time.Since(start)

	start = time.Now()
	for i := 0; i < reps; i++ {
		// alternate so that no call hits the zero-delta shortcut
		oldV, newV := row[m/2], next[m/2]
		if i%2 == 1 {
			oldV, newV = newV, oldV
		}
		if err := scheme.UpdateCell(srs, rc, m/2, oldV, newV); err != nil {
			return Point{}, err
		}
	}
	point := time.Since(start)

	start = time.Now()
	for i := 0; i < reps; i++ {
		if err := scheme.UpdateRow(srs, rc, rc.Evaluations(), next); err != nil {
			return Point{}, err
		}
		row, next = next, row
	}
	rowUpd := time.Since(start)

	start = time.Now()
	for i := 0; i < reps; i++ {
		if _, err := scheme.Open(srs, rc, i%m); err != nil {
			return Point{}, err
		}
	}
	open := time.Since(start)

	per := func(d time.Duration) int64 { return d.Microseconds() / int64(reps) }
	return Point{
		M:             m,
		Reps:          reps,
		CommitUS:      per(commit),
		PointUpdateUS: per(point),
		RowUpdateUS:   per(rowUpd),
		OpenUS:        per(open),
	}, nil
}

func randomRow(r io.Reader, m int) ([]fr.Element, error) {
	row := make([]fr.Element, m)
	for i := range row {
		v, err := rng.ReadFieldElement(r)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// WriteJSONL writes one JSON object per point.
func WriteJSONL(w io.Writer, points []Point) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, pt := range points {
		if err := enc.Encode(pt); err != nil {
			return fmt.Errorf("sweep: encode: %w", err)
		}
	}
	return bw.Flush()
}

// ReadJSONL parses the output of WriteJSONL. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]Point, error) {
	sc := bufio.NewScanner(r)
	var out []Point
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var pt Point
		if err := json.Unmarshal(b, &pt); err != nil {
			return nil, fmt.Errorf("sweep: line %d: %w", line, err)
		}
		if pt.M <= 0 {
			return nil, fmt.Errorf("sweep: line %d: missing m", line)
		}
		out = append(out, pt)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
