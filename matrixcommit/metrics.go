package matrixcommit

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the work done by a Set. A nil *Metrics records nothing.
type Metrics struct {
	rowsCommitted  prometheus.Counter
	pointUpdates   prometheus.Counter
	skippedUpdates prometheus.Counter
	rowUpdates     prometheus.Counter
	openings       prometheus.Counter
	commitDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		rowsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dyndata_rows_committed_total",
			Help: "Row commitments computed from scratch",
		}),
		pointUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dyndata_point_updates_total",
			Help: "Single-cell commitment updates applied",
		}),
		skippedUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dyndata_point_updates_skipped_total",
			Help: "Single-cell updates skipped because the value did not change",
		}),
		rowUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dyndata_row_updates_total",
			Help: "Whole-row delta commitment updates applied",
		}),
		openings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dyndata_openings_total",
			Help: "Cell opening proofs produced",
		}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dyndata_commit_matrix_seconds",
			Help:    "Wall time of committing a full matrix",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	for _, c := range []prometheus.Collector{m.rowsCommitted, m.pointUpdates, m.skippedUpdates, m.rowUpdates, m.openings, m.commitDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("matrixcommit: register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) incRowsCommitted(n int) {
	if m != nil {
		m.rowsCommitted.Add(float64(n))
	}
}

func (m *Metrics) incPointUpdate(skipped bool) {
	if m == nil {
		return
	}
	if skipped {
		m.skippedUpdates.Inc()
	} else {
		m.pointUpdates.Inc()
	}
}

func (m *Metrics) incRowUpdate() {
	if m != nil {
		m.rowUpdates.Inc()
	}
}

func (m *Metrics) incOpenings() {
	if m != nil {
		m.openings.Inc()
	}
}

func (m *Metrics) observeCommit(seconds float64) {
	if m != nil {
		m.commitDuration.Observe(seconds)
	}
}
