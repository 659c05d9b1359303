// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes, used as the "outcome" label of buildtime_runs_total.
const (
	outcomeCompleted = "completed"
	outcomeCancelled = "cancelled"
	outcomeFailed    = "failed"
	outcomeEmpty     = "empty"
)

// Metrics counts the work done by a Session. A nil *Metrics discards
// all counts.
type Metrics struct {
	runs      *prometheus.CounterVec
	records   prometheus.Counter
	timings   prometheus.Counter
	snapshots prometheus.Counter
}

// NewMetrics creates Metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buildtime_runs_total",
			Help: "Number of finished processing runs, by outcome",
		}, []string{"outcome"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buildtime_records_total",
			Help: "Number of build log records scanned",
		}),
		timings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buildtime_timing_records_total",
			Help: "Number of scanned records that carried a compile timing",
		}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buildtime_snapshots_total",
			Help: "Number of result snapshots delivered, including final ones",
		}),
	}
	reg.MustRegister(m.runs, m.records, m.timings, m.snapshots)
	return m
}

func (m *Metrics) run(outcome string) {
	if m != nil {
		m.runs.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) scanned(records, timings int) {
	if m != nil {
		m.records.Add(float64(records))
		m.timings.Add(float64(timings))
	}
}

func (m *Metrics) snapshot() {
	if m != nil {
		m.snapshots.Inc()
	}
}
