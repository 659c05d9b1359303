// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package measure

import (
	"fmt"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Summary describes the distribution of durations in a set of
// Measures. All durations are in milliseconds.
type Summary struct {
	Count       int // number of measures
	Occurrences int // total occurrences over all measures
	Total       float64
	Mean        float64
	Median      float64
	P90         float64
	Max         float64
}

// Summarize computes a Summary of ms. The zero Summary describes an
// empty set.
func Summarize(ms []Measure) Summary {
	if len(ms) == 0 {
		return Summary{}
	}
	xs := make([]float64, len(ms))
	occ := 0
	for i := range ms {
		xs[i] = ms[i].Duration
		occ += ms[i].Occurrences
	}
	sort.Float64s(xs)
	sample := stats.Sample{Xs: xs, Sorted: true}
	_, max := sample.Bounds()
	return Summary{
		Count:       len(ms),
		Occurrences: occ,
		Total:       sample.Sum(),
		Mean:        sample.Mean(),
		Median:      sample.Quantile(0.5),
		P90:         sample.Quantile(0.9),
		Max:         max,
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d functions, %d records, total %.1fms, mean %.1fms, median %.1fms, p90 %.1fms, max %.1fms",
		s.Count, s.Occurrences, s.Total, s.Mean, s.Median, s.P90, s.Max)
}
