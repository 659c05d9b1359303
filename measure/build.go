// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package measure

import (
	"sort"
	"strings"
)

// Duration thresholds used by Build, in milliseconds. Build keeps
// RawMeasures slower than HighThreshold, unless fewer than
// MinHighResults pass it, in which case it keeps those slower than
// LowThreshold instead.
const (
	HighThreshold  = 10.0
	LowThreshold   = 0.1
	MinHighResults = 20
)

// QualifierPrefixes are removed from the start of symbols by
// StripQualifiers, in order. Each is removed at most once.
var QualifierPrefixes = []string{"@objc ", "final ", "@IBAction "}

// Build filters, ranks, and cleans up raws. The result is sorted by
// decreasing Duration; measures with equal durations keep their order
// in raws. Build does not modify raws.
func Build(raws []RawMeasure) []Measure {
	kept := filter(raws, HighThreshold)
	if len(kept) < MinHighResults {
		kept = filter(raws, LowThreshold)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Duration > kept[j].Duration
	})

	out := make([]Measure, 0, len(kept))
	for _, raw := range kept {
		if m, ok := clean(raw); ok {
			out = append(out, m)
		}
	}
	return out
}

func filter(raws []RawMeasure, min float64) []RawMeasure {
	var out []RawMeasure
	for _, raw := range raws {
		if raw.Duration > min {
			out = append(out, raw)
		}
	}
	return out
}

// clean converts raw into a Measure. It reports false if raw has no
// usable path.
func clean(raw RawMeasure) (Measure, bool) {
	fields := strings.FieldsFunc(raw.Key, func(r rune) bool { return r == '\t' })
	if len(fields) == 0 {
		return Measure{}, false
	}
	path := strings.Trim(fields[0], "\r\"")
	if path == "" {
		return Measure{}, false
	}
	symbol := "-"
	if len(fields) >= 2 {
		symbol = StripQualifiers(strings.TrimSuffix(fields[1], "\r"))
	}
	return Measure{
		Path:        path,
		Symbol:      symbol,
		Duration:    raw.Duration,
		Occurrences: raw.Occurrences,
	}, true
}

// StripQualifiers removes each of QualifierPrefixes from the start of
// symbol, in order, leaving the rest of symbol unchanged.
func StripQualifiers(symbol string) string {
	for _, prefix := range QualifierPrefixes {
		symbol = strings.TrimPrefix(symbol, prefix)
	}
	return symbol
}
