// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/buildtime-analyzer/buildtime/cmd/buildtime/internal/texttab"
	"github.com/buildtime-analyzer/buildtime/measure"
)

// formatText writes ms to w as a text table.
func formatText(w io.Writer, ms []measure.Measure) error {
	if len(ms) == 0 {
		_, err := fmt.Fprintf(w, "no compile timings found\n")
		return err
	}
	var tab texttab.Table
	tab.Row().Cell("time", texttab.Right).Cell("count", texttab.Right).Cell("location").Cell("symbol")
	for i := range ms {
		m := &ms[i]
		tab.Row().
			Cell(m.FormatDuration(), texttab.Right).
			Cell(strconv.Itoa(m.Occurrences), texttab.Right).
			Cell(shortLocation(m)).
			Cell(m.Symbol)
	}
	return tab.Format(w)
}

// shortLocation returns m's file name, line, and column, or its full
// path if it has no location.
func shortLocation(m *measure.Measure) string {
	loc, ok := m.Location()
	if !ok {
		return m.Path
	}
	return fmt.Sprintf("%s:%d:%d", loc.Name, loc.Line, loc.Column)
}

// formatCSV writes ms to w as comma-separated values with a header
// row.
func formatCSV(w io.Writer, ms []measure.Measure) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"duration_ms", "occurrences", "path", "symbol"})
	for _, m := range ms {
		cw.Write([]string{
			strconv.FormatFloat(m.Duration, 'f', -1, 64),
			strconv.Itoa(m.Occurrences),
			m.Path,
			m.Symbol,
		})
	}
	cw.Flush()
	return cw.Error()
}
