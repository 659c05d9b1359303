// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package measure aggregates compile timing records into ranked,
// de-duplicated measures.
//
// A Store collects RawMeasures while a build log is being read. Build
// turns a snapshot of the Store into Measures: the slowest functions
// first, with their source locations and cleaned-up signatures.
package measure

import (
	"fmt"
	"strconv"
	"strings"
)

// A Measure is the total compile time of one function.
type Measure struct {
	// Path is the source location as recorded in the log, typically
	// "file:line:column".
	Path string

	// Symbol is the function signature, or "-" if the record did not
	// include one.
	Symbol string

	// Duration is the total compile time in milliseconds.
	Duration float64

	// Occurrences is the number of timing records that were
	// combined into this Measure.
	Occurrences int
}

// A Location is a Path split into its parts.
type Location struct {
	File         string // full path of the source file
	Name         string // base name of the source file
	Line, Column int
}

// Location parses m.Path as "file:line:column". It reports false if
// m.Path does not end in a line and column.
func (m *Measure) Location() (Location, bool) {
	file, rest, ok := strings.Cut(m.Path, ":")
	if !ok {
		return Location{}, false
	}
	lineStr, colStr, ok := strings.Cut(rest, ":")
	if !ok {
		return Location{}, false
	}
	line, err1 := strconv.Atoi(lineStr)
	col, err2 := strconv.Atoi(colStr)
	if err1 != nil || err2 != nil {
		return Location{}, false
	}
	name := file[strings.LastIndexByte(file, '/')+1:]
	return Location{File: file, Name: name, Line: line, Column: col}, true
}

// FormatDuration formats m.Duration in milliseconds with one decimal
// place, such as "12.5ms".
func (m *Measure) FormatDuration() string {
	return fmt.Sprintf("%.1fms", m.Duration)
}

func (m *Measure) String() string {
	return fmt.Sprintf("%s\t%s\t%s\t%d", m.FormatDuration(), m.Path, m.Symbol, m.Occurrences)
}
