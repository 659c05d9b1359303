// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timefmt

import (
	"bytes"
	"strconv"
)

// A Timing is a single timing record.
type Timing struct {
	// Duration is the compile time of the record, in milliseconds.
	Duration float64

	// Key is the record payload: the source path and any further
	// tab-separated fields, starting at the leading '/' and running
	// through the record's trailing carriage return.
	//
	// Key aliases the record it was parsed from.
	Key []byte
}

// marker separates the duration from the path payload.
var marker = []byte("ms\t/")

// ParseTiming parses rec as a timing record. rec must begin with an
// optional decimal number, with an optional fractional part, followed
// directly by "ms", a tab, and '/'. This is equivalent to the regular
// expression ^\d*\.?\d*ms\t/.
//
// Records that do not match, or whose number is empty or just ".",
// are not timing records and ParseTiming reports false.
func ParseTiming(rec []byte) (Timing, bool) {
	i := skipDigits(rec, 0)
	if i < len(rec) && rec[i] == '.' {
		i = skipDigits(rec, i+1)
	}
	if !bytes.HasPrefix(rec[i:], marker) {
		return Timing{}, false
	}
	// Fast path for the common integral durations.
	ms, ok := atoi(rec[:i])
	if !ok {
		var err error
		ms, err = strconv.ParseFloat(string(rec[:i]), 64)
		if err != nil {
			return Timing{}, false
		}
	}
	// Keep the '/' in the key.
	return Timing{Duration: ms, Key: rec[i+len(marker)-1:]}, true
}

func skipDigits(x []byte, i int) int {
	for i < len(x) && '0' <= x[i] && x[i] <= '9' {
		i++
	}
	return i
}

// atoi parses x as a short non-negative integer. It fails on empty
// input, non-digits, and values it cannot represent exactly.
func atoi(x []byte) (float64, bool) {
	if len(x) == 0 || len(x) > 15 {
		return 0, false
	}
	var val int64
	for _, ch := range x {
		digit := ch - '0'
		if digit >= 10 {
			return 0, false
		}
		val = val*10 + int64(digit)
	}
	return float64(val), true
}
