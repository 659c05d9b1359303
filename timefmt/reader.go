// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timefmt reads the per-function compile timing records that
// the Swift compiler writes into Xcode build logs when invoked with
// -Xfrontend -debug-time-function-bodies.
//
// A decoded build log is a sequence of records separated by carriage
// returns. Most records are ordinary build output. A timing record
// begins with a duration in milliseconds, the literal "ms", a tab, and
// a payload that starts with an absolute source path:
//
//	12.5ms	/src/App/View.swift:14:10	@objc final func layout()\r
//
// The payload is split into fields by tabs; see package measure for
// how they are interpreted.
package timefmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// MaxRecordSize is the largest record a Reader returns. Longer
// records cannot be timing records worth keeping; the Reader skips
// them, returning only their terminating carriage return.
const MaxRecordSize = 64 << 20

// A Reader reads records from a decoded build log.
//
// Its API is modeled on bufio.Scanner. To minimize allocation, a
// Reader retains ownership of the record bytes; a caller should copy
// anything it needs to retain past the next call to Scan.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	s   *bufio.Scanner
	err error // current I/O error

	rec      []byte
	fileName string
	line     int

	max      int  // record size limit; 0 means MaxRecordSize
	skipping bool // inside an oversized record
}

// NewReader constructs a reader to parse build log records from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	return newReader(r, fileName, MaxRecordSize)
}

func newReader(r io.Reader, fileName string, size int) *Reader {
	reader := &Reader{max: size}
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	if r.max <= 0 {
		r.max = MaxRecordSize
	}
	r.s = bufio.NewScanner(ior)
	r.s.Buffer(make([]byte, 0, min(64<<10, r.max)), r.max)
	r.s.Split(r.splitRecords)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.err = nil
	r.rec = nil
	r.line = 0
	r.skipping = false
}

// splitRecords is a bufio.SplitFunc that returns each
// carriage-return terminated record, including the carriage return.
// Text following the final carriage return is not a record and is
// discarded.
//
// Once r.max bytes have accumulated without a carriage return, the
// bytes are dropped and the rest of the record is skipped; the record
// is returned as its carriage return alone.
func (r *Reader) splitRecords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, '\r'); i >= 0 {
		if r.skipping {
			r.skipping = false
			return i + 1, data[i : i+1], nil
		}
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), nil, nil
	}
	if len(data) >= r.max {
		r.skipping = true
		return len(data), nil, nil
	}
	// Request more data.
	return 0, nil, nil
}

// Scan advances the reader to the next record and reports whether a
// record was read. Every record is returned, whether or not it is a
// timing record; use Timing to parse it.
// If Scan reaches EOF or an I/O error occurs, it returns false,
// in which case the caller should use the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if r.s.Scan() {
		r.line++
		r.rec = r.s.Bytes()
		return true
	}
	r.rec = nil
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line+1, err)
	}
	return false
}

// Timing parses the current record as a timing record. It reports
// false for records that are not timing records, including records
// whose duration is not a valid number.
func (r *Reader) Timing() (Timing, bool) {
	return ParseTiming(r.rec)
}

// Pos returns the file name given to the Reader and the 1-based index
// of the current record.
func (r *Reader) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}
