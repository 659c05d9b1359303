// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ErrNoLog is returned by a Source that has no log text.
var ErrNoLog = errors.New("no build log")

// A Source provides the decoded text of a build log.
type Source interface {
	// Open returns a reader for the log text. It returns ErrNoLog
	// if there is no log or the log is empty.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Text returns a Source that yields s.
func Text(s string) Source {
	return textSource(s)
}

type textSource string

func (s textSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s == "" {
		return nil, ErrNoLog
	}
	return io.NopCloser(strings.NewReader(string(s))), nil
}

// File returns a Source that reads the build log at path. The file may
// be plain text or a gzip-compressed Xcode activity log
// (.xcactivitylog); compressed files are detected by content.
func File(path string) Source {
	return fileSource(path)
}

type fileSource string

var gzipMagic = []byte{0x1f, 0x8b}

func (path fileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(string(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoLog)
	} else if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	head, err := br.Peek(len(gzipMagic))
	if len(head) == 0 && err == io.EOF {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNoLog)
	}
	if !bytes.Equal(head, gzipMagic) {
		return &readCloser{br, f}, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// zr holds nothing that needs releasing, and closing it could
	// race with a Read in progress.
	return &readCloser{zr, f}, nil
}

// Reader returns a Source that yields the contents of r, such as
// standard input. The Source may be opened only once. Open reports
// ErrNoLog if r is at EOF. If r is an io.Closer, closing the opened
// log closes r.
func Reader(r io.Reader) Source {
	return readerSource{r}
}

type readerSource struct{ r io.Reader }

func (s readerSource) Open(ctx context.Context) (io.ReadCloser, error) {
	var closer io.Closer = nopCloser{}
	if c, ok := s.r.(io.Closer); ok {
		closer = c
	}
	// r may be a terminal or pipe that blocks until its writer acts,
	// so wait for the first byte in the background.
	br := bufio.NewReader(s.r)
	peeked := make(chan error, 1)
	go func() {
		_, err := br.Peek(1)
		peeked <- err
	}()
	select {
	case err := <-peeked:
		if err == io.EOF {
			return nil, ErrNoLog
		}
		// Other errors are returned by the first Read.
		return &readCloser{br, closer}, nil
	case <-ctx.Done():
		// br still belongs to the goroutine above; closing r
		// releases it.
		closer.Close()
		return &readCloser{errReader{ctx.Err()}, closer}, nil
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
