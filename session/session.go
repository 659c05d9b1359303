// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session processes build logs in the background and streams
// ranked compile-time measures to a Handler while it works.
//
// A Session runs one log at a time. While a log is being scanned, the
// Session periodically delivers partial results; when the scan ends,
// whether it read the whole log or was cancelled, the Session delivers
// the final result exactly once:
//
//	var s session.Session
//	err := s.Process(ctx, session.File(path), func(ms []measure.Measure, completed, cancelled bool) {
//		...
//	})
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/buildtime-analyzer/buildtime/measure"
	"github.com/buildtime-analyzer/buildtime/timefmt"
)

// A Handler receives the results of a run. It is called with
// completed == false for each partial result, and exactly once with
// completed == true when the run ends. cancelled reports whether the
// run was cancelled before it reached the end of the log, in which
// case measures only covers the records read before cancellation.
//
// Calls for one run never overlap, and the completed call is the
// last. measures belongs to the Handler.
type Handler func(measures []measure.Measure, completed, cancelled bool)

// ErrRunning is returned by Process if the Session is already
// processing a log.
var ErrRunning = errors.New("session: already running")

// DefaultInterval is the default time between partial results.
const DefaultInterval = 1500 * time.Millisecond

// A Session processes build logs, one at a time.
//
// The zero Session is ready to use. A Session must not be copied
// after first use.
type Session struct {
	// Interval is the time between partial results.
	// If zero, it defaults to DefaultInterval.
	Interval time.Duration

	// Logger receives progress and diagnostics.
	// If nil, nothing is logged.
	Logger *zap.Logger

	// Metrics, if non-nil, counts runs, records, and snapshots.
	Metrics *Metrics

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc // cancels the current run
	done    chan struct{}      // closed when the current run's final Handler call returns
}

// Process starts processing the log from src and returns without
// waiting for it. Results are delivered to fn on a goroutine owned by
// the Session.
//
// If src has no log, Process calls fn(nil, true, false) before
// returning and starts nothing. If src fails to open, Process returns
// the error. If the Session is already processing a log, Process
// returns ErrRunning.
//
// Cancelling ctx cancels the run, just like Cancel.
func (s *Session) Process(ctx context.Context, src Source, fn Handler) error {
	_, err := s.start(ctx, src, fn)
	return err
}

// Run is like Process, but waits for the final result to be
// delivered.
func (s *Session) Run(ctx context.Context, src Source, fn Handler) error {
	done, err := s.start(ctx, src, fn)
	if err != nil {
		return err
	}
	<-done
	return nil
}

// start begins a run and returns a channel that is closed when the
// run's final Handler call has returned.
//
// src is opened without holding s.mu, so a source that blocks in Open
// does not block Cancel.
func (s *Session) start(ctx context.Context, src Source, fn Handler) (<-chan struct{}, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.running, s.cancel, s.done = true, cancel, done
	s.mu.Unlock()

	rc, err := src.Open(ctx)
	if err != nil {
		cancel()
		s.idle()
		defer close(done)
		if errors.Is(err, ErrNoLog) {
			s.logger().Debug("nothing to process", zap.Error(err))
			s.Metrics.run(outcomeEmpty)
			fn(nil, true, false)
			return done, nil
		}
		return nil, err
	}

	go s.run(ctx, cancel, rc, new(measure.Store), fn, done)
	return done, nil
}

func (s *Session) idle() {
	s.mu.Lock()
	s.running, s.cancel = false, nil
	s.mu.Unlock()
}

// Cancel asks the current run to stop. The scan stops before the next
// record, or at once if it is waiting for input, and the final result
// is delivered with cancelled set.
// Cancel does nothing if no run is in progress.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Running reports whether a run is in progress.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Wait blocks until the final Handler call of the most recent run has
// returned. It must not be called from a Handler.
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Session) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Session) interval() time.Duration {
	if s.Interval <= 0 {
		return DefaultInterval
	}
	return s.Interval
}

// counts tallies the records seen by scan. It is updated by the scan
// goroutine and may be read while that goroutine is still running.
type counts struct {
	records, timings atomic.Int64
}

func (s *Session) run(ctx context.Context, cancel context.CancelFunc, rc io.ReadCloser, store *measure.Store, fn Handler, done chan struct{}) {
	defer close(done)
	defer cancel()

	log := s.logger()
	start := time.Now()
	log.Debug("processing started", zap.Duration("interval", s.interval()))

	// Closing rc unblocks a scan waiting in Read on a pipe or
	// terminal.
	defer context.AfterFunc(ctx, func() { rc.Close() })()

	var n counts
	var g errgroup.Group
	rd := timefmt.NewReader(rc, "")
	scanned := make(chan struct{})
	g.Go(func() error {
		defer close(scanned)
		defer rc.Close()
		return s.scan(ctx, rd, store, &n)
	})

	var err error
	if s.tick(ctx, scanned, store, fn) {
		err = g.Wait()
	} else {
		// Cancelled while the scan may still be blocked in Read. It
		// only ever adds to this run's store, so leave it behind.
		err = ctx.Err()
	}

	measures := s.snapshot(store)
	keys := store.Len()
	store.Reset()

	cancelled := err != nil && ctx.Err() != nil
	switch {
	case cancelled:
		s.Metrics.run(outcomeCancelled)
	case err != nil:
		// The log could not be read to the end. What was read is
		// still a valid result.
		file, record := rd.Pos()
		log.Warn("reading build log", zap.Error(err), zap.String("file", file), zap.Int("record", record))
		s.Metrics.run(outcomeFailed)
	default:
		s.Metrics.run(outcomeCompleted)
	}
	records, timings := int(n.records.Load()), int(n.timings.Load())
	s.Metrics.scanned(records, timings)
	log.Info("processing finished",
		zap.Int("records", records),
		zap.Int("timings", timings),
		zap.Int("keys", keys),
		zap.Int("measures", len(measures)),
		zap.Bool("cancelled", cancelled),
		zap.Duration("elapsed", time.Since(start)))

	s.idle()
	fn(measures, true, cancelled)
}

// scan reads records from rd into store until rd is exhausted or ctx
// is done. Cancellation is checked before each record.
func (s *Session) scan(ctx context.Context, rd *timefmt.Reader, store *measure.Store, n *counts) error {
	for rd.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		n.records.Add(1)
		t, ok := rd.Timing()
		if !ok {
			continue
		}
		n.timings.Add(1)
		store.Add(string(t.Key), t.Duration)
	}
	return rd.Err()
}

// tick delivers a partial result every interval until scanned is
// closed or ctx is done. It reports whether the scan finished.
func (s *Session) tick(ctx context.Context, scanned <-chan struct{}, store *measure.Store, fn Handler) bool {
	t := time.NewTicker(s.interval())
	defer t.Stop()
	for {
		select {
		case <-scanned:
			return true
		case <-ctx.Done():
			// Prefer a scan that has already finished.
			select {
			case <-scanned:
				return true
			default:
				return false
			}
		case <-t.C:
			// If the scan finished while we were waiting, skip
			// straight to the final result.
			select {
			case <-scanned:
				return true
			default:
			}
			fn(s.snapshot(store), false, false)
		}
	}
}

func (s *Session) snapshot(store *measure.Store) []measure.Measure {
	s.Metrics.snapshot()
	return measure.Build(store.Snapshot())
}
