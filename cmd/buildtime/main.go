// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Buildtime reports which Swift functions take longest to compile.
//
// Usage:
//
//	buildtime [flags] [log ...]
//
// Each log is a build log from a build with the Swift frontend flag
// -debug-time-function-bodies, either as plain text or as a
// compressed Xcode activity log (.xcactivitylog, found under
// DerivedData/<project>/Logs/Build). With no logs, or with "-",
// buildtime reads standard input.
//
// For each log, buildtime prints the functions that took longest to
// type-check, combining repeated timings of the same function:
//
//	$ buildtime -top 3 Build.xcactivitylog
//	    time  count  location                 symbol
//	1204.3ms      2  ProfileView.swift:88:17  var body: some View { get }
//	 310.9ms      1  Theme.swift:12:5         static func palette() -> [Color]
//	  48.0ms     12  Cell.swift:30:10         func prepareForReuse()
//	3 functions, 15 records, total 1563.2ms, mean 521.1ms, median 310.9ms, p90 1204.3ms, max 1204.3ms
//
// Functions that took 10ms or less are omitted, unless that would
// leave fewer than 20 functions.
//
// The -sort flag orders the output by time (the default), file, or
// count. A leading "-", as in "-time", reverses the order. The -top
// flag limits the output to the slowest n functions before sorting.
//
// The -format flag selects text or csv output. CSV output includes
// full paths and unrounded durations.
//
// The -progress flag prints a status line to standard error each time
// a partial result is available, every -interval.
//
// Interrupting buildtime stops reading the current log and prints
// what was found so far.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/buildtime-analyzer/buildtime/measure"
	"github.com/buildtime-analyzer/buildtime/session"
)

var exit = os.Exit // replaced during testing

// errUsage indicates a command line error. The usage message has
// already been printed.
var errUsage = errors.New("usage error")

func main() {
	log.SetPrefix("buildtime: ")
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		// Let a second interrupt kill the process.
		<-ctx.Done()
		stop()
	}()

	err := buildtime(ctx, os.Stdout, os.Stderr, os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp), errors.Is(err, errUsage):
		exit(2)
	default:
		log.Fatal(err)
	}
}

var sortOrders = map[string]measure.Order{
	"time":  measure.ByDuration,
	"file":  measure.ByFile,
	"count": measure.ByOccurrences,
}

func buildtime(ctx context.Context, w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("buildtime", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: buildtime [flags] [log ...]\n")
		flags.PrintDefaults()
	}
	flagTop := flags.Int("top", 0, "show only the `n` slowest functions (0 for all)")
	flagSort := flags.String("sort", "time", "sort by `order`: [-]time, [-]file, [-]count")
	flagFormat := flags.String("format", "text", "print results in `format`:\ntext - plain text\ncsv  - comma-separated values")
	flagProgress := flags.Bool("progress", false, "print partial results to stderr while reading")
	flagInterval := flags.Duration("interval", session.DefaultInterval, "report partial results every `duration`")
	flagMetrics := flags.Bool("metrics", false, "print processing metrics to stderr when done")
	flagVerbose := flags.Bool("v", false, "log processing details to stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	sortName := *flagSort
	reverse := strings.HasPrefix(sortName, "-")
	order, ok := sortOrders[strings.TrimPrefix(sortName, "-")]
	if !ok {
		fmt.Fprintf(wErr, "unknown -sort order %q\n", sortName)
		flags.Usage()
		return errUsage
	}
	if reverse {
		order = measure.Reverse(order)
	}
	var format func(w io.Writer, ms []measure.Measure) error
	switch *flagFormat {
	case "text":
		format = formatText
	case "csv":
		format = formatCSV
	default:
		fmt.Fprintf(wErr, "unknown -format %q\n", *flagFormat)
		flags.Usage()
		return errUsage
	}
	if *flagTop < 0 {
		fmt.Fprintf(wErr, "-top must not be negative\n")
		flags.Usage()
		return errUsage
	}

	logger := zap.NewNop()
	if *flagVerbose {
		logger = newLogger(wErr)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	s := &session.Session{
		Interval: *flagInterval,
		Logger:   logger,
		Metrics:  session.NewMetrics(reg),
	}

	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	for i, path := range paths {
		var src session.Source
		if path == "-" {
			src = session.Reader(os.Stdin)
		} else {
			src = session.File(path)
		}

		var progress session.Handler
		if *flagProgress {
			progress = progressPrinter(wErr, path)
		}
		ms, cancelled, err := process(ctx, s, src, progress)
		if err != nil {
			return err
		}

		if len(paths) > 1 {
			if i > 0 {
				fmt.Fprintf(w, "\n")
			}
			fmt.Fprintf(w, "%s:\n", path)
		}
		summary := measure.Summarize(ms)
		if *flagTop > 0 && len(ms) > *flagTop {
			ms = ms[:*flagTop]
		}
		measure.Sort(ms, order)
		if err := format(w, ms); err != nil {
			return err
		}
		if *flagFormat == "text" {
			fmt.Fprintf(w, "%s\n", summary)
		}
		if cancelled {
			return fmt.Errorf("%s: interrupted; results are partial", path)
		}
	}

	if *flagMetrics {
		if err := writeMetrics(wErr, reg); err != nil {
			return err
		}
	}
	return nil
}

// process runs s on src and returns its final result. If progress is
// non-nil, it receives the partial results.
func process(ctx context.Context, s *session.Session, src session.Source, progress session.Handler) (ms []measure.Measure, cancelled bool, err error) {
	err = s.Run(ctx, src, func(m []measure.Measure, completed, c bool) {
		if !completed {
			if progress != nil {
				progress(m, completed, c)
			}
			return
		}
		ms, cancelled = m, c
	})
	return ms, cancelled, err
}

func progressPrinter(w io.Writer, path string) session.Handler {
	start := time.Now()
	return func(ms []measure.Measure, completed, cancelled bool) {
		if len(ms) == 0 {
			fmt.Fprintf(w, "%s: no timings yet (%s)\n", path, time.Since(start).Round(time.Millisecond))
			return
		}
		fmt.Fprintf(w, "%s: %d functions so far, slowest %s %s (%s)\n",
			path, len(ms), ms[0].FormatDuration(), ms[0].Symbol, time.Since(start).Round(time.Millisecond))
	}
}

func newLogger(w io.Writer) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
