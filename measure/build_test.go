// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package measure

import (
	"fmt"
	"reflect"
	"testing"
)

func raws(durations ...float64) []RawMeasure {
	var out []RawMeasure
	for i, d := range durations {
		out = append(out, RawMeasure{
			Key:         fmt.Sprintf("/src/f%d.swift:%d:1\tfunc f%d()\r", i, i+1, i),
			Duration:    d,
			Occurrences: 1,
		})
	}
	return out
}

func durations(ms []Measure) []float64 {
	var out []float64
	for _, m := range ms {
		out = append(out, m.Duration)
	}
	return out
}

func TestBuildExample(t *testing.T) {
	var s Store
	s.Add("/a/b.swift:foo()\r", 12.5)
	s.Add("/a/b.swift:foo()\r", 3.0)
	got := Build(s.Snapshot())
	want := []Measure{{Path: "/a/b.swift:foo()", Symbol: "-", Duration: 15.5, Occurrences: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestBuildThresholds(t *testing.T) {
	many := make([]float64, 0, 30)
	for i := 0; i < 25; i++ {
		many = append(many, 11+float64(i))
	}
	nineteen := make([]float64, 0, 30)
	for i := 0; i < 19; i++ {
		nineteen = append(nineteen, 11+float64(i))
	}
	twenty := append(append([]float64{5}, nineteen...), 10.5)

	for _, test := range []struct {
		name string
		in   []float64
		want int
	}{
		{"high", append(append([]float64{}, many...), 5, 0.5, 0.01), 25},
		{"exactly twenty", twenty, 20},
		{"fallback", append(append([]float64{}, nineteen...), 5, 0.5, 0.11, 0.1, 0.05), 22},
		{"small project", []float64{0.2, 1, 3, 9.9, 10}, 5},
		{"nothing", []float64{0.1, 0.05, 0}, 0},
		{"empty", nil, 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := Build(raws(test.in...))
			if len(got) != test.want {
				t.Errorf("got %d measures %v, want %d", len(got), durations(got), test.want)
			}
		})
	}
}

func TestBuildOrder(t *testing.T) {
	in := raws(1, 5, 3, 5, 0.5, 9, 3)
	got := Build(in)
	if want := []float64{9, 5, 5, 3, 3, 1, 0.5}; !reflect.DeepEqual(durations(got), want) {
		t.Fatalf("got durations %v, want %v", durations(got), want)
	}
	// Ties keep input order.
	if got[1].Symbol != "func f1()" || got[2].Symbol != "func f3()" {
		t.Errorf("tied 5ms measures out of order: %s, %s", got[1].Symbol, got[2].Symbol)
	}
	if got[3].Symbol != "func f2()" || got[4].Symbol != "func f6()" {
		t.Errorf("tied 3ms measures out of order: %s, %s", got[3].Symbol, got[4].Symbol)
	}
	// Build must not reorder its input.
	if in[0].Duration != 1 || in[5].Duration != 9 {
		t.Errorf("Build modified its input")
	}
}

func TestBuildClean(t *testing.T) {
	for _, test := range []struct {
		key    string
		ok     bool
		path   string
		symbol string
	}{
		{"/a.swift:1:2\tget {}\r", true, "/a.swift:1:2", "get {}"},
		{"/a.swift:1:2\r", true, "/a.swift:1:2", "-"},
		{"\"/a b.swift\"\tf()\r", true, "/a b.swift", "f()"},
		{"/a.swift\t\tf()\r", true, "/a.swift", "f()"},
		{"/a.swift\t@objc final func f()\r", true, "/a.swift", "func f()"},
		{"/a.swift\t@IBAction func tap(_:)\r", true, "/a.swift", "func tap(_:)"},
		{"/a.swift\tf()\textra\r", true, "/a.swift", "f()"},
		{"\"\r\tf()\r", false, "", ""},
		{"\t\t\r", false, "", ""},
		{"", false, "", ""},
	} {
		m, ok := clean(RawMeasure{Key: test.key, Duration: 1, Occurrences: 1})
		if ok != test.ok {
			t.Errorf("clean(%q): got ok=%v, want %v", test.key, ok, test.ok)
			continue
		}
		if ok && (m.Path != test.path || m.Symbol != test.symbol) {
			t.Errorf("clean(%q) = %q, %q; want %q, %q", test.key, m.Path, m.Symbol, test.path, test.symbol)
		}
	}
}

func TestBuildDropsEmptyPath(t *testing.T) {
	in := []RawMeasure{
		{Key: "\"\"\r", Duration: 4, Occurrences: 1},
		{Key: "/a.swift\r", Duration: 2, Occurrences: 1},
	}
	got := Build(in)
	if len(got) != 1 || got[0].Path != "/a.swift" {
		t.Errorf("got %+v, want only /a.swift", got)
	}
}

func TestStripQualifiers(t *testing.T) {
	for _, test := range []struct{ in, want string }{
		{"func f()", "func f()"},
		{"@objc func f()", "func f()"},
		{"final func f()", "func f()"},
		{"@IBAction func f()", "func f()"},
		{"@objc final func f()", "func f()"},
		{"@objc final @IBAction func f()", "func f()"},
		// Each prefix goes at most once, and only in order.
		{"@objc @objc func f()", "@objc func f()"},
		{"final @objc func f()", "@objc func f()"},
		{"private final func f()", "private final func f()"},
		{"@objcfunc f()", "@objcfunc f()"},
	} {
		if got := StripQualifiers(test.in); got != test.want {
			t.Errorf("StripQualifiers(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestLocation(t *testing.T) {
	m := Measure{Path: "/src/App/View.swift:14:10"}
	loc, ok := m.Location()
	want := Location{File: "/src/App/View.swift", Name: "View.swift", Line: 14, Column: 10}
	if !ok || loc != want {
		t.Errorf("got %+v %v, want %+v", loc, ok, want)
	}
	for _, path := range []string{"/a/b.swift:foo()", "/a/b.swift", "/a/b.swift:1", "/a/b.swift:x:1"} {
		m := Measure{Path: path}
		if _, ok := m.Location(); ok {
			t.Errorf("Location of %q: got ok, want failure", path)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	for _, test := range []struct {
		ms   float64
		want string
	}{
		{15.5, "15.5ms"},
		{0.04, "0.0ms"},
		{1234.56, "1234.6ms"},
	} {
		m := Measure{Duration: test.ms}
		if got := m.FormatDuration(); got != test.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", test.ms, got, test.want)
		}
	}
}
