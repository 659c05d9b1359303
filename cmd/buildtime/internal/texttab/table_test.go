// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	check := func(tab *Table, want string) {
		t.Helper()
		var buf strings.Builder
		if err := tab.Format(&buf); err != nil {
			t.Fatal(err)
		}
		got := buf.String()
		if got != want {
			t.Errorf("got:\n%s\nwant:\n%s", got, want)
		}
	}

	var tab Table
	check(&tab, "")

	tab.Row().Cell("time", Right).Cell("count", Right).Cell("symbol")
	tab.Row().Cell("700.0ms", Right).Cell("50", Right).Cell("func a()")
	tab.Row().Cell("1.5ms", Right).Cell("1", Right).Cell("init(x:)")
	check(&tab, `   time  count  symbol
700.0ms     50  func a()
  1.5ms      1  init(x:)
`)

	// Short rows and multibyte text.
	tab = Table{Margin: " | "}
	tab.Row().Cell("ä").Cell("b")
	tab.Row().Cell("long")
	tab.Row().Cell("x").Cell("yy").Cell("z")
	check(&tab, `ä    | b
long
x    | yy | z
`)
}
