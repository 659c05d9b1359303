// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package measure

import "sort"

// An Order reports whether measure a sorts before measure b.
type Order func(a, b *Measure) bool

// ByDuration sorts measures from slowest to fastest.
func ByDuration(a, b *Measure) bool {
	return a.Duration > b.Duration
}

// ByFile sorts measures by source file name, then by line.
// Measures without a location sort by Path after those with one.
func ByFile(a, b *Measure) bool {
	la, oka := a.Location()
	lb, okb := b.Location()
	switch {
	case oka && okb:
		if la.Name != lb.Name {
			return la.Name < lb.Name
		}
		if la.File != lb.File {
			return la.File < lb.File
		}
		return la.Line < lb.Line
	case oka != okb:
		return oka
	}
	return a.Path < b.Path
}

// ByOccurrences sorts measures from most to least repeated.
func ByOccurrences(a, b *Measure) bool {
	return a.Occurrences > b.Occurrences
}

// Reverse returns the reverse of order.
func Reverse(order Order) Order {
	return func(a, b *Measure) bool { return order(b, a) }
}

// Sort sorts ms in place by order. Measures that order does not
// distinguish keep their relative order.
func Sort(ms []Measure, order Order) {
	sort.SliceStable(ms, func(i, j int) bool { return order(&ms[i], &ms[j]) })
}
