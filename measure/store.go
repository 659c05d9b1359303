// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package measure

import (
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
)

// A RawMeasure is the accumulated timing of every record that shares
// a key.
type RawMeasure struct {
	// Key is the raw record payload, before any cleanup.
	Key string

	// Duration is the total duration of all records with this key,
	// in milliseconds.
	Duration float64

	// Occurrences is the number of records with this key.
	Occurrences int

	// seq orders RawMeasures by first sighting.
	seq uint64
}

const numShards = 32

// A Store accumulates RawMeasures by key. It is safe for one writer
// to call Add concurrently with any number of Snapshot calls.
//
// Keys are spread over independently locked shards, so a snapshot
// holds up a writer for at most one shard's copy.
//
// The zero Store is ready to use.
type Store struct {
	shards [numShards]shard
	seq    atomic.Uint64
}

type shard struct {
	mu sync.RWMutex
	m  map[string]*RawMeasure
}

func (s *Store) shard(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.shards[h.Sum32()%numShards]
}

// Add records one occurrence of key taking ms milliseconds.
func (s *Store) Add(key string, ms float64) {
	sh := s.shard(key)
	sh.mu.Lock()
	if m, ok := sh.m[key]; ok {
		m.Duration += ms
		m.Occurrences++
	} else {
		if sh.m == nil {
			sh.m = make(map[string]*RawMeasure)
		}
		sh.m[key] = &RawMeasure{Key: key, Duration: ms, Occurrences: 1, seq: s.seq.Add(1)}
	}
	sh.mu.Unlock()
}

// Snapshot returns a copy of every RawMeasure in s, in the order
// their keys were first added. It does not modify s.
func (s *Store) Snapshot() []RawMeasure {
	var out []RawMeasure
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for _, m := range sh.m {
			out = append(out, *m)
		}
		sh.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].seq < out[j].seq
	})
	return out
}

// Len returns the number of distinct keys in s.
func (s *Store) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}

// Reset removes every RawMeasure from s.
func (s *Store) Reset() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		sh.m = nil
		sh.mu.Unlock()
	}
}
