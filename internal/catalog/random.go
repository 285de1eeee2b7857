// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import (
	"math/rand/v2"
	"sync"
)

// RandSource draws seed values for like counts. *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// NewRandSource returns a source seeded with seed, or from the runtime
// when seed is zero.
func NewRandSource(seed uint64) RandSource {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// lockedRand serializes access for the page fan-out goroutines.
type lockedRand struct {
	mu  sync.Mutex
	src RandSource
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.IntN(n)
}

// between returns a value in [lo, hi].
func between(r RandSource, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}
