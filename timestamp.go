// timestamp.go: cycle-timestamp sampling and base/delta accounting
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import (
	"sync/atomic"

	"github.com/agilira/go-timecache"
)

// deltaLimit is the largest relative timestamp a type-0 record can carry.
// 16 bits, per the wire format in spec section 6.
const deltaLimit = 1<<16 - 1

// lastSample is the high-water mark handed out by sample, across every
// Converter in the process. go-timecache's background-refreshed reading can
// step backwards on a wall-clock adjustment (e.g. NTP); clamping to this
// mark keeps the sequence of samples monotonically non-decreasing, as
// section 4.1 requires, without needing a monotonic clock source of our own.
var lastSample int64

// sample returns a cycle-like nanosecond value from go-timecache's cached
// clock, the same hot-path time source the teacher's sampler.go and
// encoder-json.go/encoder-text.go read (timecache.CachedTimeNano()) rather
// than calling time.Now() on every record.
func sample() uint64 {
	now := timecache.CachedTimeNano()
	for {
		prev := atomic.LoadInt64(&lastSample)
		if now <= prev {
			return uint64(prev)
		}
		if atomic.CompareAndSwapInt64(&lastSample, prev, now) {
			return uint64(now)
		}
	}
}

// Outcome is the result of asking a Converter to encode a timestamp.
type Outcome struct {
	// Rebase is true when the caller must emit a type-1 base record
	// carrying Now before any subsequent type-0 record.
	Rebase bool
	// Delta is the 16-bit cycle delta against the current base. Only
	// meaningful when Rebase is false.
	Delta uint16
	// Now is the absolute sample that produced this Outcome, always set.
	Now uint64
}

// Converter owns the rolling base against which record timestamps are
// delta-encoded. It is not safe for concurrent use: a Logger owns exactly
// one Converter, matching the engine's single-writer-per-encoder contract.
type Converter struct {
	base    uint64
	hasBase bool
}

// Encode samples the clock and returns the Outcome for the next record.
// If no base is established yet, or the delta against the current base
// would overflow 16 bits, it reports Rebase and the caller is responsible
// for adopting the new base via Adopt (done by Logger on its behalf).
func (c *Converter) Encode() Outcome {
	now := sample()
	if !c.hasBase || now < c.base || now-c.base > deltaLimit {
		return Outcome{Rebase: true, Now: now}
	}
	return Outcome{Delta: uint16(now - c.base), Now: now}
}

// Adopt sets now as the converter's new base, as required after emitting a
// type-1 record.
func (c *Converter) Adopt(now uint64) {
	c.base = now
	c.hasBase = true
}

// Reset drops the current base, forcing the next Encode to report Rebase.
func (c *Converter) Reset() {
	c.hasBase = false
	c.base = 0
}

// HasBase reports whether a base timestamp is currently established.
func (c *Converter) HasBase() bool {
	return c.hasBase
}
