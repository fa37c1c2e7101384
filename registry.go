// registry.go: process-wide format-string interning registry
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import (
	"sync"
	"unsafe"
)

// maxFormatIDs is the size of the 16-bit identifier space (spec section 4.2).
const maxFormatIDs = 1 << 16

// Registry assigns stable, compact 16-bit identifiers to static format
// strings, shared process-wide across every Logger. It keys on the address
// of the string's backing data, not its contents: two identical strings
// stored at different addresses intern to different ids. This makes the
// hot-path check a single pointer comparison instead of a string compare.
//
// Many readers, occasional writers: Intern takes the write lock only on a
// call site's first use (typically cached afterward via a CallSite), and
// Lookup takes the read lock, matching the concurrency policy in spec
// section 5.
type Registry struct {
	mu   sync.RWMutex
	ids  map[uintptr]uint16
	strs []string
}

// NewRegistry creates an empty format-string registry.
func NewRegistry() *Registry {
	return &Registry{
		ids: make(map[uintptr]uint16),
	}
}

// DefaultRegistry is the process-wide registry used by Loggers that are not
// given an explicit one.
var DefaultRegistry = NewRegistry()

func stringAddr(s *string) uintptr {
	// #nosec G103 -- address equality is the registry's identity policy,
	// per spec section 4.2; this is not a memory-safety escape hatch.
	return uintptr(unsafe.Pointer(unsafe.StringData(*s)))
}

// Intern returns the 16-bit identifier for s, assigning a fresh one in
// first-seen order if this exact storage has not been interned before.
// Identifiers are dense starting at zero. Returns an error with code
// ErrCodeRegistryExhausted once
// 65536 distinct format strings have been interned.
func (r *Registry) Intern(s *string) (uint16, error) {
	addr := stringAddr(s)

	r.mu.RLock()
	if id, ok := r.ids[addr]; ok {
		r.mu.RUnlock()
		return id, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check: another writer may have interned this address while we
	// waited for the write lock.
	if id, ok := r.ids[addr]; ok {
		return id, nil
	}

	if len(r.strs) >= maxFormatIDs {
		return 0, newRegistryExhaustedError(len(r.strs))
	}

	id := uint16(len(r.strs))
	r.strs = append(r.strs, *s)
	r.ids[addr] = id
	return id, nil
}

// Lookup returns the original string for id, or ("", false) if no such id
// has ever been assigned in this registry.
func (r *Registry) Lookup(id uint16) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if int(id) >= len(r.strs) {
		return "", false
	}
	return r.strs[id], true
}

// Snapshot is a stable copy of a Registry's id-to-string table, sufficient
// to decode a log stream produced under the registry it was taken from.
type Snapshot struct {
	strs []string
}

// Snapshot returns a stable, independent copy of the registry's current
// state. Mutations to r after Snapshot returns are not reflected in it.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	strs := make([]string, len(r.strs))
	copy(strs, r.strs)
	return Snapshot{strs: strs}
}

// Lookup resolves id against the snapshot, implementing the lookup function
// contract LogReader expects.
func (s Snapshot) Lookup(id uint16) (string, bool) {
	if int(id) >= len(s.strs) {
		return "", false
	}
	return s.strs[id], true
}

// Len returns the number of strings captured in the snapshot.
func (s Snapshot) Len() int {
	return len(s.strs)
}

// Encode serializes the snapshot as a flat, length-prefixed table so it can
// be persisted next to a log file: a 4-byte count, followed by each string
// as a 2-byte length plus its bytes, in id order. This is deliberately not
// a versioned schema (spec section 1: no structured schema evolution) — a
// snapshot is only ever read back by a decoder that already knows it is
// reading this engine's own table format.
func (s Snapshot) Encode() []byte {
	size := 4
	for _, str := range s.strs {
		size += 2 + len(str)
	}

	out := make([]byte, 0, size)
	var countBuf [4]byte
	n := uint32(len(s.strs))
	for i := 0; i < 4; i++ {
		countBuf[i] = byte(n >> (8 * i))
	}
	out = append(out, countBuf[:]...)

	for _, str := range s.strs {
		var lenBuf [2]byte
		putUint16(lenBuf[:], uint16(len(str)))
		out = append(out, lenBuf[:]...)
		out = append(out, str...)
	}
	return out
}

// DecodeSnapshot parses the wire format written by Snapshot.Encode.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	if len(data) < 4 {
		return Snapshot{}, newMalformedInputError("truncated snapshot count")
	}
	count := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	pos := 4

	strs := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+2 > len(data) {
			return Snapshot{}, newMalformedInputError("truncated snapshot entry length")
		}
		n := int(getUint16(data[pos : pos+2]))
		pos += 2
		if pos+n > len(data) {
			return Snapshot{}, newMalformedInputError("truncated snapshot entry body")
		}
		strs = append(strs, string(data[pos:pos+n]))
		pos += n
	}
	return Snapshot{strs: strs}, nil
}
