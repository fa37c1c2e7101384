// test_helpers.go: a minimal in-memory Handler for tests and examples
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import "sync"

// MemHandler is a Handler that appends every handed-off buffer to an
// in-memory slice, copying it first since the slice the core passes is
// only valid for the duration of Handle. It is intended for tests and
// small examples, not production use.
type MemHandler struct {
	mu      sync.Mutex
	buffers [][]byte
}

// NewMemHandler returns an empty MemHandler.
func NewMemHandler() *MemHandler {
	return &MemHandler{}
}

// Handle implements Handler.
func (h *MemHandler) Handle(p []byte) error {
	cp := make([]byte, len(p))
	copy(cp, p)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.buffers = append(h.buffers, cp)
	return nil
}

// Buffers returns the buffers handed off so far, in order.
func (h *MemHandler) Buffers() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([][]byte, len(h.buffers))
	copy(out, h.buffers)
	return out
}

// Bytes concatenates every buffer handed off so far into a single slice,
// suitable for feeding directly to a LogReader.
func (h *MemHandler) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []byte
	for _, b := range h.buffers {
		out = append(out, b...)
	}
	return out
}

// failingHandler always returns err, used to exercise the encoder's
// poison-on-handler-failure path.
type failingHandler struct {
	err error
}

func (h failingHandler) Handle(p []byte) error {
	return h.err
}
