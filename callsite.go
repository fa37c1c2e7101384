// callsite.go: call-site format-string interning cache
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import "sync"

// CallSite caches the interned id of one format string across repeated log
// calls from the same source location, the Go stand-in for the compile-time
// macro contract in spec sections 6 and 9: a language without a guaranteed
// stable string-literal address instead caches the id in a per-call-site
// one-time-initialized slot, so the registry lookup by address happens
// exactly once per call site.
//
// A CallSite is meant to live as a package-level var next to the log call
// it serves, e.g.:
//
//	var (
//		connAccepted    binlog.CallSite
//		connAcceptedFmt = "conn accepted: peer={}"
//	)
//	...
//	logger.Log(connAccepted.ID(reg, &connAcceptedFmt), binlog.Str(peer))
type CallSite struct {
	once sync.Once
	id   uint16
	err  error
}

// TryID resolves format's id against reg, interning on first use and
// caching the result (including a failure) for the lifetime of the
// CallSite. The Intern call underneath takes Registry's write lock only on
// that first use.
func (s *CallSite) TryID(reg *Registry, format *string) (uint16, error) {
	s.once.Do(func() {
		s.id, s.err = reg.Intern(format)
	})
	return s.id, s.err
}

// ID is TryID without an error return, for callers that have already
// established the registry has room (the common case: registry exhaustion
// at 65536 distinct format strings is not expected in normal operation).
// A failed intern resolves to id 0 permanently for this CallSite.
func (s *CallSite) ID(reg *Registry, format *string) uint16 {
	id, _ := s.TryID(reg, format)
	return id
}
