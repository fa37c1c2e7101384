// encoder.go: the double-buffered binary record encoder (Logger)
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

// Handler consumes a filled buffer handed off by a Logger. The core makes
// no assumption about whether Handle blocks; it must complete processing
// (or copy p) before returning, since p is only valid for the duration of
// the call. Concrete handlers (disk, network, compression) are external
// collaborators, intentionally not provided by this package.
type Handler interface {
	Handle(p []byte) error
}

// Logger is the binary record encoder described in spec section 4.3. It
// owns two fixed-capacity buffers and is not safe for concurrent use: a
// single Logger is produced and mutated by exactly one writer.
type Logger struct {
	active, standby []byte
	capacity        int
	activeHasBase   bool
	converter       Converter
	handler         Handler
	registry        *Registry
	poisoned        bool
}

// Option configures a Logger at construction time.
type Option func(*Logger)

// WithRegistry overrides the format-string registry a Logger's convenience
// methods (LogFormat) intern against. Logger.Log itself is registry-agnostic:
// it only ever writes the format id it is given.
func WithRegistry(r *Registry) Option {
	return func(l *Logger) { l.registry = r }
}

// New creates a Logger with two buffers of the given capacity backed by
// handler. capacity must be large enough for the largest record the caller
// intends to log, including its base-record overhead; see Log for the
// exact accounting.
func New(capacity int, handler Handler, opts ...Option) (*Logger, error) {
	if capacity < baseRecordSize+deltaHeaderSize {
		return nil, newError(ErrCodeRecordTooLarge, "capacity too small to hold even an empty record")
	}
	if handler == nil {
		return nil, newError(ErrCodeHandlerFailure, "handler must not be nil")
	}

	l := &Logger{
		active:   make([]byte, 0, capacity),
		standby:  make([]byte, 0, capacity),
		capacity: capacity,
		handler:  handler,
		registry: DefaultRegistry,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Registry returns the registry this Logger's convenience methods intern
// against.
func (l *Logger) Registry() *Registry {
	return l.registry
}

// Log appends one record to the active buffer, rotating buffers first if
// necessary. It performs no heap allocation when args are scalars or
// static-string references; a dynamic string argument copies its bytes
// directly into the active buffer.
//
// Either the whole record is appended, or none of it is: Log never leaves
// the active buffer holding a partial record.
func (l *Logger) Log(formatID uint16, args ...Arg) error {
	if l.poisoned {
		return newEncoderPoisonedError()
	}

	payloadSize := 0
	for _, a := range args {
		payloadSize += a.encodedSize()
	}

	worstCase := payloadSize + deltaHeaderSize + baseRecordSize
	if worstCase > l.capacity {
		return newRecordTooLargeError(worstCase, l.capacity)
	}

	outcome := l.converter.Encode()
	needBase := outcome.Rebase || !l.activeHasBase
	size := payloadSize + deltaHeaderSize
	if needBase {
		size += baseRecordSize
	}

	if size > l.capacity-len(l.active) {
		if err := l.swapAndHandoff(); err != nil {
			return err
		}
		// The fresh active buffer has no base yet, so this retry always
		// needs one; worstCase already proved that fits in an empty buffer.
		outcome = l.converter.Encode()
		needBase = true
	}

	var delta uint16
	if needBase {
		l.active = appendBaseRecord(l.active, outcome.Now)
		l.converter.Adopt(outcome.Now)
		l.activeHasBase = true
	} else {
		delta = outcome.Delta
	}

	l.active = appendDeltaHeader(l.active, delta, formatID)
	for _, a := range args {
		l.active = appendArg(l.active, a)
	}
	return nil
}

// LogFormat is a convenience wrapper around Log that resolves format via
// site against the Logger's registry, caching the interned id at the call
// site the way the spec's compile-time macro contract describes.
func (l *Logger) LogFormat(site *CallSite, format string, args ...Arg) error {
	id, err := site.TryID(l.registry, &format)
	if err != nil {
		return err
	}
	return l.Log(id, args...)
}

// Flush hands the current active buffer to the handler, if non-empty, and
// clears it. Safe to call repeatedly.
func (l *Logger) Flush() error {
	if l.poisoned {
		return newEncoderPoisonedError()
	}
	if len(l.active) == 0 {
		return nil
	}
	return l.swapAndHandoff()
}

// Close flushes any pending data. It is the idiomatic Go stand-in for the
// spec's "flush on destruction" contract, since Go has no deterministic
// destructors.
func (l *Logger) Close() error {
	return l.Flush()
}

// Poisoned reports whether a prior handler failure has poisoned the
// encoder, per the Open Question resolution in spec section 9: a failing
// handler poisons the encoder rather than being silently retried.
func (l *Logger) Poisoned() bool {
	return l.poisoned
}

// Reset clears a poisoned state, allowing Log and Flush to proceed again.
// Callers are responsible for deciding the poisoning handler failure was
// transient; the core does not retry on their behalf.
func (l *Logger) Reset() {
	l.poisoned = false
}

// swapAndHandoff implements the protocol in spec section 4.3: the active
// buffer is handed to the handler synchronously, then the buffers swap
// roles. The buffer handed out is only valid for the duration of Handle.
func (l *Logger) swapAndHandoff() error {
	if len(l.active) == 0 {
		l.activeHasBase = false
		return nil
	}

	filled := l.active
	if err := l.handler.Handle(filled); err != nil {
		l.poisoned = true
		return newHandlerFailureError(err)
	}

	l.active, l.standby = l.standby[:0], filled[:0]
	l.activeHasBase = false
	return nil
}
