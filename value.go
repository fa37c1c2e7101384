// value.go: argument value tags and encoding, per spec section 3
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import "math"

// ArgType is the one-byte value-type tag prefixing every argument value.
type ArgType uint8

const (
	// ArgDynamicString is a caller-owned string, copied into the buffer.
	ArgDynamicString ArgType = 0
	// ArgStaticString is a registry reference to an interned static string.
	ArgStaticString ArgType = 1
	// ArgInt64 is a signed 64-bit integer.
	ArgInt64 ArgType = 2
	// ArgUint64 is an unsigned 64-bit integer.
	ArgUint64 ArgType = 3
	// ArgFloat64 is an IEEE-754 64-bit binary float.
	ArgFloat64 ArgType = 4
	// ArgBool is a single boolean byte.
	ArgBool ArgType = 5
)

// Arg is one argument value destined for a record's payload. Callers build
// Args with the constructors below; Logger.Log encodes them directly into
// its active buffer without any intermediate allocation for scalar and
// static-string kinds.
type Arg struct {
	typ ArgType
	u64 uint64 // backing storage for int64/uint64/float64/bool
	str string // backing storage for dynamic/static string payloads
}

// Str builds a dynamic string argument; its bytes are copied into the
// encoder's buffer at Log time.
func Str(s string) Arg { return Arg{typ: ArgDynamicString, str: s} }

// StaticID builds a static-string-reference argument directly from an
// already-interned registry id. This is the zero-allocation, zero-lookup
// path a call-site macro (see CallSite) is expected to use: the string was
// interned once, and only its compact id crosses the hot path from then on.
func StaticID(id uint16) Arg { return Arg{typ: ArgStaticString, u64: uint64(id)} }

// StaticStr interns s in reg and wraps the resulting id as a static-string
// argument. Provided for callers without a pre-resolved CallSite; it pays
// the interning cost (amortized to a single map lookup after first use)
// rather than a raw pointer comparison.
func StaticStr(reg *Registry, s *string) (Arg, error) {
	id, err := reg.Intern(s)
	if err != nil {
		return Arg{}, err
	}
	return StaticID(id), nil
}

// Int builds a signed 64-bit integer argument.
func Int(v int64) Arg { return Arg{typ: ArgInt64, u64: uint64(v)} }

// Uint builds an unsigned 64-bit integer argument.
func Uint(v uint64) Arg { return Arg{typ: ArgUint64, u64: v} }

// Float builds a 64-bit floating point argument.
func Float(v float64) Arg { return Arg{typ: ArgFloat64, u64: math.Float64bits(v)} }

// Bool builds a boolean argument.
func Bool(v bool) Arg {
	a := Arg{typ: ArgBool}
	if v {
		a.u64 = 1
	}
	return a
}

// encodedSize returns the number of bytes this argument occupies in a
// record payload, including its one-byte type tag.
func (a Arg) encodedSize() int {
	switch a.typ {
	case ArgDynamicString:
		return 1 + 2 + len(a.str)
	case ArgStaticString:
		return 1 + 2
	case ArgInt64, ArgUint64, ArgFloat64:
		return 1 + 8
	case ArgBool:
		return 1 + 1
	default:
		return 0
	}
}

// DecodedArg is a reconstructed argument value, as produced by LogReader.
type DecodedArg struct {
	Type ArgType
	Str  string // set for ArgDynamicString and resolved ArgStaticString
	I64  int64  // set for ArgInt64
	U64  uint64 // set for ArgUint64
	F64  float64
	Bool bool
	// FormatID is set for ArgStaticString, the registry id as it appeared
	// on the wire, regardless of whether it resolved.
	FormatID uint16
	// Unresolved is true when an ArgStaticString's id was not found in the
	// registry supplied to the decoder.
	Unresolved bool
}
