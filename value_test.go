// value_test.go
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArgEncodedSizes(t *testing.T) {
	require.Equal(t, 1+2+3, Str("abc").encodedSize())
	require.Equal(t, 1+2, StaticID(7).encodedSize())
	require.Equal(t, 1+8, Int(-1).encodedSize())
	require.Equal(t, 1+8, Uint(1).encodedSize())
	require.Equal(t, 1+8, Float(3.14).encodedSize())
	require.Equal(t, 1+1, Bool(true).encodedSize())
}

func TestStaticStrInternsAndWraps(t *testing.T) {
	reg := NewRegistry()
	s := "hello={}"
	arg, err := StaticStr(reg, &s)
	require.NoError(t, err)
	require.Equal(t, ArgStaticString, arg.typ)

	id, err := reg.Intern(&s)
	require.NoError(t, err)
	require.Equal(t, uint64(id), arg.u64)
}

func TestBoolArgEncodesZeroOrOne(t *testing.T) {
	require.Equal(t, uint64(1), Bool(true).u64)
	require.Equal(t, uint64(0), Bool(false).u64)
}
