// encoder_test.go
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsUndersizedCapacity(t *testing.T) {
	_, err := New(baseRecordSize, NewMemHandler())
	require.Error(t, err)
}

func TestNewRejectsNilHandler(t *testing.T) {
	_, err := New(4096, nil)
	require.Error(t, err)
}

func TestFlushOnEmptyLoggerIsNoop(t *testing.T) {
	h := NewMemHandler()
	l, err := New(4096, h)
	require.NoError(t, err)

	require.NoError(t, l.Flush())
	require.Empty(t, h.Buffers())
}

func TestLogSingleRecordProducesBaseThenDelta(t *testing.T) {
	h := NewMemHandler()
	reg := NewRegistry()
	l, err := New(4096, h, WithRegistry(reg))
	require.NoError(t, err)

	format := "x={}"
	id, err := reg.Intern(&format)
	require.NoError(t, err)

	require.NoError(t, l.Log(id, Int(7)))
	require.NoError(t, l.Flush())

	buf := h.Bytes()
	require.NotEmpty(t, buf)

	reader := NewLogReaderFromSnapshot(buf, reg.Snapshot())
	entries, err := reader.All()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, format, entries[0].Format)
	require.Equal(t, int64(7), entries[0].Args[0].I64)
}

func TestLogTwoRecordsWithinDeltaRangeShareBase(t *testing.T) {
	h := NewMemHandler()
	reg := NewRegistry()
	l, err := New(4096, h, WithRegistry(reg))
	require.NoError(t, err)

	format := "tick={}"
	id, err := reg.Intern(&format)
	require.NoError(t, err)

	require.NoError(t, l.Log(id, Int(1)))
	require.NoError(t, l.Log(id, Int(2)))
	require.NoError(t, l.Flush())

	buf := h.Bytes()
	// Exactly one base record (type 1) should precede both deltas.
	baseCount := 0
	for i := 0; i < len(buf); {
		switch buf[i] {
		case recordBase:
			baseCount++
			i += baseRecordSize
		case recordDelta:
			i += deltaHeaderSize + Int(0).encodedSize()
		default:
			t.Fatalf("unexpected tag %d", buf[i])
		}
	}
	require.Equal(t, 1, baseCount)

	reader := NewLogReaderFromSnapshot(buf, reg.Snapshot())
	entries, err := reader.All()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.LessOrEqual(t, entries[0].Timestamp, entries[1].Timestamp)
}

func TestLogForcesRebaseAfterReset(t *testing.T) {
	h := NewMemHandler()
	reg := NewRegistry()
	l, err := New(4096, h, WithRegistry(reg))
	require.NoError(t, err)

	format := "event={}"
	id, err := reg.Intern(&format)
	require.NoError(t, err)

	require.NoError(t, l.Log(id, Int(1)))
	l.converter.Reset()
	l.activeHasBase = false
	require.NoError(t, l.Log(id, Int(2)))
	require.NoError(t, l.Flush())

	baseCount := 0
	buf := h.Bytes()
	for i := 0; i < len(buf); {
		if buf[i] == recordBase {
			baseCount++
			i += baseRecordSize
		} else {
			i += deltaHeaderSize + Int(0).encodedSize()
		}
	}
	require.Equal(t, 2, baseCount)
}

func TestLogRotatesBufferOnOverflowPreservingBytes(t *testing.T) {
	h := NewMemHandler()
	reg := NewRegistry()
	format := "n={}"
	id, err := reg.Intern(&format)
	require.NoError(t, err)

	recordSize := deltaHeaderSize + Int(0).encodedSize()
	capacity := baseRecordSize + recordSize*3
	l, err := New(capacity, h, WithRegistry(reg))
	require.NoError(t, err)

	const total = 20
	for i := 0; i < total; i++ {
		require.NoError(t, l.Log(id, Int(int64(i))))
	}
	require.NoError(t, l.Flush())

	require.Greater(t, len(h.Buffers()), 1)

	reader := NewLogReaderFromSnapshot(h.Bytes(), reg.Snapshot())
	entries, err := reader.All()
	require.NoError(t, err)
	require.Len(t, entries, total)
	for i, e := range entries {
		require.Equal(t, int64(i), e.Args[0].I64)
	}
}

func TestLogRejectsRecordLargerThanCapacity(t *testing.T) {
	h := NewMemHandler()
	reg := NewRegistry()
	l, err := New(baseRecordSize+deltaHeaderSize+4, h, WithRegistry(reg))
	require.NoError(t, err)

	format := "big={}"
	id, err := reg.Intern(&format)
	require.NoError(t, err)

	err = l.Log(id, Str("this string is far too long to fit in the tiny buffer"))
	require.Error(t, err)
	require.True(t, IsCode(err, ErrCodeRecordTooLarge))
}

func TestHandlerFailurePoisonsEncoder(t *testing.T) {
	l, err := New(4096, failingHandler{err: errors.New("disk full")})
	require.NoError(t, err)

	format := "x={}"
	id, err := l.registry.Intern(&format)
	require.NoError(t, err)

	require.NoError(t, l.Log(id, Int(1)))
	err = l.Flush()
	require.Error(t, err)
	require.True(t, l.Poisoned())

	err = l.Log(id, Int(2))
	require.Error(t, err)
	require.True(t, IsCode(err, ErrCodeEncoderPoisoned))

	l.Reset()
	require.False(t, l.Poisoned())
}

func TestLogFormatCachesCallSite(t *testing.T) {
	h := NewMemHandler()
	reg := NewRegistry()
	l, err := New(4096, h, WithRegistry(reg))
	require.NoError(t, err)

	var site CallSite
	require.NoError(t, l.LogFormat(&site, "cached={}", Int(1)))
	require.NoError(t, l.LogFormat(&site, "cached={}", Int(2)))
	require.NoError(t, l.Flush())

	entries, err := NewLogReaderFromSnapshot(h.Bytes(), reg.Snapshot()).All()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entries[0].FormatID, entries[1].FormatID)
}
