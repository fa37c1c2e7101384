// record.go: record byte layout, per spec section 6
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

// recordType tags distinguish base records from delta records.
const (
	recordDelta uint8 = 0
	recordBase  uint8 = 1
)

// baseRecordSize is the fixed size of a type-1 record: type + rel_ts +
// format_id + absolute base timestamp, no payload.
const baseRecordSize = 1 + 2 + 2 + 8

// deltaHeaderSize is the fixed size of a type-0 record's header, before
// its argument payload.
const deltaHeaderSize = 1 + 2 + 2

func putUint16(buf []byte, v uint16) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
}

func getUint16(buf []byte) uint16 {
	return uint16(buf[0]) | uint16(buf[1])<<8
}

func putUint64(buf []byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

func getUint64(buf []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(buf[i]) << (8 * i)
	}
	return v
}

// appendBaseRecord appends a type-1 base record carrying absolute timestamp
// now to dst and returns the extended slice.
func appendBaseRecord(dst []byte, now uint64) []byte {
	var hdr [baseRecordSize]byte
	hdr[0] = recordBase
	putUint16(hdr[1:3], 0)
	putUint16(hdr[3:5], 0)
	putUint64(hdr[5:13], now)
	return append(dst, hdr[:]...)
}

// appendDeltaHeader appends a type-0 record header (without payload) to dst
// and returns the extended slice.
func appendDeltaHeader(dst []byte, delta uint16, formatID uint16) []byte {
	var hdr [deltaHeaderSize]byte
	hdr[0] = recordDelta
	putUint16(hdr[1:3], delta)
	putUint16(hdr[3:5], formatID)
	return append(dst, hdr[:]...)
}

// appendArg appends one tagged argument value to dst and returns the
// extended slice. Dynamic strings are copied byte-for-byte; everything else
// is a fixed-width scalar.
func appendArg(dst []byte, a Arg) []byte {
	dst = append(dst, byte(a.typ))
	switch a.typ {
	case ArgDynamicString:
		var lenBuf [2]byte
		putUint16(lenBuf[:], uint16(len(a.str)))
		dst = append(dst, lenBuf[:]...)
		dst = append(dst, a.str...)
	case ArgStaticString:
		var idBuf [2]byte
		putUint16(idBuf[:], uint16(a.u64))
		dst = append(dst, idBuf[:]...)
	case ArgInt64, ArgUint64, ArgFloat64:
		var buf [8]byte
		putUint64(buf[:], a.u64)
		dst = append(dst, buf[:]...)
	case ArgBool:
		if a.u64 != 0 {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	return dst
}
