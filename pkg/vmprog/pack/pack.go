// Package pack implements the primitive fixed-width encoders described in
// §4.1 of the format spec: bounds-checked little-endian integer writes and
// zero-padded null-terminated string writes into a caller-provided byte
// buffer. No dynamic allocation happens here beyond the buffer the caller
// already owns; every offset is a compile-time constant derived by the
// calling package from the layout tables in the format spec.
package pack

import (
	"encoding/binary"

	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
)

// FixedString writes s into buf[off:off+n] as UTF-8 bytes followed by zero
// padding. It fails with vmerrors.KindStringTooLong if the UTF-8 byte
// length of s is >= n, since a null terminator must always fit. The
// written field is guaranteed to contain at least one null byte.
func FixedString(buf []byte, off, n int, field, s string) error {
	b := []byte(s)
	if len(b) >= n {
		return vmerrors.Newf(vmerrors.KindStringTooLong, field,
			"string of %d bytes does not fit in %d-byte field (room for null terminator required)", len(b), n)
	}
	dst := buf[off : off+n]
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, b)
	return nil
}

// U8 writes a single byte at off.
func U8(buf []byte, off int, v uint8) {
	buf[off] = v
}

// U16 writes a little-endian uint16 at off.
func U16(buf []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(buf[off:off+2], v)
}

// I16 writes a little-endian int16 at off.
func I16(buf []byte, off int, v int16) {
	binary.LittleEndian.PutUint16(buf[off:off+2], uint16(v))
}

// U32 writes a little-endian uint32 at off.
func U32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
}

// ReadU8 reads a single byte at off.
func ReadU8(buf []byte, off int) uint8 {
	return buf[off]
}

// ReadU16 reads a little-endian uint16 at off.
func ReadU16(buf []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(buf[off : off+2])
}

// ReadI16 reads a little-endian int16 at off.
func ReadI16(buf []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[off : off+2]))
}

// ReadU32 reads a little-endian uint32 at off.
func ReadU32(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

// ReadCString reads up to n bytes starting at off and returns the string up
// to (but not including) the first null byte. If no null byte is present
// within the field, ok is false — callers use this to implement the
// verifier's "contains a null byte within the field" check (§6 step 9).
func ReadCString(buf []byte, off, n int) (s string, ok bool) {
	field := buf[off : off+n]
	for i, b := range field {
		if b == 0 {
			return string(field[:i]), true
		}
	}
	return string(field), false
}
