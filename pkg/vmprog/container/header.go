package container

import (
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/pack"
)

const (
	hOffMagic         = 0
	hOffVersionMajor  = 4
	hOffVersionMinor  = 6
	hOffHeaderSize    = 8
	hOffReservedPad   = 10
	hOffFileSize      = 12
	hOffFlags         = 16
	hOffTocOffset     = 20
	hOffTocBytes      = 24
	hOffTocCount      = 28
	hOffSHA256Package = 32
	szSHA256Package   = 32
)

// Header is the fixed 64-byte package header (§3 "Header").
type Header struct {
	VersionMajor  uint16
	VersionMinor  uint16
	FileSize      uint32
	Flags         uint32
	TOCOffset     uint32
	TOCBytes      uint32
	TOCCount      uint32
	SHA256Package [32]byte
}

// Pack serializes h into a 64-byte buffer.
func (h Header) Pack() []byte {
	buf := make([]byte, HeaderSize)
	pack.U32(buf, hOffMagic, Magic)
	pack.U16(buf, hOffVersionMajor, h.VersionMajor)
	pack.U16(buf, hOffVersionMinor, h.VersionMinor)
	pack.U16(buf, hOffHeaderSize, HeaderSize)
	// hOffReservedPad left zero.
	pack.U32(buf, hOffFileSize, h.FileSize)
	pack.U32(buf, hOffFlags, h.Flags)
	pack.U32(buf, hOffTocOffset, h.TOCOffset)
	pack.U32(buf, hOffTocBytes, h.TOCBytes)
	pack.U32(buf, hOffTocCount, h.TOCCount)
	copy(buf[hOffSHA256Package:hOffSHA256Package+szSHA256Package], h.SHA256Package[:])
	return buf
}

// ParsedHeader is the read-only view the verifier builds from raw header
// bytes.
type ParsedHeader struct {
	Magic         uint32
	VersionMajor  uint16
	VersionMinor  uint16
	HeaderSize    uint16
	FileSize      uint32
	Flags         uint32
	TOCOffset     uint32
	TOCBytes      uint32
	TOCCount      uint32
	SHA256Package [32]byte
}

// ParseHeader reads a 64-byte header buffer without validating it; the
// verifier is responsible for checking each field against the invariants
// in §3 and the sequence in §6.
func ParseHeader(buf []byte) ParsedHeader {
	var h ParsedHeader
	h.Magic = pack.ReadU32(buf, hOffMagic)
	h.VersionMajor = pack.ReadU16(buf, hOffVersionMajor)
	h.VersionMinor = pack.ReadU16(buf, hOffVersionMinor)
	h.HeaderSize = pack.ReadU16(buf, hOffHeaderSize)
	h.FileSize = pack.ReadU32(buf, hOffFileSize)
	h.Flags = pack.ReadU32(buf, hOffFlags)
	h.TOCOffset = pack.ReadU32(buf, hOffTocOffset)
	h.TOCBytes = pack.ReadU32(buf, hOffTocBytes)
	h.TOCCount = pack.ReadU32(buf, hOffTocCount)
	copy(h.SHA256Package[:], buf[hOffSHA256Package:hOffSHA256Package+szSHA256Package])
	return h
}

// ZeroHashField returns a copy of buf (which must be at least
// hOffSHA256Package+32 bytes) with the sha256_package field zeroed, for
// the "zero-the-hash-field" discipline described in §1/§4.5: the package
// hash is always computed over the image with its own hash field blanked
// out.
func ZeroHashField(buf []byte) []byte {
	out := make([]byte, len(buf))
	copy(out, buf)
	for i := hOffSHA256Package; i < hOffSHA256Package+szSHA256Package; i++ {
		out[i] = 0
	}
	return out
}
