package container

import "github.com/lzxindustries/vmprog-go/pkg/vmprog/pack"

const (
	tOffEntryType = 0
	tOffFlags     = 4
	tOffOffset    = 8
	tOffSize      = 12
	tOffSHA256    = 16
	szSHA256      = 32
	tOffReserved  = 48
	szReserved    = 16
)

// TOCEntry is one 64-byte entry in the table of contents (§3 "TOC
// Entry").
type TOCEntry struct {
	EntryType uint32
	Flags     uint32
	Offset    uint32
	Size      uint32
	SHA256    [32]byte
}

// Pack serializes e into a 64-byte buffer.
func (e TOCEntry) Pack() []byte {
	buf := make([]byte, TOCEntrySize)
	pack.U32(buf, tOffEntryType, e.EntryType)
	pack.U32(buf, tOffFlags, e.Flags)
	pack.U32(buf, tOffOffset, e.Offset)
	pack.U32(buf, tOffSize, e.Size)
	copy(buf[tOffSHA256:tOffSHA256+szSHA256], e.SHA256[:])
	// tOffReserved left zero.
	return buf
}

// ParseTOCEntry reads one 64-byte TOC entry buffer.
func ParseTOCEntry(buf []byte) TOCEntry {
	var e TOCEntry
	e.EntryType = pack.ReadU32(buf, tOffEntryType)
	e.Flags = pack.ReadU32(buf, tOffFlags)
	e.Offset = pack.ReadU32(buf, tOffOffset)
	e.Size = pack.ReadU32(buf, tOffSize)
	copy(e.SHA256[:], buf[tOffSHA256:tOffSHA256+szSHA256])
	return e
}

// ReservedZero reports whether entry buf's 16-byte reserved tail is all
// zero.
func ReservedZero(buf []byte) bool {
	for _, b := range buf[tOffReserved : tOffReserved+szReserved] {
		if b != 0 {
			return false
		}
	}
	return true
}
