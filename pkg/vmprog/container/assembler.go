package container

import (
	"crypto/sha256"

	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
)

// Payload is one blob to be written into the container, already ordered
// per §4.5's fixed payload order (CONFIG, SIGNED_DESCRIPTOR, [SIGNATURE],
// artifacts in canonical order).
type Payload struct {
	Type  uint32
	Bytes []byte
}

// Assemble lays out header, TOC, and payload region at computed offsets
// (§4.5) and returns the complete in-memory package image. payloads must
// already be in the fixed payload order; Assemble does not reorder them.
//
// toc_count = len(payloads), toc_bytes = 64*toc_count, payload_start =
// 64 + toc_bytes. Offsets are assigned sequentially starting at
// payload_start. The header's sha256_package is computed over the
// finished image with bytes [32,64) zeroed, then written in place.
func Assemble(payloads []Payload, flags uint32) ([]byte, error) {
	if len(payloads) > MaxTOCCount {
		return nil, vmerrors.Newf(vmerrors.KindInvalidTocCount, "toc_count",
			"at most %d TOC entries allowed, got %d", MaxTOCCount, len(payloads))
	}

	tocCount := uint32(len(payloads))
	tocBytes := tocCount * TOCEntrySize
	payloadStart := HeaderSize + tocBytes

	entries := make([]TOCEntry, len(payloads))
	offset := payloadStart
	for i, p := range payloads {
		entries[i] = TOCEntry{
			EntryType: p.Type,
			Flags:     0,
			Offset:    offset,
			Size:      uint32(len(p.Bytes)),
			SHA256:    sha256.Sum256(p.Bytes),
		}
		offset += uint32(len(p.Bytes))
	}
	fileSize := offset

	if fileSize > MaxFileSize {
		return nil, vmerrors.Newf(vmerrors.KindPackageTooLarge, "file_size",
			"package size %d exceeds maximum of %d bytes", fileSize, MaxFileSize)
	}

	header := Header{
		VersionMajor: VersionMajor,
		VersionMinor: VersionMinor,
		FileSize:     fileSize,
		Flags:        flags,
		TOCOffset:    HeaderSize,
		TOCBytes:     tocBytes,
		TOCCount:     tocCount,
	}

	image := make([]byte, 0, fileSize)
	image = append(image, header.Pack()...)
	for _, e := range entries {
		image = append(image, e.Pack()...)
	}
	for _, p := range payloads {
		image = append(image, p.Bytes...)
	}

	if uint32(len(image)) != fileSize {
		panic("container: assembled image length drifted from computed file_size, this is a layout bug")
	}

	// Compute the package-wide hash with the hash field zeroed, then
	// write it in place at offset 32 (§4.5).
	zeroed := ZeroHashField(image)
	packageHash := sha256.Sum256(zeroed)
	copy(image[hOffSHA256Package:hOffSHA256Package+szSHA256Package], packageHash[:])

	return image, nil
}
