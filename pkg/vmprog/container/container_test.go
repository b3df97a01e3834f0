package container

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssembleMinimalUnsignedPackage(t *testing.T) {
	configBytes := make([]byte, 7372)
	descriptorBytes := make([]byte, 332)
	artifact := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F}

	image, err := Assemble([]Payload{
		{Type: TypeConfig, Bytes: configBytes},
		{Type: TypeSignedDescriptor, Bytes: descriptorBytes},
		{Type: TypeBitstreamHDDual, Bytes: artifact},
	}, 0)
	require.NoError(t, err)

	// toc_count = 2 + S + B = 2 + 0 + 1 = 3 per the Container Assembler
	// formula; file_size = 64 + 64*3 + 7372 + 332 + 16 = 7976. See
	// DESIGN.md for why this resolves the format spec's scenario text
	// in favor of the formula over its inconsistent arithmetic.
	require.Equal(t, 7976, len(image))

	h := ParseHeader(image[:HeaderSize])
	require.Equal(t, Magic, h.Magic)
	require.Equal(t, uint32(3), h.TOCCount)
	require.Equal(t, uint32(0), h.Flags)
	require.Equal(t, uint32(len(image)), h.FileSize)

	zeroed := ZeroHashField(image)
	want := sha256.Sum256(zeroed)
	require.Equal(t, want, h.SHA256Package)
}

func TestAssembleSignedPackageSetsFlag(t *testing.T) {
	image, err := Assemble([]Payload{
		{Type: TypeConfig, Bytes: make([]byte, 7372)},
		{Type: TypeSignedDescriptor, Bytes: make([]byte, 332)},
		{Type: TypeSignature, Bytes: make([]byte, 64)},
		{Type: TypeBitstreamHDDual, Bytes: make([]byte, 16)},
	}, FlagSignedPkg)
	require.NoError(t, err)

	h := ParseHeader(image[:HeaderSize])
	require.Equal(t, uint32(4), h.TOCCount)
	require.Equal(t, FlagSignedPkg, h.Flags)
}

func TestAssembleRejectsOversizePackage(t *testing.T) {
	_, err := Assemble([]Payload{
		{Type: TypeConfig, Bytes: make([]byte, 7372)},
		{Type: TypeSignedDescriptor, Bytes: make([]byte, 332)},
		{Type: TypeBitstreamHDDual, Bytes: make([]byte, MaxFileSize)},
	}, 0)
	require.Error(t, err)
}

func TestTOCEntryRoundTrip(t *testing.T) {
	e := TOCEntry{EntryType: TypeConfig, Flags: 0, Offset: 64, Size: 7372, SHA256: sha256.Sum256([]byte("x"))}
	buf := e.Pack()
	require.Len(t, buf, TOCEntrySize)
	got := ParseTOCEntry(buf)
	require.Equal(t, e, got)
	require.True(t, ReservedZero(buf))
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{VersionMajor: 1, VersionMinor: 0, FileSize: 1000, Flags: FlagSignedPkg, TOCOffset: 64, TOCBytes: 192, TOCCount: 3}
	buf := h.Pack()
	require.Len(t, buf, HeaderSize)
	got := ParseHeader(buf)
	require.Equal(t, Magic, got.Magic)
	require.Equal(t, h.VersionMajor, got.VersionMajor)
	require.Equal(t, h.FileSize, got.FileSize)
	require.Equal(t, h.Flags, got.Flags)
}
