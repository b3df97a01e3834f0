// Package container implements the VMPROG container format (§3, §4.5,
// §6): header, table of contents, and payload region at computed
// offsets, with a package-wide hash computed over the image with the
// hash field zeroed.
package container

const (
	// Magic is the 4-byte container magic, little-endian u32 0x47504D56,
	// ASCII "VMPG" in reverse byte order (§6).
	Magic uint32 = 0x47504D56

	// VersionMajor/VersionMinor are the only version this implementation
	// writes or accepts (§6 Verifier step 3).
	VersionMajor uint16 = 1
	VersionMinor uint16 = 0

	// HeaderSize is the fixed size in bytes of the package header.
	HeaderSize = 64

	// TOCEntrySize is the fixed size in bytes of one TOC entry.
	TOCEntrySize = 64

	// MaxTOCCount is the maximum number of TOC entries a package may
	// declare (§3 invariants).
	MaxTOCCount = 256

	// MaxFileSize is the maximum total package size in bytes (§3
	// "Package").
	MaxFileSize = 1048576 // 1 MiB

	// FlagSignedPkg is header.flags bit 0: a SIGNATURE TOC entry is
	// present (§6 "Header flags").
	FlagSignedPkg uint32 = 0x0001
)

// TOC entry-type enum (§6).
const (
	TypeNone              uint32 = 0
	TypeConfig            uint32 = 1
	TypeSignedDescriptor  uint32 = 2
	TypeSignature         uint32 = 3
	TypeFPGABitstream     uint32 = 4 // generic, unused by current producer
	TypeBitstreamSDAnalog uint32 = 5
	TypeBitstreamSDHDMI   uint32 = 6
	TypeBitstreamSDDual   uint32 = 7
	TypeBitstreamHDAnalog uint32 = 8
	TypeBitstreamHDHDMI   uint32 = 9
	TypeBitstreamHDDual   uint32 = 10
)

// ArtifactScanOrder is the canonical artifact-type order (§6: "Artifact
// directory scan order is the order above (5 through 10), which
// determines the payload order in the file").
var ArtifactScanOrder = []uint32{
	TypeBitstreamSDAnalog,
	TypeBitstreamSDHDMI,
	TypeBitstreamSDDual,
	TypeBitstreamHDAnalog,
	TypeBitstreamHDHDMI,
	TypeBitstreamHDDual,
}

// ArtifactFileNames maps each bitstream artifact type to the file name the
// §6 CLI surface input-directory contract expects under bitstreams/.
var ArtifactFileNames = map[uint32]string{
	TypeBitstreamSDAnalog: "sd_analog.bin",
	TypeBitstreamSDHDMI:   "sd_hdmi.bin",
	TypeBitstreamSDDual:   "sd_dual.bin",
	TypeBitstreamHDAnalog: "hd_analog.bin",
	TypeBitstreamHDHDMI:   "hd_hdmi.bin",
	TypeBitstreamHDDual:   "hd_dual.bin",
}

// IsBitstreamType reports whether t is one of the six bitstream artifact
// types (§6 verifier step 9: "each present artifact's type is in the
// bitstream-type range").
func IsBitstreamType(t uint32) bool {
	return t >= TypeBitstreamSDAnalog && t <= TypeBitstreamHDDual
}

// IsKnownType reports whether t is a legal TOC entry type (§6 "State
// machine for TOC entry types": unknown types are a fatal
// InvalidTocEntry).
func IsKnownType(t uint32) bool {
	return t <= TypeBitstreamHDDual
}
