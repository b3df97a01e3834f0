// Package descriptor implements the 332-byte signed descriptor described
// in §3 ("Signed Descriptor") and §4.3: a canonical manifest of the
// config hash plus up to eight artifact (type, hash) pairs, flags, and a
// build identifier. The descriptor -- not the config record or the
// artifacts themselves -- is the sole Ed25519 signing input.
package descriptor

import (
	"crypto/sha256"

	"github.com/lzxindustries/vmprog-go/pkg/vmprog/pack"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
)

const (
	// Size is the fixed size in bytes of a signed descriptor.
	Size = 332

	// MaxArtifacts is the maximum number of artifact (type, hash) pairs
	// a descriptor can carry.
	MaxArtifacts = 8

	offConfigHash     = 0
	szConfigHash      = 32
	offArtifactCount  = 32
	offReservedPad    = 33
	szReservedPad     = 3
	offArtifacts      = 36
	szArtifactEntry   = 36 // u32 type + 32-byte sha256
	offFlags          = 324
	offBuildID        = 328
)

// Artifact is one (type, SHA-256) pair recorded in the descriptor. Type is a TOC entry-type value from the container package
// (e.g. container.TypeBitstreamHDDual).
type Artifact struct {
	Type uint32
	Hash [32]byte
}

// ArtifactInput pairs an artifact's type with its raw bytes, the form the
// builder works with before hashing.
type ArtifactInput struct {
	Type  uint32
	Bytes []byte
}

// Descriptor is the resolved, emission-ready signed descriptor.
type Descriptor struct {
	ConfigHash [32]byte
	Artifacts  []Artifact
	Flags      uint32
	BuildID    uint32
}

// Build computes a Descriptor from config bytes and an ordered list of
// artifact inputs (§4.3 steps 1-4). buildID is accepted from the caller
// so builds stay reproducible (§9 "Reproducibility"); callers that want
// the reference behavior pass a wall-clock Unix timestamp truncated to
// 32 bits.
func Build(configBytes []byte, artifacts []ArtifactInput, buildID uint32) (Descriptor, error) {
	if len(artifacts) > MaxArtifacts {
		return Descriptor{}, vmerrors.Newf(vmerrors.KindTooManyArtifacts, "artifacts",
			"at most %d artifacts allowed, got %d", MaxArtifacts, len(artifacts))
	}

	d := Descriptor{
		ConfigHash: sha256.Sum256(configBytes),
		Flags:      0,
		BuildID:    buildID,
	}
	d.Artifacts = make([]Artifact, len(artifacts))
	for i, a := range artifacts {
		d.Artifacts[i] = Artifact{Type: a.Type, Hash: sha256.Sum256(a.Bytes)}
	}
	return d, nil
}

// Pack serializes d into the fixed 332-byte wire descriptor (§4.3).
// Artifact slots beyond len(d.Artifacts) are left zero.
func (d Descriptor) Pack() []byte {
	buf := make([]byte, Size)

	copy(buf[offConfigHash:offConfigHash+szConfigHash], d.ConfigHash[:])
	pack.U8(buf, offArtifactCount, uint8(len(d.Artifacts)))
	// offReservedPad is left zero.

	for i, a := range d.Artifacts {
		base := offArtifacts + i*szArtifactEntry
		pack.U32(buf, base, a.Type)
		copy(buf[base+4:base+4+32], a.Hash[:])
	}

	pack.U32(buf, offFlags, d.Flags)
	pack.U32(buf, offBuildID, d.BuildID)

	return buf
}

// Parsed is the read-only view the verifier builds from raw
// SIGNED_DESCRIPTOR payload bytes.
type Parsed struct {
	ConfigHash      [32]byte
	ArtifactCount   uint8
	Artifacts       []Artifact
	Flags           uint32
	BuildID         uint32
	ReservedPadZero bool
}

// Parse reads a SIGNED_DESCRIPTOR payload (must be exactly Size bytes)
// into a Parsed view without mutating buf.
func Parse(buf []byte) (Parsed, error) {
	if len(buf) != Size {
		return Parsed{}, vmerrors.Newf(vmerrors.KindRecordSizeMismatch, "descriptor",
			"descriptor must be %d bytes, got %d", Size, len(buf))
	}

	var p Parsed
	copy(p.ConfigHash[:], buf[offConfigHash:offConfigHash+szConfigHash])
	p.ArtifactCount = pack.ReadU8(buf, offArtifactCount)

	p.ReservedPadZero = true
	for _, b := range buf[offReservedPad : offReservedPad+szReservedPad] {
		if b != 0 {
			p.ReservedPadZero = false
			break
		}
	}

	count := int(p.ArtifactCount)
	if count > MaxArtifacts {
		count = MaxArtifacts
	}
	p.Artifacts = make([]Artifact, count)
	for i := 0; i < count; i++ {
		base := offArtifacts + i*szArtifactEntry
		p.Artifacts[i].Type = pack.ReadU32(buf, base)
		copy(p.Artifacts[i].Hash[:], buf[base+4:base+4+32])
	}

	p.Flags = pack.ReadU32(buf, offFlags)
	p.BuildID = pack.ReadU32(buf, offBuildID)

	return p, nil
}
