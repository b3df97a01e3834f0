// Package verify implements the VMPROG verifier (§4.6): given a byte
// buffer read from disk, it proves from the bytes alone that every
// declared invariant holds, returning a structured error on the first
// failure with enough context (offset, expected, actual) to localize the
// problem. The verifier never mutates its input.
package verify

import (
	"bytes"
	"crypto/sha256"

	"github.com/lzxindustries/vmprog-go/pkg/diag"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/configrecord"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/container"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/descriptor"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/signer"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
)

// Result carries what the verifier learned about a package that passed,
// for callers (e.g. the CLI report) that want a summary instead of just
// "OK".
type Result struct {
	Header         container.ParsedHeader
	TOC            []container.TOCEntry
	Signed         bool
	SignatureValid bool
	Config         configrecord.Parsed
	Descriptor     descriptor.Parsed
}

// TrustedPublicKey is an optional Ed25519 public key used to verify a
// SIGNATURE entry. If nil and the package is signed, verification fails
// with KindInvalidSignature rather than silently skipping the check.
type Options struct {
	TrustedPublicKey []byte
	Sink             diag.Sink
}

// Verify runs the full §4.6 sequence against buf and returns a Result on
// success, or the first *vmerrors.Error encountered.
func Verify(buf []byte, opts Options) (Result, error) {
	var res Result
	sink := opts.Sink
	if sink == nil {
		sink = diag.NewNullSink()
	}

	// Step 1: length bounds.
	if len(buf) < container.HeaderSize || len(buf) > container.MaxFileSize {
		return res, vmerrors.Newf(vmerrors.KindInvalidFileSize, "file_size",
			"file size %d out of bounds [%d, %d]", len(buf), container.HeaderSize, container.MaxFileSize)
	}

	h := container.ParseHeader(buf[:container.HeaderSize])
	res.Header = h

	// Step 2: magic.
	if h.Magic != container.Magic {
		return res, vmerrors.Newf(vmerrors.KindInvalidMagic, "magic",
			"expected 0x%08x, got 0x%08x", container.Magic, h.Magic).WithExpectedActual(container.Magic, h.Magic)
	}

	// Step 3: version.
	if h.VersionMajor != container.VersionMajor || h.VersionMinor != container.VersionMinor {
		return res, vmerrors.Newf(vmerrors.KindInvalidVersionField, "version",
			"expected %d.%d, got %d.%d", container.VersionMajor, container.VersionMinor, h.VersionMajor, h.VersionMinor)
	}

	// Step 4: header_size.
	if h.HeaderSize != container.HeaderSize {
		return res, vmerrors.Newf(vmerrors.KindInvalidHeaderSize, "header_size",
			"expected %d, got %d", container.HeaderSize, h.HeaderSize)
	}

	// Step 5: file_size matches actual buffer length.
	if int(h.FileSize) != len(buf) {
		return res, vmerrors.Newf(vmerrors.KindInvalidFileSize, "file_size",
			"header declares %d, actual length is %d", h.FileSize, len(buf)).WithExpectedActual(h.FileSize, len(buf))
	}

	// Step 6: TOC bounds.
	if h.TOCOffset != container.HeaderSize {
		return res, vmerrors.Newf(vmerrors.KindInvalidTocOffset, "toc_offset",
			"expected %d, got %d", container.HeaderSize, h.TOCOffset)
	}
	if h.TOCCount > container.MaxTOCCount {
		return res, vmerrors.Newf(vmerrors.KindInvalidTocCount, "toc_count",
			"toc_count %d exceeds maximum %d", h.TOCCount, container.MaxTOCCount)
	}
	wantTOCBytes := h.TOCCount * container.TOCEntrySize
	if h.TOCBytes != wantTOCBytes {
		return res, vmerrors.Newf(vmerrors.KindInvalidTocSize, "toc_bytes",
			"expected %d (64*toc_count), got %d", wantTOCBytes, h.TOCBytes)
	}
	tocEnd := uint64(h.TOCOffset) + uint64(h.TOCBytes)
	if tocEnd > uint64(h.FileSize) {
		return res, vmerrors.Newf(vmerrors.KindInvalidTocOffset, "toc_offset",
			"toc region [%d, %d) exceeds file_size %d", h.TOCOffset, tocEnd, h.FileSize)
	}

	// Step 7: package-wide hash with bytes [32,64) zeroed.
	zeroed := container.ZeroHashField(buf)
	gotHash := sha256.Sum256(zeroed)
	if gotHash != h.SHA256Package {
		return res, vmerrors.New(vmerrors.KindInvalidHash, "sha256_package",
			"recomputed package hash does not match header.sha256_package")
	}

	// Step 8: per-entry offset bounds and digests.
	toc := make([]container.TOCEntry, h.TOCCount)
	for i := uint32(0); i < h.TOCCount; i++ {
		entryOff := int(h.TOCOffset) + int(i)*container.TOCEntrySize
		entryBuf := buf[entryOff : entryOff+container.TOCEntrySize]
		e := container.ParseTOCEntry(entryBuf)
		toc[i] = e

		if !container.IsKnownType(e.EntryType) {
			return res, vmerrors.Newf(vmerrors.KindInvalidTocEntry, "toc["+itoa(i)+"].entry_type",
				"unknown TOC entry type %d", e.EntryType)
		}

		end := uint64(e.Offset) + uint64(e.Size)
		if end > uint64(h.FileSize) {
			return res, vmerrors.Newf(vmerrors.KindInvalidPayloadOffset, "toc["+itoa(i)+"]",
				"payload [%d, %d) exceeds file_size %d", e.Offset, end, h.FileSize)
		}

		payload := buf[e.Offset : uint64(e.Offset)+uint64(e.Size)]
		if sha256.Sum256(payload) != e.SHA256 {
			return res, vmerrors.Newf(vmerrors.KindInvalidHash, "toc["+itoa(i)+"].sha256",
				"payload digest mismatch for entry type %d", e.EntryType)
		}

		if !container.ReservedZero(entryBuf) {
			sink.Warn("TOC entry reserved bytes are nonzero", "index", i, "entry_type", e.EntryType)
		}
	}
	res.TOC = toc

	// Step 9: entry-type-specific checks.
	var configEntry, descEntry, sigEntry *container.TOCEntry
	configCount, descCount, sigCount := 0, 0, 0
	for i := range toc {
		e := &toc[i]
		switch e.EntryType {
		case container.TypeConfig:
			configCount++
			configEntry = e
		case container.TypeSignedDescriptor:
			descCount++
			descEntry = e
		case container.TypeSignature:
			sigCount++
			sigEntry = e
		}
	}
	if configCount != 1 {
		return res, vmerrors.Newf(vmerrors.KindInvalidTocEntry, "toc",
			"expected exactly one CONFIG entry, found %d", configCount)
	}
	if descCount != 1 {
		return res, vmerrors.Newf(vmerrors.KindInvalidTocEntry, "toc",
			"expected exactly one SIGNED_DESCRIPTOR entry, found %d", descCount)
	}
	if sigCount > 1 {
		return res, vmerrors.Newf(vmerrors.KindInvalidTocEntry, "toc",
			"at most one SIGNATURE entry allowed, found %d", sigCount)
	}

	signed := h.Flags&container.FlagSignedPkg != 0
	res.Signed = signed
	if signed && sigCount != 1 {
		return res, vmerrors.New(vmerrors.KindInvalidTocEntry, "toc",
			"header SIGNED_PKG flag is set but no SIGNATURE entry is present")
	}
	if !signed && sigCount != 0 {
		return res, vmerrors.New(vmerrors.KindInvalidTocEntry, "toc",
			"a SIGNATURE entry is present but header SIGNED_PKG flag is not set")
	}

	configBytes := payloadBytes(buf, *configEntry)
	if len(configBytes) != configrecord.RecordSize {
		return res, vmerrors.Newf(vmerrors.KindInvalidConfig, "config.size",
			"expected %d bytes, got %d", configrecord.RecordSize, len(configBytes))
	}
	parsedConfig, err := configrecord.Parse(configBytes)
	if err != nil {
		return res, vmerrors.Wrap(vmerrors.KindInvalidConfig, err, "parsing config record")
	}
	if !parsedConfig.ProgramIDOK {
		return res, vmerrors.New(vmerrors.KindInvalidConfig, "program_id", "missing null terminator within field")
	}
	if !parsedConfig.ProgramNameOK {
		return res, vmerrors.New(vmerrors.KindInvalidConfig, "program_name", "missing null terminator within field")
	}
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"author", parsedConfig.AuthorOK},
		{"license", parsedConfig.LicenseOK},
		{"category", parsedConfig.CategoryOK},
		{"description", parsedConfig.DescriptionOK},
		{"url", parsedConfig.URLOK},
	} {
		if !f.ok {
			return res, vmerrors.New(vmerrors.KindInvalidConfig, f.name, "missing null terminator within field")
		}
	}
	if !parsedConfig.ABILess() {
		return res, vmerrors.New(vmerrors.KindInvalidAbiRange, "abi", "abi_min must be strictly less than abi_max")
	}
	if parsedConfig.ParameterCount > configrecord.MaxParameters {
		return res, vmerrors.Newf(vmerrors.KindInvalidConfig, "parameter_count",
			"parameter_count %d exceeds maximum %d", parsedConfig.ParameterCount, configrecord.MaxParameters)
	}
	if !parsedConfig.ReservedPadZero || !parsedConfig.ReservedTailZero {
		sink.Warn("config record reserved bytes are nonzero")
	}
	res.Config = parsedConfig

	descBytes := payloadBytes(buf, *descEntry)
	if len(descBytes) != descriptor.Size {
		return res, vmerrors.Newf(vmerrors.KindInvalidDescriptor, "descriptor.size",
			"expected %d bytes, got %d", descriptor.Size, len(descBytes))
	}
	parsedDesc, err := descriptor.Parse(descBytes)
	if err != nil {
		return res, vmerrors.Wrap(vmerrors.KindInvalidDescriptor, err, "parsing descriptor")
	}
	if parsedDesc.ArtifactCount > descriptor.MaxArtifacts {
		return res, vmerrors.Newf(vmerrors.KindInvalidDescriptor, "artifact_count",
			"artifact_count %d exceeds maximum %d", parsedDesc.ArtifactCount, descriptor.MaxArtifacts)
	}
	for _, a := range parsedDesc.Artifacts {
		if !container.IsBitstreamType(a.Type) {
			return res, vmerrors.Newf(vmerrors.KindInvalidDescriptor, "artifacts",
				"artifact type %d is not a bitstream type", a.Type)
		}
	}
	if !parsedDesc.ReservedPadZero {
		sink.Warn("descriptor reserved_pad is nonzero")
	}
	res.Descriptor = parsedDesc

	if sigCount == 1 {
		sigBytes := payloadBytes(buf, *sigEntry)
		if len(sigBytes) != 64 {
			return res, vmerrors.Newf(vmerrors.KindInvalidSignature, "signature.size",
				"expected 64 bytes, got %d", len(sigBytes))
		}
		if signed {
			if len(opts.TrustedPublicKey) == 0 {
				return res, vmerrors.New(vmerrors.KindInvalidSignature, "signature",
					"package is signed but no trusted public key was supplied")
			}
			if !signer.Verify(opts.TrustedPublicKey, descBytes, sigBytes) {
				return res, vmerrors.New(vmerrors.KindInvalidSignature, "signature",
					"Ed25519 verification failed")
			}
			res.SignatureValid = true
		}
	}

	// Step 10: cross-checks.
	if !bytes.Equal(parsedDesc.ConfigHash[:], configEntry.SHA256[:]) {
		return res, vmerrors.New(vmerrors.KindDescriptorMismatch, "descriptor.config_sha256",
			"descriptor's config_sha256 does not match the CONFIG entry's digest")
	}
	for i, a := range parsedDesc.Artifacts {
		if !hasMatchingEntry(toc, a) {
			return res, vmerrors.Newf(vmerrors.KindDescriptorMismatch, "descriptor.artifacts",
				"artifact %d (type %d) has no matching TOC entry", i, a.Type)
		}
	}

	return res, nil
}

func payloadBytes(buf []byte, e container.TOCEntry) []byte {
	return buf[e.Offset : uint64(e.Offset)+uint64(e.Size)]
}

func hasMatchingEntry(toc []container.TOCEntry, a descriptor.Artifact) bool {
	for _, e := range toc {
		if e.EntryType == a.Type && e.SHA256 == a.Hash {
			return true
		}
	}
	return false
}

func itoa(i uint32) string {
	if i == 0 {
		return "0"
	}
	var buf [10]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}
