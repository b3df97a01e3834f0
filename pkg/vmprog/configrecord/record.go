package configrecord

import (
	"github.com/lzxindustries/vmprog-go/internal/valuetree"
	"github.com/lzxindustries/vmprog-go/pkg/diag"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/pack"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
)

// Record is the resolved, emission-ready program configuration (§3
// Program Configuration Record).
type Record struct {
	ProgramID   string
	Version     SemVer
	ABI         ABIRange
	HWMask      uint32
	CoreID      uint32
	ProgramName string
	Author      string
	License     string
	Category    string
	Description string
	URL         string
	Parameters  []Parameter
}

// Build validates a resolved value tree against the program-configuration
// schema (§4.2) and returns the resolved Record. sink receives non-fatal
// diagnostics (unknown hardware/core flags); it may be nil.
func Build(t valuetree.Tree, sink diag.Sink) (Record, error) {
	var r Record

	r.ProgramID = t.String("program_id")
	if r.ProgramID == "" {
		return r, vmerrors.New(vmerrors.KindMissingField, "program_id", "program_id is required")
	}
	r.ProgramName = t.String("program_name")
	if r.ProgramName == "" {
		return r, vmerrors.New(vmerrors.KindMissingField, "program_name", "program_name is required")
	}

	version, err := resolveVersion(t)
	if err != nil {
		return r, err
	}
	r.Version = version

	abi, err := resolveABI(t)
	if err != nil {
		return r, err
	}
	r.ABI = abi
	if !lessMajorMinor(abi.MinMajor, abi.MinMinor, abi.MaxMajor, abi.MaxMinor) {
		return r, vmerrors.Newf(vmerrors.KindInvalidAbiRange, "abi",
			"abi_min (%d.%d) must be strictly less than abi_max (%d.%d)",
			abi.MinMajor, abi.MinMinor, abi.MaxMajor, abi.MaxMinor)
	}

	hwNames := t.StringSlice("hardware_compatibility")
	mask, unknown := ParseHardwareMask(hwNames)
	r.HWMask = mask
	for _, u := range unknown {
		warn(sink, "unknown hardware_compatibility flag, ignoring", "flag", u)
	}

	coreName := t.String("core_id")
	if coreName == "" {
		r.CoreID = DefaultCoreID
	} else if id, ok := ParseCoreID(coreName); ok {
		r.CoreID = id
	} else {
		warn(sink, "unknown core_id, falling back to default", "core_id", coreName, "default", DefaultCoreID)
		r.CoreID = DefaultCoreID
	}

	r.Author = t.String("author")
	r.License = t.String("license")
	r.Category = t.String("category")
	r.Description = t.String("description")
	r.URL = t.String("url")

	paramTrees := t.SliceOfTrees("parameters")
	if len(paramTrees) > MaxParameters {
		return r, vmerrors.Newf(vmerrors.KindTooManyParameters, "parameters",
			"at most %d parameters allowed, got %d", MaxParameters, len(paramTrees))
	}

	seen := make(map[uint32]bool, len(paramTrees))
	params := make([]Parameter, 0, len(paramTrees))
	for i, pt := range paramTrees {
		field := fieldName(i)
		p, err := BuildParameter(field, pt, sink)
		if err != nil {
			return r, err
		}
		if p.ParameterID != ParamNone {
			if seen[p.ParameterID] {
				return r, vmerrors.Newf(vmerrors.KindDuplicateParameterID, field+".parameter_id",
					"duplicate parameter_id %d", p.ParameterID)
			}
			seen[p.ParameterID] = true
		}
		params = append(params, p)
	}
	r.Parameters = params

	return r, nil
}

func fieldName(i int) string {
	return "parameters[" + itoa(i) + "]"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func resolveVersion(t valuetree.Tree) (SemVer, error) {
	asString := t.String("version")
	_, hasMajor := t.Int("version_major")

	switch {
	case asString != "" && hasMajor:
		return SemVer{}, vmerrors.New(vmerrors.KindInvalidVersion, "version",
			"version must be supplied in exactly one form (string or integer triple)")
	case asString != "":
		return ParseSemVer(asString)
	case hasMajor:
		major, _ := t.Int("version_major")
		minor, _ := t.Int("version_minor")
		patch, _ := t.Int("version_patch")
		return SemVer{Major: uint16(major), Minor: uint16(minor), Patch: uint16(patch)}, nil
	default:
		return SemVer{}, vmerrors.New(vmerrors.KindMissingField, "version", "a version must be supplied")
	}
}

func resolveABI(t valuetree.Tree) (ABIRange, error) {
	asString := t.String("abi_range")
	_, hasMinMajor := t.Int("abi_min_major")
	_, hasMaxMajor := t.Int("abi_max_major")

	switch {
	case asString != "" && (hasMinMajor || hasMaxMajor):
		return ABIRange{}, vmerrors.New(vmerrors.KindInvalidVersion, "abi",
			"abi must be supplied in exactly one form (range string or integer quadruple)")
	case asString != "":
		return ParseABIRange(asString)
	case hasMinMajor && hasMaxMajor:
		minMajor, _ := t.Int("abi_min_major")
		minMinor, _ := t.Int("abi_min_minor")
		maxMajor, _ := t.Int("abi_max_major")
		maxMinor, _ := t.Int("abi_max_minor")
		return ABIRange{
			MinMajor: uint16(minMajor), MinMinor: uint16(minMinor),
			MaxMajor: uint16(maxMajor), MaxMinor: uint16(maxMinor),
		}, nil
	default:
		return ABIRange{}, vmerrors.New(vmerrors.KindMissingField, "abi", "an ABI range must be supplied")
	}
}

// Pack serializes r into the fixed 7372-byte wire record (§4.2
// "Ordering"). The final length is asserted to equal RecordSize; any
// mismatch is a fatal implementation bug, never a caller-facing error.
func (r Record) Pack() ([]byte, error) {
	buf := make([]byte, RecordSize)

	if err := pack.FixedString(buf, offProgramID, szProgramID, "program_id", r.ProgramID); err != nil {
		return nil, err
	}
	pack.U16(buf, offVersionMajor, r.Version.Major)
	pack.U16(buf, offVersionMinor, r.Version.Minor)
	pack.U16(buf, offVersionPatch, r.Version.Patch)
	pack.U16(buf, offABIMinMajor, r.ABI.MinMajor)
	pack.U16(buf, offABIMinMinor, r.ABI.MinMinor)
	pack.U16(buf, offABIMaxMajor, r.ABI.MaxMajor)
	pack.U16(buf, offABIMaxMinor, r.ABI.MaxMinor)
	pack.U32(buf, offHWMask, r.HWMask)
	pack.U32(buf, offCoreID, r.CoreID)

	if err := pack.FixedString(buf, offProgramName, szProgramName, "program_name", r.ProgramName); err != nil {
		return nil, err
	}
	if err := pack.FixedString(buf, offAuthor, szAuthor, "author", r.Author); err != nil {
		return nil, err
	}
	if err := pack.FixedString(buf, offLicense, szLicense, "license", r.License); err != nil {
		return nil, err
	}
	if err := pack.FixedString(buf, offCategory, szCategory, "category", r.Category); err != nil {
		return nil, err
	}
	if err := pack.FixedString(buf, offDescription, szDescription, "description", r.Description); err != nil {
		return nil, err
	}
	if err := pack.FixedString(buf, offURL, szURL, "url", r.URL); err != nil {
		return nil, err
	}

	pack.U16(buf, offParameterCount, uint16(len(r.Parameters)))
	// offReservedPad and offReservedTail are left zero by make([]byte, ...).

	for i, p := range r.Parameters {
		if err := p.PackInto(buf, i); err != nil {
			return nil, err
		}
	}
	// Unused parameter slots (index >= count) stay zero-filled.

	if len(buf) != RecordSize {
		panic("configrecord: packed record length drifted from RecordSize, this is a layout bug")
	}

	return buf, nil
}
