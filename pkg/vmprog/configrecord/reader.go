package configrecord

import (
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/pack"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
)

// Parsed is the read-only view the verifier builds from raw CONFIG
// payload bytes (§6 step 9): it never mutates the input and surfaces
// enough to check every field-level invariant the spec calls for.
type Parsed struct {
	ProgramID      string
	ProgramIDOK    bool
	ProgramName    string
	ProgramNameOK  bool
	Author         string
	AuthorOK       bool
	License        string
	LicenseOK      bool
	Category       string
	CategoryOK     bool
	Description    string
	DescriptionOK  bool
	URL            string
	URLOK          bool
	Version        SemVer
	ABI            ABIRange
	HWMask         uint32
	CoreID         uint32
	ParameterCount uint16
	ReservedPadZero  bool
	ReservedTailZero bool
}

// Parse reads a CONFIG payload (must be exactly RecordSize bytes) into a
// Parsed view without mutating buf. It does not itself enforce
// invariants -- callers (the verifier) inspect the *OK fields and
// ParameterCount and decide fatal vs. warning per §6 step 9.
func Parse(buf []byte) (Parsed, error) {
	if len(buf) != RecordSize {
		return Parsed{}, vmerrors.Newf(vmerrors.KindRecordSizeMismatch, "config",
			"config record must be %d bytes, got %d", RecordSize, len(buf))
	}

	var p Parsed
	p.ProgramID, p.ProgramIDOK = pack.ReadCString(buf, offProgramID, szProgramID)
	p.ProgramName, p.ProgramNameOK = pack.ReadCString(buf, offProgramName, szProgramName)
	p.Author, p.AuthorOK = pack.ReadCString(buf, offAuthor, szAuthor)
	p.License, p.LicenseOK = pack.ReadCString(buf, offLicense, szLicense)
	p.Category, p.CategoryOK = pack.ReadCString(buf, offCategory, szCategory)
	p.Description, p.DescriptionOK = pack.ReadCString(buf, offDescription, szDescription)
	p.URL, p.URLOK = pack.ReadCString(buf, offURL, szURL)

	p.Version = SemVer{
		Major: pack.ReadU16(buf, offVersionMajor),
		Minor: pack.ReadU16(buf, offVersionMinor),
		Patch: pack.ReadU16(buf, offVersionPatch),
	}
	p.ABI = ABIRange{
		MinMajor: pack.ReadU16(buf, offABIMinMajor),
		MinMinor: pack.ReadU16(buf, offABIMinMinor),
		MaxMajor: pack.ReadU16(buf, offABIMaxMajor),
		MaxMinor: pack.ReadU16(buf, offABIMaxMinor),
	}
	p.HWMask = pack.ReadU32(buf, offHWMask)
	p.CoreID = pack.ReadU32(buf, offCoreID)
	p.ParameterCount = pack.ReadU16(buf, offParameterCount)

	p.ReservedPadZero = allZero(buf[offReservedPad : offReservedPad+szReservedPad])
	p.ReservedTailZero = allZero(buf[offReservedTail : offReservedTail+szReservedTail])

	return p, nil
}

// ABILess reports whether the parsed ABI min is strictly less than max.
func (p Parsed) ABILess() bool {
	return lessMajorMinor(p.ABI.MinMajor, p.ABI.MinMinor, p.ABI.MaxMajor, p.ABI.MaxMinor)
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
