package configrecord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
)

// SemVer is the normalized version the builder works with regardless of
// which "either form" the caller supplied (§9: "either form" version
// inputs become a single normalized SemVer before the builder sees it).
type SemVer struct {
	Major, Minor, Patch uint16
}

// ABIRange is the normalized (min, max) ABI compatibility window.
type ABIRange struct {
	MinMajor, MinMinor uint16
	MaxMajor, MaxMinor uint16
}

// ParseSemVer parses a "major.minor.patch" string into a SemVer.
func ParseSemVer(s string) (SemVer, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return SemVer{}, vmerrors.Newf(vmerrors.KindInvalidVersion, "version", "expected major.minor.patch, got %q", s)
	}
	major, err := parseU16(parts[0])
	if err != nil {
		return SemVer{}, vmerrors.Newf(vmerrors.KindInvalidVersion, "version", "bad major component %q: %v", parts[0], err)
	}
	minor, err := parseU16(parts[1])
	if err != nil {
		return SemVer{}, vmerrors.Newf(vmerrors.KindInvalidVersion, "version", "bad minor component %q: %v", parts[1], err)
	}
	patch, err := parseU16(parts[2])
	if err != nil {
		return SemVer{}, vmerrors.Newf(vmerrors.KindInvalidVersion, "version", "bad patch component %q: %v", parts[2], err)
	}
	return SemVer{Major: major, Minor: minor, Patch: patch}, nil
}

// ParseABIRange parses a range string of the form ">=1.0,<2.0" into an
// ABIRange.
func ParseABIRange(s string) (ABIRange, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return ABIRange{}, vmerrors.Newf(vmerrors.KindInvalidVersion, "abi", "expected \">=MIN,<MAX\" form, got %q", s)
	}
	minPart := strings.TrimSpace(parts[0])
	maxPart := strings.TrimSpace(parts[1])
	if !strings.HasPrefix(minPart, ">=") {
		return ABIRange{}, vmerrors.Newf(vmerrors.KindInvalidVersion, "abi", "min bound must start with \">=\", got %q", minPart)
	}
	if !strings.HasPrefix(maxPart, "<") {
		return ABIRange{}, vmerrors.Newf(vmerrors.KindInvalidVersion, "abi", "max bound must start with \"<\", got %q", maxPart)
	}
	minMajor, minMinor, err := parseMajorMinor(strings.TrimPrefix(minPart, ">="))
	if err != nil {
		return ABIRange{}, vmerrors.Newf(vmerrors.KindInvalidVersion, "abi", "bad min bound %q: %v", minPart, err)
	}
	maxMajor, maxMinor, err := parseMajorMinor(strings.TrimPrefix(maxPart, "<"))
	if err != nil {
		return ABIRange{}, vmerrors.Newf(vmerrors.KindInvalidVersion, "abi", "bad max bound %q: %v", maxPart, err)
	}
	return ABIRange{
		MinMajor: minMajor, MinMinor: minMinor,
		MaxMajor: maxMajor, MaxMinor: maxMinor,
	}, nil
}

// Less reports whether (major,minor) lexicographically precedes
// (oMajor,oMinor); used for the abi_min < abi_max invariant (§3).
func lessMajorMinor(major, minor, oMajor, oMinor uint16) bool {
	if major != oMajor {
		return major < oMajor
	}
	return minor < oMinor
}

func parseMajorMinor(s string) (major, minor uint16, err error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected major.minor, got %q", s)
	}
	major, err = parseU16(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minor, err = parseU16(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

func parseU16(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
