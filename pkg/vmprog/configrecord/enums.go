package configrecord

import "strings"

// Hardware platform flags (§4.2 "hardware mask"). The flag names mirror
// the artifact-type directory-scan names (§6 of the format spec): a
// program's hardware_compatibility list names the video-synthesis
// hardware variants it can run on. The mask is not compared against which
// bitstream artifacts were actually supplied.
const (
	HWFlagSDAnalog uint32 = 1 << 0
	HWFlagSDHDMI   uint32 = 1 << 1
	HWFlagSDDual   uint32 = 1 << 2
	HWFlagHDAnalog uint32 = 1 << 3
	HWFlagHDHDMI   uint32 = 1 << 4
	HWFlagHDDual   uint32 = 1 << 5

	// HWFlagAll is the union of every known flag; an empty
	// hardware_compatibility list defaults to this per §4.2.
	HWFlagAll = HWFlagSDAnalog | HWFlagSDHDMI | HWFlagSDDual | HWFlagHDAnalog | HWFlagHDHDMI | HWFlagHDDual
)

var hwFlagNames = map[string]uint32{
	"sd_analog": HWFlagSDAnalog,
	"sd_hdmi":   HWFlagSDHDMI,
	"sd_dual":   HWFlagSDDual,
	"hd_analog": HWFlagHDAnalog,
	"hd_hdmi":   HWFlagHDHDMI,
	"hd_dual":   HWFlagHDDual,
}

// ParseHardwareMask maps a list of flag names from the closed set above to
// their bitwise union. An empty list returns HWFlagAll. Unknown names are
// returned in the unknown slice so the caller can warn without failing
// the build (§4.2: "fails with ValidationError" is NOT used here --
// unknown hardware flags are non-fatal per §7).
func ParseHardwareMask(names []string) (mask uint32, unknown []string) {
	if len(names) == 0 {
		return HWFlagAll, nil
	}
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if bit, ok := hwFlagNames[key]; ok {
			mask |= bit
		} else {
			unknown = append(unknown, n)
		}
	}
	return mask, unknown
}

// Core architecture identifiers (§3 core_id): the video pixel-format
// pipeline a program targets.
const (
	CoreYUV444_30B uint32 = iota
	CoreYUV422_20B
	CoreRGB888_24B
	CoreRGB101010_30B
)

// DefaultCoreID is the documented fallback used when an unrecognized
// core_id name is supplied (§4.2: "unknown values fall back to a
// documented default with a warning").
const DefaultCoreID = CoreYUV444_30B

var coreIDNames = map[string]uint32{
	"yuv444_30b":   CoreYUV444_30B,
	"yuv422_20b":   CoreYUV422_20B,
	"rgb888_24b":   CoreRGB888_24B,
	"rgb101010_30b": CoreRGB101010_30B,
}

// ParseCoreID maps a core architecture name to its enum value. Unknown
// names fall back to DefaultCoreID with ok=false so the caller can warn.
func ParseCoreID(name string) (id uint32, ok bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if v, found := coreIDNames[key]; found {
		return v, true
	}
	return DefaultCoreID, false
}

// Parameter identifiers (§4.2: "parameter_id ... enum names or integers
// bounded by the enum cardinalities (≤12 ...)"). ParamNone marks a
// parameter slot that carries no semantic id; every other value must be
// unique across a record's live parameters.
const (
	ParamNone uint32 = iota
	ParamBrightness
	ParamContrast
	ParamSaturation
	ParamHue
	ParamSharpness
	ParamGain
	ParamOffset
	ParamFrequency
	ParamPhase
	ParamBlend
	ParamMix
)

// MaxParameterIDCardinality is the closed cardinality bound from §4.2.
const MaxParameterIDCardinality = 12

var paramIDNames = map[string]uint32{
	"none":       ParamNone,
	"brightness": ParamBrightness,
	"contrast":   ParamContrast,
	"saturation": ParamSaturation,
	"hue":        ParamHue,
	"sharpness":  ParamSharpness,
	"gain":       ParamGain,
	"offset":     ParamOffset,
	"frequency":  ParamFrequency,
	"phase":      ParamPhase,
	"blend":      ParamBlend,
	"mix":        ParamMix,
}

// ParseParameterID resolves a parameter_id given as an enum name. ok is
// false if name is not a known name; integer parameter_id values are
// bounds-checked by the caller (BuildParameter).
func ParseParameterID(name string) (id uint32, ok bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	v, found := paramIDNames[key]
	return v, found
}

// Control modes (§4.2: "control_mode ... bounded by the enum
// cardinalities (≤... 35 respectively)"). Label-mode parameters are always
// emitted with control_mode=0 (linear) per §4.2.
const (
	ControlLinear uint32 = iota
	ControlLogarithmic
	ControlExponential
	ControlStepped
	ControlToggle
	ControlBipolarLinear
	ControlQuadratic
	ControlInverse
	ControlSCurve
	ControlPulse
	ControlLatching
	ControlMomentary
)

// MaxControlModeCardinality is the closed cardinality bound from §4.2.
const MaxControlModeCardinality = 35

var controlModeNames = map[string]uint32{
	"linear":         ControlLinear,
	"logarithmic":    ControlLogarithmic,
	"exponential":    ControlExponential,
	"stepped":        ControlStepped,
	"toggle":         ControlToggle,
	"bipolar_linear": ControlBipolarLinear,
	"quadratic":      ControlQuadratic,
	"inverse":        ControlInverse,
	"s_curve":        ControlSCurve,
	"pulse":          ControlPulse,
	"latching":       ControlLatching,
	"momentary":      ControlMomentary,
}

// ParseControlMode resolves a control_mode given as an enum name.
func ParseControlMode(name string) (mode uint32, ok bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	v, found := controlModeNames[key]
	return v, found
}
