package configrecord

import (
	"github.com/lzxindustries/vmprog-go/internal/valuetree"
	"github.com/lzxindustries/vmprog-go/pkg/diag"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/pack"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
)

// Parameter is the resolved, emission-ready form of one user-facing
// control (§4.2 Parameter-level rules). BuildParameter produces it from a
// value-tree entry; PackInto writes it at its slot per the §3 layout.
type Parameter struct {
	ParameterID        uint32
	ControlMode        uint32
	MinValue           uint16
	MaxValue           uint16
	InitialValue       uint16
	DisplayMinValue    int16
	DisplayMaxValue    int16
	DisplayFloatDigits uint8
	NameLabel          string
	ValueLabels        []string
	SuffixLabel        string
}

// BuildParameter validates one parameter's value-tree entry against
// §4.2's label-mode / numeric-mode rules and returns the resolved record.
// field is used to qualify error messages (e.g. "parameters[2]").
func BuildParameter(field string, t valuetree.Tree, sink diag.Sink) (Parameter, error) {
	var p Parameter

	idName := t.String("parameter_id")
	idNum, idIsInt := t.Int("parameter_id")
	if idName == "" && !idIsInt {
		return p, vmerrors.New(vmerrors.KindMissingField, field+".parameter_id", "parameter_id is required")
	}
	id, ok := ParseParameterID(idName)
	if !ok {
		if idIsInt && idNum >= 0 && idNum < MaxParameterIDCardinality {
			id = uint32(idNum)
		} else {
			return p, vmerrors.Newf(vmerrors.KindInvalidParameter, field+".parameter_id", "unknown parameter_id %v", t["parameter_id"])
		}
	}
	p.ParameterID = id

	labels := t.StringSlice("value_labels")
	labelMode := len(labels) > 0

	p.NameLabel = t.String("name")

	if labelMode {
		if err := buildLabelMode(field, t, labels, &p); err != nil {
			return Parameter{}, err
		}
	} else {
		if err := buildNumericMode(field, t, &p); err != nil {
			return Parameter{}, err
		}
	}

	// value_label_count is never accepted from the input tree -- it is
	// always derived from len(value_labels) (see autoCount below). If a
	// caller supplies a value that differs from that count, warn rather
	// than silently ignore it.
	if declared, ok := t.Int("value_label_count"); ok {
		autoCount := len(labels)
		if declared != autoCount {
			warn(sink, "value_label_count is deprecated and derived automatically; ignoring supplied value",
				"field", field, "declared", declared, "computed", autoCount)
		}
	}

	return p, nil
}

func warn(sink diag.Sink, msg string, args ...any) {
	if sink == nil {
		return
	}
	sink.Warn(msg, args...)
}

func buildLabelMode(field string, t valuetree.Tree, labels []string, p *Parameter) error {
	if len(labels) < 2 || len(labels) > 16 {
		return vmerrors.Newf(vmerrors.KindInvalidParameter, field+".value_labels",
			"label mode requires 2-16 labels, got %d", len(labels))
	}

	forbidden := []string{"min_value", "max_value", "initial_value", "display_min_value",
		"display_max_value", "suffix_label", "display_float_digits", "control_mode"}
	for _, key := range forbidden {
		if t.Has(key) {
			return vmerrors.Newf(vmerrors.KindInvalidParameter, field+"."+key,
				"label-mode parameter must not set %s", key)
		}
	}

	initial := 0
	if label := t.String("initial_value_label"); label != "" {
		idx := -1
		for i, l := range labels {
			if l == label {
				idx = i
				break
			}
		}
		if idx < 0 {
			return vmerrors.Newf(vmerrors.KindInvalidParameter, field+".initial_value_label",
				"initial_value_label %q is not one of value_labels", label)
		}
		initial = idx
	}

	p.ValueLabels = labels
	p.MinValue = 0
	p.MaxValue = uint16(len(labels) - 1)
	p.InitialValue = uint16(initial)
	p.DisplayMinValue = 0
	p.DisplayMaxValue = int16(p.MaxValue)
	p.DisplayFloatDigits = 0
	p.ControlMode = ControlLinear
	return nil
}

func buildNumericMode(field string, t valuetree.Tree, p *Parameter) error {
	if t.Has("initial_value_label") {
		return vmerrors.New(vmerrors.KindInvalidParameter, field+".initial_value_label",
			"initial_value_label is forbidden in numeric mode")
	}

	min := 0
	max := 1023
	initial := 512

	if v, ok := t.Int("min_value"); ok {
		min = v
	}
	if v, ok := t.Int("max_value"); ok {
		max = v
	}
	if v, ok := t.Int("initial_value"); ok {
		initial = v
	}

	if max > 1023 {
		return vmerrors.Newf(vmerrors.KindInvalidParameter, field+".max_value", "max_value %d exceeds 1023", max)
	}
	if min < 0 || min >= max {
		return vmerrors.Newf(vmerrors.KindInvalidParameter, field+".min_value", "min_value %d must be in [0, max_value)", min)
	}
	if initial < min || initial > max {
		return vmerrors.Newf(vmerrors.KindInvalidParameter, field+".initial_value",
			"initial_value %d must be in [min_value, max_value]", initial)
	}

	p.MinValue = uint16(min)
	p.MaxValue = uint16(max)
	p.InitialValue = uint16(initial)
	p.DisplayMinValue = int16(min)
	p.DisplayMaxValue = int16(max)

	if v, ok := t.Int("display_min_value"); ok {
		p.DisplayMinValue = int16(v)
	}
	if v, ok := t.Int("display_max_value"); ok {
		p.DisplayMaxValue = int16(v)
	}
	if v, ok := t.Int("display_float_digits"); ok {
		p.DisplayFloatDigits = uint8(v)
	}

	p.SuffixLabel = t.String("suffix_label")

	mode := ControlLinear
	name := t.String("control_mode")
	n, isInt := t.Int("control_mode")
	if m, ok := ParseControlMode(name); ok {
		mode = m
	} else if isInt && n >= 0 && n < MaxControlModeCardinality {
		mode = uint32(n)
	} else if name != "" || isInt {
		return vmerrors.Newf(vmerrors.KindInvalidParameter, field+".control_mode", "unknown control_mode %v", t["control_mode"])
	}
	p.ControlMode = mode

	return nil
}

// PackInto writes p at parameter slot index i (0-based) of buf, which
// must be at least RecordSize bytes. Unused label slots are zero-filled.
func (p Parameter) PackInto(buf []byte, i int) error {
	base := parameterOffset(i)
	slot := buf[base : base+ParameterRecordSize]

	pack.U32(slot, pOffParameterID, p.ParameterID)
	pack.U32(slot, pOffControlMode, p.ControlMode)
	pack.U16(slot, pOffMinValue, p.MinValue)
	pack.U16(slot, pOffMaxValue, p.MaxValue)
	pack.U16(slot, pOffInitialValue, p.InitialValue)
	pack.I16(slot, pOffDisplayMinValue, p.DisplayMinValue)
	pack.I16(slot, pOffDisplayMaxValue, p.DisplayMaxValue)
	pack.U8(slot, pOffDisplayFloatDigits, p.DisplayFloatDigits)
	pack.U8(slot, pOffValueLabelCount, uint8(len(p.ValueLabels)))

	if err := pack.FixedString(slot, pOffNameLabel, pSzNameLabel, "name_label", p.NameLabel); err != nil {
		return err
	}

	for j := 0; j < maxValueLabels; j++ {
		off := pOffValueLabels + j*pSzValueLabel
		label := ""
		if j < len(p.ValueLabels) {
			label = p.ValueLabels[j]
		}
		if err := pack.FixedString(slot, off, pSzValueLabel, "value_labels", label); err != nil {
			return err
		}
	}

	if err := pack.FixedString(slot, pOffSuffixLabel, pSzSuffixLabel, "suffix_label", p.SuffixLabel); err != nil {
		return err
	}

	return nil
}
