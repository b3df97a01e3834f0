package configrecord_test

import (
	"testing"

	"github.com/lzxindustries/vmprog-go/internal/valuetree"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/configrecord"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
	"github.com/stretchr/testify/require"
)

func TestBuildParameterNumericModeDefaults(t *testing.T) {
	tree := valuetree.Tree{"parameter_id": "gain"}
	p, err := configrecord.BuildParameter("parameters[0]", tree, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(0), p.MinValue)
	require.Equal(t, uint16(1023), p.MaxValue)
	require.Equal(t, uint16(512), p.InitialValue)
}

func TestBuildParameterNumericModeRejectsInitialValueLabel(t *testing.T) {
	tree := valuetree.Tree{"parameter_id": "gain", "initial_value_label": "on"}
	_, err := configrecord.BuildParameter("parameters[0]", tree, nil)
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindInvalidParameter))
}

func TestBuildParameterNumericModeMaxExceedsBound(t *testing.T) {
	tree := valuetree.Tree{"parameter_id": "gain", "max_value": 2000}
	_, err := configrecord.BuildParameter("parameters[0]", tree, nil)
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindInvalidParameter))
}

func TestBuildParameterLabelModeResolvesInitialIndex(t *testing.T) {
	tree := valuetree.Tree{
		"parameter_id":        "mix",
		"value_labels":        []any{"off", "low", "high"},
		"initial_value_label": "high",
	}
	p, err := configrecord.BuildParameter("parameters[0]", tree, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(2), p.InitialValue)
	require.Equal(t, uint16(2), p.MaxValue)
	require.Equal(t, configrecord.ControlLinear, p.ControlMode)
}

func TestBuildParameterLabelModeRejectsNumericFields(t *testing.T) {
	tree := valuetree.Tree{
		"parameter_id": "mix",
		"value_labels": []any{"off", "on"},
		"min_value":    0,
	}
	_, err := configrecord.BuildParameter("parameters[0]", tree, nil)
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindInvalidParameter))
}

func TestBuildParameterLabelModeTooFewLabelsFails(t *testing.T) {
	tree := valuetree.Tree{
		"parameter_id": "mix",
		"value_labels": []any{"only_one"},
	}
	_, err := configrecord.BuildParameter("parameters[0]", tree, nil)
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindInvalidParameter))
}

func TestBuildParameterLabelModeInitialLabelNotFoundFails(t *testing.T) {
	tree := valuetree.Tree{
		"parameter_id":        "mix",
		"value_labels":        []any{"off", "on"},
		"initial_value_label": "neither",
	}
	_, err := configrecord.BuildParameter("parameters[0]", tree, nil)
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindInvalidParameter))
}

func TestPackIntoZeroFillsUnusedLabelSlots(t *testing.T) {
	tree := valuetree.Tree{
		"parameter_id": "mix",
		"value_labels":  []any{"a", "b"},
	}
	p, err := configrecord.BuildParameter("parameters[0]", tree, nil)
	require.NoError(t, err)

	buf := make([]byte, configrecord.RecordSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	require.NoError(t, p.PackInto(buf, 0))

	// Slot 0 starts at 506; value_labels start at +54, 32 bytes each, and
	// end at +566. Labels 2..15 are unused and must be all zero.
	for _, b := range buf[506+54+2*32 : 506+566] {
		require.Equal(t, byte(0), b)
	}
}
