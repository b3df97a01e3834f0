package configrecord_test

import (
	"testing"

	"github.com/lzxindustries/vmprog-go/internal/valuetree"
	"github.com/lzxindustries/vmprog-go/pkg/diag"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/configrecord"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
	"github.com/stretchr/testify/require"
)

func minimalTree() valuetree.Tree {
	return valuetree.Tree{
		"program_id":   "demo",
		"program_name": "Demo Program",
		"version":      "1.2.3",
		"abi_range":    ">=1.0,<2.0",
	}
}

func TestBuildMinimalRecordSucceeds(t *testing.T) {
	r, err := configrecord.Build(minimalTree(), nil)
	require.NoError(t, err)
	require.Equal(t, "demo", r.ProgramID)
	require.Equal(t, configrecord.HWFlagAll, r.HWMask)
	require.Equal(t, configrecord.DefaultCoreID, r.CoreID)
}

func TestBuildMissingProgramIDFails(t *testing.T) {
	tree := minimalTree()
	delete(tree, "program_id")
	_, err := configrecord.Build(tree, nil)
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindMissingField))
}

func TestBuildRejectsBothVersionForms(t *testing.T) {
	tree := minimalTree()
	tree["version_major"] = 1
	_, err := configrecord.Build(tree, nil)
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindInvalidVersion))
}

func TestBuildIntegerVersionForm(t *testing.T) {
	tree := minimalTree()
	delete(tree, "version")
	tree["version_major"] = 2
	tree["version_minor"] = 0
	tree["version_patch"] = 0
	r, err := configrecord.Build(tree, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(2), r.Version.Major)
}

func TestBuildInvertedAbiFails(t *testing.T) {
	tree := minimalTree()
	tree["abi_range"] = ">=2.0,<1.0"
	_, err := configrecord.Build(tree, nil)
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindInvalidAbiRange))
}

func TestBuildUnknownHardwareFlagWarns(t *testing.T) {
	tree := minimalTree()
	tree["hardware_compatibility"] = []any{"sd_analog", "bogus_flag"}
	col := diag.NewCollector(diag.NewNullSink())
	r, err := configrecord.Build(tree, col)
	require.NoError(t, err)
	require.Equal(t, configrecord.HWFlagSDAnalog, r.HWMask)
	require.NotEmpty(t, col.Messages)
}

func TestBuildUnknownCoreIDFallsBackWithWarning(t *testing.T) {
	tree := minimalTree()
	tree["core_id"] = "not_a_real_core"
	col := diag.NewCollector(diag.NewNullSink())
	r, err := configrecord.Build(tree, col)
	require.NoError(t, err)
	require.Equal(t, configrecord.DefaultCoreID, r.CoreID)
	require.NotEmpty(t, col.Messages)
}

func TestBuildTooManyParametersFails(t *testing.T) {
	tree := minimalTree()
	params := make([]any, 13)
	for i := range params {
		params[i] = map[string]any{"parameter_id": "none"}
	}
	tree["parameters"] = params
	_, err := configrecord.Build(tree, nil)
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindTooManyParameters))
}

func TestBuildDuplicateParameterIDFails(t *testing.T) {
	tree := minimalTree()
	tree["parameters"] = []any{
		map[string]any{"parameter_id": "brightness"},
		map[string]any{"parameter_id": "brightness"},
	}
	_, err := configrecord.Build(tree, nil)
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindDuplicateParameterID))
}

func TestPackThenParseRoundTrip(t *testing.T) {
	r, err := configrecord.Build(minimalTree(), nil)
	require.NoError(t, err)
	buf, err := r.Pack()
	require.NoError(t, err)
	require.Len(t, buf, configrecord.RecordSize)

	parsed, err := configrecord.Parse(buf)
	require.NoError(t, err)
	require.Equal(t, "demo", parsed.ProgramID)
	require.True(t, parsed.ProgramIDOK)
	require.True(t, parsed.ABILess())
}

func TestParseRejectsWrongSize(t *testing.T) {
	_, err := configrecord.Parse(make([]byte, 10))
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindRecordSizeMismatch))
}
