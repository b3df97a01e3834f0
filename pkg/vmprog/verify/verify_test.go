package verify_test

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"testing"

	"github.com/lzxindustries/vmprog-go/internal/valuetree"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/container"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/packager"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/verify"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
	"github.com/stretchr/testify/require"
)

func passthruTree() valuetree.Tree {
	return valuetree.Tree{
		"program_id":   "passthru",
		"program_name": "Passthru",
		"version":      "1.0.0",
		"abi_range":    ">=1.0,<2.0",
	}
}

func buildID() uint32 { id := uint32(1700000000); return id }

func TestRoundTripUnsignedMinimalPackage(t *testing.T) {
	id := buildID()
	res, err := packager.Build(packager.Options{
		Tree: passthruTree(),
		Artifacts: []packager.ArtifactFile{
			{Type: container.TypeBitstreamHDDual, Bytes: []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
		},
		BuildID: &id,
	})
	require.NoError(t, err)

	vr, err := verify.Verify(res.Package, verify.Options{})
	require.NoError(t, err)
	require.False(t, vr.Signed)
	require.Equal(t, uint32(3), vr.Header.TOCCount)
}

func TestRoundTripSignedPackage(t *testing.T) {
	dir := t.TempDir()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	privPath := filepath.Join(dir, "priv.bin")
	pubPath := filepath.Join(dir, "pub.bin")
	require.NoError(t, os.WriteFile(privPath, priv.Seed(), 0600))
	require.NoError(t, os.WriteFile(pubPath, pub, 0644))

	id := buildID()
	res, err := packager.Build(packager.Options{
		Tree: passthruTree(),
		Artifacts: []packager.ArtifactFile{
			{Type: container.TypeBitstreamHDDual, Bytes: []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
		},
		Signing: packager.SigningOptions{Enabled: true, PrivateKeyPath: privPath, PublicKeyPath: pubPath},
		BuildID: &id,
	})
	require.NoError(t, err)

	vr, err := verify.Verify(res.Package, verify.Options{TrustedPublicKey: pub})
	require.NoError(t, err)
	require.True(t, vr.Signed)
	require.True(t, vr.SignatureValid)
	require.Equal(t, uint32(4), vr.Header.TOCCount)
}

func TestHashDeterminism(t *testing.T) {
	id := buildID()
	opts := packager.Options{
		Tree: passthruTree(),
		Artifacts: []packager.ArtifactFile{
			{Type: container.TypeBitstreamHDDual, Bytes: []byte{1, 2, 3}},
		},
		BuildID: &id,
	}
	r1, err := packager.Build(opts)
	require.NoError(t, err)
	r2, err := packager.Build(opts)
	require.NoError(t, err)
	require.Equal(t, r1.Package, r2.Package)
}

func TestTamperDetectionFlipsFailVerify(t *testing.T) {
	id := buildID()
	res, err := packager.Build(packager.Options{
		Tree: passthruTree(),
		Artifacts: []packager.ArtifactFile{
			{Type: container.TypeBitstreamHDDual, Bytes: []byte{9, 9, 9}},
		},
		BuildID: &id,
	})
	require.NoError(t, err)

	// Flip one bit inside the first TOC entry's sha256 field (not within file_size).
	tampered := append([]byte(nil), res.Package...)
	tampered[100] ^= 0x01

	_, err = verify.Verify(tampered, verify.Options{})
	require.Error(t, err)
}

func TestTruncatedPackageFailsWithInvalidFileSize(t *testing.T) {
	id := buildID()
	res, err := packager.Build(packager.Options{
		Tree: passthruTree(),
		Artifacts: []packager.ArtifactFile{
			{Type: container.TypeBitstreamHDDual, Bytes: []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
		},
		BuildID: &id,
	})
	require.NoError(t, err)

	truncated := res.Package[:len(res.Package)-1]
	_, err = verify.Verify(truncated, verify.Options{})
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindInvalidFileSize))
}

func TestAbiInvertedConfigFailsBuild(t *testing.T) {
	tree := passthruTree()
	tree["abi_range"] = ">=2.0,<1.0"
	_, err := packager.Build(packager.Options{Tree: tree})
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindInvalidAbiRange))
}

func TestOversizeProgramIDFailsBuild(t *testing.T) {
	tree := passthruTree()
	tree["program_id"] = "12345678901234567890123456789012345678901234567890123456789012345" // 65 ASCII bytes, >= 64
	_, err := packager.Build(packager.Options{Tree: tree})
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindStringTooLong))
}

func TestLabelModeParameterEmission(t *testing.T) {
	tree := passthruTree()
	tree["parameters"] = []any{
		map[string]any{
			"parameter_id":         "brightness",
			"value_labels":         []any{"off", "on"},
			"initial_value_label":  "on",
		},
	}
	res, err := packager.Build(packager.Options{Tree: tree})
	require.NoError(t, err)

	vr, err := verify.Verify(res.Package, verify.Options{})
	require.NoError(t, err)
	require.Equal(t, uint16(1), vr.Config.ParameterCount)
}
