package signer_test

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"testing"

	"github.com/lzxindustries/vmprog-go/pkg/diag"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/signer"
	"github.com/stretchr/testify/require"
)

func writeKeyFiles(t *testing.T, pub ed25519.PublicKey, priv ed25519.PrivateKey) (privPath, pubPath string) {
	t.Helper()
	dir := t.TempDir()
	privPath = filepath.Join(dir, "private.bin")
	pubPath = filepath.Join(dir, "public.bin")
	require.NoError(t, os.WriteFile(privPath, priv.Seed(), 0600))
	require.NoError(t, os.WriteFile(pubPath, pub, 0644))
	return privPath, pubPath
}

func TestLoadKeyPairRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	privPath, pubPath := writeKeyFiles(t, pub, priv)

	kp, err := signer.LoadKeyPair(privPath, pubPath, nil)
	require.NoError(t, err)
	require.Equal(t, pub, kp.PublicKey)
}

func TestLoadKeyPairWarnsOnPublicKeyMismatch(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	otherPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	_ = pub
	privPath, pubPath := writeKeyFiles(t, otherPub, priv)

	col := diag.NewCollector(diag.NewNullSink())
	kp, err := signer.LoadKeyPair(privPath, pubPath, col)
	require.NoError(t, err)
	require.Equal(t, ed25519.PublicKey(otherPub), kp.PublicKey)
	require.NotEmpty(t, col.Messages)
}

func TestLoadKeyPairRejectsWrongSizedFiles(t *testing.T) {
	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.bin")
	pubPath := filepath.Join(dir, "public.bin")
	require.NoError(t, os.WriteFile(privPath, []byte("too short"), 0600))
	require.NoError(t, os.WriteFile(pubPath, make([]byte, ed25519.PublicKeySize), 0644))

	_, err := signer.LoadKeyPair(privPath, pubPath, nil)
	require.Error(t, err)
}

func TestSignThenVerifyRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	kp := signer.KeyPair{PrivateKey: priv, PublicKey: pub}

	descriptorBytes := []byte("a 332-byte descriptor stand-in")
	sig := signer.Sign(kp, descriptorBytes)
	require.Len(t, sig, ed25519.SignatureSize)
	require.True(t, signer.Verify(pub, descriptorBytes, sig))
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	kp := signer.KeyPair{PrivateKey: priv, PublicKey: pub}

	descriptorBytes := []byte("original descriptor bytes")
	sig := signer.Sign(kp, descriptorBytes)

	tampered := append([]byte(nil), descriptorBytes...)
	tampered[0] ^= 0x01
	require.False(t, signer.Verify(pub, tampered, sig))
}
