// Package signer implements §4.4: loading a raw Ed25519 seed and public
// key from two binary files, verifying they match (a mismatch is a
// warning, not a hard failure -- the stored public key is still used
// downstream), and producing a detached 64-byte signature over a signed
// descriptor. Grounded on the teacher's crypto.go key-loading shape, but
// adapted for the spec's raw 32-byte key files (§6) rather than PEM.
package signer

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"os"

	"github.com/lzxindustries/vmprog-go/pkg/diag"
)

// KeyPair is a loaded Ed25519 signing key pair.
type KeyPair struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
}

// LoadKeyPair loads a 32-byte raw Ed25519 seed from privateKeyPath and a
// 32-byte raw Ed25519 public key from publicKeyPath. The loader enforces
// exactly 32 bytes for each file (§6 "Key files"). If the public key
// derived from the seed does not match the stored public key, sink
// receives a warning and the stored public key is used regardless (§4.4).
func LoadKeyPair(privateKeyPath, publicKeyPath string, sink diag.Sink) (KeyPair, error) {
	seed, err := readExactly(privateKeyPath, ed25519.SeedSize)
	if err != nil {
		return KeyPair{}, fmt.Errorf("loading private key: %w", err)
	}
	storedPub, err := readExactly(publicKeyPath, ed25519.PublicKeySize)
	if err != nil {
		return KeyPair{}, fmt.Errorf("loading public key: %w", err)
	}

	priv := ed25519.NewKeyFromSeed(seed)
	derivedPub := priv.Public().(ed25519.PublicKey)

	if !bytes.Equal(derivedPub, storedPub) {
		if sink != nil {
			sink.Warn("public key derived from private key seed does not match stored public key; using stored public key",
				"private_key_path", privateKeyPath, "public_key_path", publicKeyPath)
		}
	}

	return KeyPair{PrivateKey: priv, PublicKey: ed25519.PublicKey(storedPub)}, nil
}

func readExactly(path string, n int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%s: expected exactly %d bytes, got %d", path, n, len(data))
	}
	return data, nil
}

// Sign produces a 64-byte detached Ed25519 signature over the 332-byte
// signed descriptor payload. Ed25519 is deterministic, so Sign(kp,
// descriptorBytes) is stable across builds given the same inputs (§5).
func Sign(kp KeyPair, descriptorBytes []byte) []byte {
	return ed25519.Sign(kp.PrivateKey, descriptorBytes)
}

// Verify checks a detached Ed25519 signature over descriptorBytes against
// publicKey.
func Verify(publicKey ed25519.PublicKey, descriptorBytes, signature []byte) bool {
	return ed25519.Verify(publicKey, descriptorBytes, signature)
}
