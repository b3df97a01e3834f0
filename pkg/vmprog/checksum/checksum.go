// Package checksum provides "algorithm:hexvalue" digest strings for
// off-disk reporting (manifests, diagnostics, the keygen tool's stdout
// summary). The binary container layout itself never carries these
// strings -- the on-disk SHA-256 fields in the header, TOC, and
// descriptor stay raw 32-byte digests -- this package exists purely so
// tooling built around the package has one human-readable digest format
// instead of reinventing one per command.
package checksum

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Algorithm identifies which hash function produced a digest string.
type Algorithm int

const (
	SHA256 Algorithm = iota
	SHA512
	Blake2b256
)

func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "sha256"
	case SHA512:
		return "sha512"
	case Blake2b256:
		return "blake2b"
	default:
		return "unknown"
	}
}

func newHash(a Algorithm) (hash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	case Blake2b256:
		return blake2b.New256(nil)
	default:
		return nil, fmt.Errorf("checksum: unknown algorithm %v", a)
	}
}

// Compute returns the "algorithm:hexvalue" digest string for data.
func Compute(data []byte, algo Algorithm) (string, error) {
	h, err := newHash(algo)
	if err != nil {
		return "", err
	}
	h.Write(data)
	return algo.String() + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

// Parse splits a prefixed digest string into its algorithm and hex value.
func Parse(s string) (Algorithm, string, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("checksum: expected \"algorithm:hexvalue\", got %q", s)
	}
	switch parts[0] {
	case "sha256":
		return SHA256, parts[1], nil
	case "sha512":
		return SHA512, parts[1], nil
	case "blake2b":
		return Blake2b256, parts[1], nil
	default:
		return 0, "", fmt.Errorf("checksum: unknown algorithm %q", parts[0])
	}
}

// Verify reports whether data's digest matches the prefixed digest string.
func Verify(data []byte, digestStr string) (bool, error) {
	algo, want, err := Parse(digestStr)
	if err != nil {
		return false, err
	}
	got, err := Compute(data, algo)
	if err != nil {
		return false, err
	}
	gotHex := got[strings.IndexByte(got, ':')+1:]
	return strings.EqualFold(gotHex, want), nil
}
