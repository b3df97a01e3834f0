// Command vmprog-keygen generates an Ed25519 key pair as raw binary
// files, the form the VMPROG signer and verifier expect (§6 "Key
// files"). Grounded on generate_ed25519_keys.py: a 32-byte seed file and
// a 32-byte public key file, written with restrictive permissions.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lzxindustries/vmprog-go/pkg/vmprog/checksum"
)

var (
	privateKeyPath string
	publicKeyPath  string
	force          bool
	rootCmd        *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "vmprog-keygen",
		Short: "Generate a raw Ed25519 key pair for signing VMPROG packages",
		RunE:  runKeygen,
	}

	rootCmd.Flags().StringVar(&privateKeyPath, "private-key", "vmprog_private.bin", "Output path for the 32-byte private key seed")
	rootCmd.Flags().StringVar(&publicKeyPath, "public-key", "vmprog_public.bin", "Output path for the 32-byte public key")
	rootCmd.Flags().BoolVar(&force, "force", false, "Overwrite existing key files")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runKeygen(cmd *cobra.Command, args []string) error {
	if !force {
		for _, p := range []string{privateKeyPath, publicKeyPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists; pass --force to overwrite", p)
			}
		}
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	if err := os.WriteFile(privateKeyPath, priv.Seed(), 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := os.WriteFile(publicKeyPath, pub, 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	digest, err := checksum.Compute(pub, checksum.SHA256)
	if err != nil {
		return fmt.Errorf("computing public key digest: %w", err)
	}

	fmt.Printf("Wrote private key: %s (0600)\n", privateKeyPath)
	fmt.Printf("Wrote public key:  %s (0644)\n", publicKeyPath)
	fmt.Printf("Public key digest: %s\n", digest)
	return nil
}
