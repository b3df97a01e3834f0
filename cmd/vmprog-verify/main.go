// Command vmprog-verify checks a VMPROG package file against every
// structural and cryptographic invariant the format requires, and
// prints a human-readable pass/fail report.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lzxindustries/vmprog-go/pkg/diag"
	"github.com/lzxindustries/vmprog-go/pkg/logging"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/verify"
)

var (
	packagePath   string
	publicKeyPath string
	logLevel      string
	rootCmd       *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "vmprog-verify PACKAGE",
		Short: "Verify a VMPROG program package",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}

	rootCmd.Flags().StringVar(&publicKeyPath, "public-key", "", "Path to a trusted raw 32-byte Ed25519 public key")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	packagePath = args[0]

	level, source := logging.ResolveLevel(logLevel, "VMPROG_VERIFY_LOG_LEVEL")
	logger := logging.NewLogger("vmprog-verify", level, nil)
	logger.Debug("log level resolved", "level", level, "source", source)

	buf, err := os.ReadFile(packagePath)
	if err != nil {
		return fmt.Errorf("reading package: %w", err)
	}

	opts := verify.Options{Sink: diag.NewLoggerSink(logger)}
	if publicKeyPath != "" {
		pub, err := os.ReadFile(publicKeyPath)
		if err != nil {
			return fmt.Errorf("reading public key: %w", err)
		}
		opts.TrustedPublicKey = pub
	}

	result, err := verify.Verify(buf, opts)
	if err != nil {
		red := color.New(color.FgRed, color.Bold)
		red.Fprintln(os.Stderr, "FAIL", packagePath)
		fmt.Fprintln(os.Stderr, "  "+err.Error())
		os.Exit(1)
	}

	green := color.New(color.FgGreen, color.Bold)
	green.Println("PASS", packagePath)
	fmt.Printf("  program_id:     %s\n", result.Config.ProgramID)
	fmt.Printf("  toc_count:      %d\n", result.Header.TOCCount)
	fmt.Printf("  signed:         %t\n", result.Signed)
	if result.Signed {
		fmt.Printf("  signature_valid: %t\n", result.SignatureValid)
	}
	fmt.Printf("  artifact_count: %d\n", result.Descriptor.ArtifactCount)
	return nil
}
