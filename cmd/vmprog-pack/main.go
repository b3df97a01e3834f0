// Command vmprog-pack builds a VMPROG binary container from a resolved
// program-configuration manifest and a directory of bitstream artifacts.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/lzxindustries/vmprog-go/internal/valuetree"
	"github.com/lzxindustries/vmprog-go/pkg/diag"
	"github.com/lzxindustries/vmprog-go/pkg/logging"
	"github.com/lzxindustries/vmprog-go/pkg/utils/permissions"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/packager"
)

var (
	manifestPath   string
	outputPath     string
	bitstreamsDir  string
	privateKeyPath string
	publicKeyPath  string
	logLevel       string
	outputPerms    string
	versionFlag    bool
	rootCmd        *cobra.Command
)

const version = "0.1.0"

func init() {
	rootCmd = &cobra.Command{
		Use:   "vmprog-pack",
		Short: "Build a VMPROG program package",
		Long:  `Build a VMPROG binary container from a program-configuration manifest and bitstream artifacts.`,
		Run:   runBuild,
	}

	rootCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Path to the program configuration manifest (JSON) (required)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path for the built package (required)")
	rootCmd.Flags().StringVar(&bitstreamsDir, "bitstreams", "", "Directory containing the fixed bitstream file names")
	rootCmd.Flags().StringVar(&privateKeyPath, "private-key", "", "Path to a raw 32-byte Ed25519 private key seed; enables signing")
	rootCmd.Flags().StringVar(&publicKeyPath, "public-key", "", "Path to the matching raw 32-byte Ed25519 public key")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().StringVar(&outputPerms, "output-perms", "", "Octal file permissions for the output package (default 0644)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	if err := rootCmd.MarkFlagRequired("manifest"); err != nil {
		panic(err)
	}
	if err := rootCmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		return
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("vmprog-pack %s\n", version)
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				fmt.Printf("Revision: %s\n", setting.Value)
			}
		}
	}
}

func runBuild(cmd *cobra.Command, args []string) {
	if versionFlag {
		printVersion()
		return
	}

	level, source := logging.ResolveLevel(logLevel, "VMPROG_PACK_LOG_LEVEL")
	logger := logging.NewLogger("vmprog-pack", level, nil)
	logger.Debug("log level resolved", "level", level, "source", source)

	manifestData, err := os.ReadFile(manifestPath)
	if err != nil {
		logger.Error("failed to read manifest", "error", err, "path", manifestPath)
		os.Exit(1)
	}

	var tree valuetree.Tree
	if err := json.Unmarshal(manifestData, &tree); err != nil {
		logger.Error("failed to parse manifest", "error", err)
		os.Exit(1)
	}

	var artifacts []packager.ArtifactFile
	if bitstreamsDir != "" {
		collected, err := packager.CollectArtifacts(bitstreamsDir)
		if err != nil {
			logger.Error("failed to collect bitstream artifacts", "error", err, "dir", bitstreamsDir)
			os.Exit(1)
		}
		if len(collected) == 0 {
			logger.Error("no bitstream artifacts found", "dir", bitstreamsDir)
			os.Exit(1)
		}
		artifacts = collected
		logger.Info("collected bitstream artifacts", "count", len(artifacts), "dir", bitstreamsDir)
	}

	signing := packager.SigningOptions{}
	if privateKeyPath != "" {
		if publicKeyPath == "" {
			logger.Error("--private-key requires --public-key")
			os.Exit(1)
		}
		signing = packager.SigningOptions{Enabled: true, PrivateKeyPath: privateKeyPath, PublicKeyPath: publicKeyPath}
	}

	sink := diag.NewLoggerSink(logger)
	result, err := packager.Build(packager.Options{
		Tree:      tree,
		Artifacts: artifacts,
		Signing:   signing,
		Sink:      sink,
	})
	if err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}

	perms := uint16(0644)
	if outputPerms != "" {
		p, err := permissions.ParseOctalString(outputPerms)
		if err != nil {
			logger.Error("invalid --output-perms", "error", err)
			os.Exit(1)
		}
		perms = p
	}
	if err := os.WriteFile(outputPath, result.Package, os.FileMode(perms)); err != nil {
		logger.Error("failed to write output package", "error", err, "path", outputPath)
		os.Exit(1)
	}

	logger.Info("package built",
		"output", outputPath,
		"size", len(result.Package),
		"config_sha256", hexPrefix(result.ConfigHash[:]),
		"signed", signing.Enabled)
}

func hexPrefix(b []byte) string {
	const n = 8
	const hexdigits = "0123456789abcdef"
	buf := make([]byte, 0, 2*n)
	for i := 0; i < n && i < len(b); i++ {
		buf = append(buf, hexdigits[b[i]>>4], hexdigits[b[i]&0xF])
	}
	return string(buf) + "..."
}
