// Package packager orchestrates the full build pipeline described in
// §2's data flow: value tree -> Config Record Builder -> config bytes ->
// Descriptor Builder (with artifact hashes) -> descriptor bytes -> Signer
// -> signature bytes -> Container Assembler -> package file. It is the
// Go analogue of the teacher's doBuild in builder.go, generalized from
// PSPF launcher-bundling to VMPROG program packaging.
package packager

import (
	"os"

	"github.com/lzxindustries/vmprog-go/internal/valuetree"
	"github.com/lzxindustries/vmprog-go/pkg/diag"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/configrecord"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/container"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/descriptor"
	"github.com/lzxindustries/vmprog-go/pkg/vmprog/signer"
)

// ArtifactFile is one discovered bitstream artifact ready to be hashed
// and embedded.
type ArtifactFile struct {
	Type  uint32
	Bytes []byte
}

// SigningOptions configures the optional Ed25519 signing step (§4.4).
// A nil or zero-value SigningOptions means "build unsigned".
type SigningOptions struct {
	Enabled        bool
	PrivateKeyPath string
	PublicKeyPath  string
}

// Options configures one Build call.
type Options struct {
	// Tree is the resolved value tree (§4.2 input).
	Tree valuetree.Tree
	// Artifacts is the ordered list of discovered bitstreams, already in
	// canonical scan order (container.ArtifactScanOrder).
	Artifacts []ArtifactFile
	Signing   SigningOptions
	// BuildID, if non-nil, overrides the default wall-clock build id for
	// reproducible builds (§9 "Reproducibility"). Required for
	// deterministic output across repeated builds of the same tree.
	BuildID *uint32
	Sink    diag.Sink
}

// BuildResult is the product of a successful Build.
type BuildResult struct {
	Package    []byte
	ConfigHash [32]byte
}

// Build runs the full pipeline and returns the finished package image.
func Build(opts Options) (BuildResult, error) {
	record, err := configrecord.Build(opts.Tree, opts.Sink)
	if err != nil {
		return BuildResult{}, err
	}
	configBytes, err := record.Pack()
	if err != nil {
		return BuildResult{}, err
	}

	artifactInputs := make([]descriptor.ArtifactInput, len(opts.Artifacts))
	for i, a := range opts.Artifacts {
		artifactInputs[i] = descriptor.ArtifactInput{Type: a.Type, Bytes: a.Bytes}
	}

	buildID := defaultBuildID()
	if opts.BuildID != nil {
		buildID = *opts.BuildID
	}

	desc, err := descriptor.Build(configBytes, artifactInputs, buildID)
	if err != nil {
		return BuildResult{}, err
	}
	descBytes := desc.Pack()

	payloads := []container.Payload{
		{Type: container.TypeConfig, Bytes: configBytes},
		{Type: container.TypeSignedDescriptor, Bytes: descBytes},
	}

	var flags uint32
	if opts.Signing.Enabled {
		kp, err := signer.LoadKeyPair(opts.Signing.PrivateKeyPath, opts.Signing.PublicKeyPath, opts.Sink)
		if err != nil {
			return BuildResult{}, err
		}
		sig := signer.Sign(kp, descBytes)
		payloads = append(payloads, container.Payload{Type: container.TypeSignature, Bytes: sig})
		flags |= container.FlagSignedPkg
	}

	for _, a := range opts.Artifacts {
		payloads = append(payloads, container.Payload{Type: a.Type, Bytes: a.Bytes})
	}

	image, err := container.Assemble(payloads, flags)
	if err != nil {
		return BuildResult{}, err
	}

	return BuildResult{Package: image, ConfigHash: desc.ConfigHash}, nil
}

// defaultBuildID truncates the wall-clock Unix timestamp to 32 bits, the
// reference behavior §4.3 documents for builds that don't need
// reproducibility.
func defaultBuildID() uint32 {
	return uint32(wallClockUnix())
}

// CollectArtifacts scans a bitstreams/ directory for the fixed file names
// the §6 CLI surface contract defines ({sd,hd}_{analog,hdmi,dual}.bin),
// returning them in container.ArtifactScanOrder. Missing files are simply
// skipped; at least one must be present (enforced by the caller per the
// CLI contract, since packager itself has no opinion on CLI UX).
func CollectArtifacts(bitstreamsDir string) ([]ArtifactFile, error) {
	var artifacts []ArtifactFile
	for _, t := range container.ArtifactScanOrder {
		name, ok := container.ArtifactFileNames[t]
		if !ok {
			continue
		}
		path := bitstreamsDir + string(os.PathSeparator) + name
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		artifacts = append(artifacts, ArtifactFile{Type: t, Bytes: data})
	}
	return artifacts, nil
}
