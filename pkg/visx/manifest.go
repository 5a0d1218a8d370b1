package visx

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrhapile/visx/pkg/types"
)

const (
	// FormatVersion is the VISX schema version written to every manifest.
	FormatVersion = "1.0"

	// ManifestFileName is the archive's first entry.
	ManifestFileName = "manifest.json"

	// ArchiveExtension is the required suffix of the output file.
	ArchiveExtension = ".visx"
)

// defaultHashWorkers bounds the concurrent checksum pool.
const defaultHashWorkers = 4

// Target platform recorded in every manifest.
var defaultPlatform = types.PlatformMetadata{
	Platform:       "ios",
	MinimumVersion: "17.0",
	Requires:       []string{},
}

// ManifestBuilder assembles manifests from inspector and enumerator output.
type ManifestBuilder struct {
	checksum ChecksumFunc
	workers  int
	now      func() time.Time
}

// NewManifestBuilder returns a builder using the given checksum function
// (Checksum when nil) and worker count (defaultHashWorkers when <= 0).
func NewManifestBuilder(checksum ChecksumFunc, workers int) *ManifestBuilder {
	if checksum == nil {
		checksum = Checksum
	}
	if workers <= 0 {
		workers = defaultHashWorkers
	}
	return &ManifestBuilder{checksum: checksum, workers: workers, now: time.Now}
}

// Build produces the manifest for pkg and the enumerated files (relative to
// root, in enumeration order). Checksums are computed by a bounded worker
// pool; results land in a slice indexed by enumeration position, so
// Manifest.Files keeps the canonical order no matter how the workers
// interleave. CompressedSize stays 0 until the archive writer reports the
// real value out-of-band.
func (b *ManifestBuilder) Build(ctx context.Context, root string, pkg types.PackageInfo, files []string) (*types.Manifest, error) {
	entries := make([]types.FileEntry, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, rel := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			digest, size, err := b.checksum(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return err
			}
			entries[i] = types.FileEntry{Path: rel, Size: size, Checksum: digest}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int64
	for _, e := range entries {
		total += e.Size
	}

	// The manifest carries the dependency map at top level; the package
	// block's copy is not serialized, so drop it to keep decoded manifests
	// comparable with built ones.
	deps := pkg.Dependencies
	if deps == nil {
		deps = map[string]string{}
	}
	pkg.Dependencies = nil

	return &types.Manifest{
		VisxVersion: FormatVersion,
		Package:     pkg,
		CreatedAt:   b.now().UTC().Format(time.RFC3339),
		Stats: types.Stats{
			TotalFiles: len(entries),
			TotalSize:  total,
		},
		Files:        entries,
		Dependencies: deps,
		Metadata:     defaultPlatform,
	}, nil
}
