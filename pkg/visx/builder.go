package visx

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrhapile/visx/pkg/types"
)

// Option configures a build.
type Option func(*config)

type config struct {
	pkgType     types.PackageType
	name        string
	version     string
	description string
	excludes    []string
	workers     int
	checksum    ChecksumFunc
	logger      *log.Logger
	now         func() time.Time
}

// WithType sets the package type explicitly, skipping auto-detection.
func WithType(t types.PackageType) Option {
	return func(c *config) { c.pkgType = t }
}

// WithName overrides the package name from the descriptor.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithVersion overrides the package version from the descriptor.
func WithVersion(version string) Option {
	return func(c *config) { c.version = version }
}

// WithDescription overrides the package description.
func WithDescription(desc string) Option {
	return func(c *config) { c.description = desc }
}

// WithExcludePatterns adds glob patterns to the exclusion rules.
func WithExcludePatterns(patterns ...string) Option {
	return func(c *config) { c.excludes = append(c.excludes, patterns...) }
}

// WithHashWorkers bounds the concurrent checksum pool.
func WithHashWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLogger sets the logger for warnings and progress output.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// withChecksum and withClock exist for tests.
func withChecksum(fn ChecksumFunc) Option {
	return func(c *config) { c.checksum = fn }
}

func withClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// Build packages sourceDir into a VISX archive at outputFile, appending the
// .visx extension if missing. The steps run exactly once, in order: resolve
// type, read metadata, enumerate files, build the manifest, write the
// archive. Any failure aborts the build, removes partial output, and is
// returned to the caller; there are no retries. Cancelling ctx stops
// enumeration, hashing, and writing promptly with the same cleanup
// guarantee.
func Build(ctx context.Context, sourceDir, outputFile string, opts ...Option) (*types.BuildResult, error) {
	cfg := &config{
		pkgType: types.TypeAuto,
		logger:  log.New(os.Stderr),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	st, err := os.Stat(sourceDir)
	if err != nil || !st.IsDir() {
		return nil, &NotFoundError{Path: sourceDir}
	}
	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, &NotFoundError{Path: sourceDir}
	}

	treeCfg, warnings := loadBuildConfig(root)

	pkgType := cfg.pkgType
	if pkgType == types.TypeAuto || pkgType == "" {
		pkgType = DetectType(root)
		cfg.logger.Info("auto-detected package type", "type", pkgType)
	}

	info, metaWarnings := InspectPackage(root)
	warnings = append(warnings, metaWarnings...)
	for _, w := range warnings {
		cfg.logger.Warn(w)
	}
	applyOverrides(&info, treeCfg, cfg)
	info.Type = pkgType

	rules, err := NewExcludeRules(DefaultExcludePatterns, append(treeCfg.Exclude, cfg.excludes...))
	if err != nil {
		return nil, err
	}
	files, err := NewEnumerator(rules).Enumerate(ctx, root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &EmptyPackageError{Root: sourceDir}
	}

	builder := NewManifestBuilder(cfg.checksum, cfg.workers)
	builder.now = cfg.now
	manifest, err := builder.Build(ctx, root, info, files)
	if err != nil {
		return nil, err
	}

	outPath, err := filepath.Abs(ensureExtension(outputFile))
	if err != nil {
		return nil, &WriteError{Path: outputFile, Err: err}
	}

	size, err := NewArchiveWriter(cfg.logger).Write(ctx, root, outPath, manifest)
	if err != nil {
		// A half-written archive must never be mistaken for a valid one.
		os.Remove(outPath)
		return nil, err
	}

	return &types.BuildResult{
		ArchivePath:    outPath,
		Manifest:       manifest,
		CompressedSize: size,
	}, nil
}

// applyOverrides layers metadata sources: CLI flags beat the tree config,
// which beats the descriptor. Name and version are never left empty.
func applyOverrides(info *types.PackageInfo, tree BuildConfig, cfg *config) {
	if tree.Package.Name != "" {
		info.Name = tree.Package.Name
	}
	if tree.Package.Version != "" {
		info.Version = tree.Package.Version
	}
	if tree.Package.Description != "" {
		info.Description = tree.Package.Description
	}
	if cfg.name != "" {
		info.Name = cfg.name
	}
	if cfg.version != "" {
		info.Version = cfg.version
	}
	if cfg.description != "" {
		info.Description = cfg.description
	}
}

func ensureExtension(path string) string {
	if strings.HasSuffix(path, ArchiveExtension) {
		return path
	}
	return path + ArchiveExtension
}
