package visx

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrhapile/visx/pkg/types"
)

func quietLogger() *log.Logger {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.FatalLevel)
	return logger
}

func buildOpts(extra ...Option) []Option {
	return append([]Option{WithLogger(quietLogger()), withClock(fixedClock)}, extra...)
}

func TestBuildHiddenFilesExcluded(t *testing.T) {
	// a.txt is bundled, .hidden/b.txt never appears in the manifest.
	root := writeTree(t, map[string]string{
		"a.txt":         "test",
		".hidden/b.txt": "secret",
	})
	out := filepath.Join(t.TempDir(), "pkg.visx")

	result, err := Build(context.Background(), root, out, buildOpts()...)
	require.NoError(t, err)

	m := result.Manifest
	require.Len(t, m.Files, 1)
	assert.Equal(t, types.FileEntry{Path: "a.txt", Size: 4, Checksum: testDigest}, m.Files[0])
	assert.Equal(t, 1, m.Stats.TotalFiles)
	assert.Equal(t, int64(4), m.Stats.TotalSize)
	assert.Positive(t, result.CompressedSize)
}

func TestBuildMissingSource(t *testing.T) {
	_, err := Build(context.Background(), filepath.Join(t.TempDir(), "nope"), "out.visx", buildOpts()...)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestBuildEmptyPackage(t *testing.T) {
	// Only excluded files in the tree: nothing survives, nothing is written.
	root := writeTree(t, map[string]string{".git/config": "x", ".DS_Store": ""})
	out := filepath.Join(t.TempDir(), "pkg.visx")

	_, err := Build(context.Background(), root, out, buildOpts()...)
	var empty *EmptyPackageError
	require.ErrorAs(t, err, &empty)
	assert.NoFileExists(t, out)
}

func TestBuildMalformedDescriptorStillSucceeds(t *testing.T) {
	root := writeTree(t, map[string]string{
		"package.json": "{definitely not json",
		"index.js":     "module.exports = 1;",
	})
	out := filepath.Join(t.TempDir(), "pkg.visx")

	result, err := Build(context.Background(), root, out, buildOpts()...)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(root), result.Manifest.Package.Name)
	assert.Equal(t, "1.0.0", result.Manifest.Package.Version)
	// Descriptor presence still drives type detection even when unparseable.
	assert.Equal(t, types.TypeNode, result.Manifest.Package.Type)
}

func TestBuildAppendsExtension(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "x"})
	out := filepath.Join(t.TempDir(), "bundle")

	result, err := Build(context.Background(), root, out, buildOpts()...)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.ArchivePath, "bundle.visx"))
	assert.FileExists(t, result.ArchivePath)
}

func TestBuildExplicitTypeSkipsDetection(t *testing.T) {
	root := writeTree(t, map[string]string{"package.json": "{}", "a.txt": "x"})
	out := filepath.Join(t.TempDir(), "pkg.visx")

	result, err := Build(context.Background(), root, out, buildOpts(WithType(types.TypeWASM))...)
	require.NoError(t, err)
	assert.Equal(t, types.TypeWASM, result.Manifest.Package.Type)
}

func TestBuildMetadataOverrides(t *testing.T) {
	root := writeTree(t, map[string]string{
		"package.json": `{"name": "from-descriptor", "version": "0.1.0"}`,
	})
	out := filepath.Join(t.TempDir(), "pkg.visx")

	result, err := Build(context.Background(), root, out, buildOpts(
		WithName("cli-name"),
		WithVersion("9.9.9"),
		WithDescription("overridden"),
	)...)
	require.NoError(t, err)
	assert.Equal(t, "cli-name", result.Manifest.Package.Name)
	assert.Equal(t, "9.9.9", result.Manifest.Package.Version)
	assert.Equal(t, "overridden", result.Manifest.Package.Description)
}

func TestBuildTreeConfig(t *testing.T) {
	root := writeTree(t, map[string]string{
		".visx.yaml": "exclude: ['**.log']\npackage:\n  name: from-config\n",
		"a.txt":      "x",
		"sub/b.log":  "noise",
	})
	out := filepath.Join(t.TempDir(), "pkg.visx")

	result, err := Build(context.Background(), root, out, buildOpts()...)
	require.NoError(t, err)
	assert.Equal(t, "from-config", result.Manifest.Package.Name)
	require.Len(t, result.Manifest.Files, 1)
	assert.Equal(t, "a.txt", result.Manifest.Files[0].Path)

	// CLI flag outranks the tree config.
	result, err = Build(context.Background(), root, filepath.Join(t.TempDir(), "p2.visx"),
		buildOpts(WithName("flag-name"))...)
	require.NoError(t, err)
	assert.Equal(t, "flag-name", result.Manifest.Package.Name)
}

func TestBuildDeterministicManifests(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt":   "alpha",
		"b/c.txt": "gamma",
		"b/d.txt": "delta",
	})

	r1, err := Build(context.Background(), root, filepath.Join(t.TempDir(), "one.visx"), buildOpts()...)
	require.NoError(t, err)
	r2, err := Build(context.Background(), root, filepath.Join(t.TempDir(), "two.visx"), buildOpts()...)
	require.NoError(t, err)

	// Identical trees yield identical manifests (the clock is pinned here;
	// in production only created_at may differ).
	assert.Equal(t, r1.Manifest, r2.Manifest)
}

func TestBuildRemovesPartialOutputOnWriteFailure(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt":    "aaa",
		"gone.txt": "bbbb",
	})
	out := filepath.Join(t.TempDir(), "pkg.visx")

	// The fake checksum deletes gone.txt while hashing it, so the manifest
	// builds fine but the archive writer fails partway through.
	sabotage := func(path string) (string, int64, error) {
		if strings.HasSuffix(path, "gone.txt") {
			require.NoError(t, os.Remove(path))
			return strings.Repeat("ab", 32), 4, nil
		}
		return Checksum(path)
	}

	_, err := Build(context.Background(), root, out,
		buildOpts(withChecksum(sabotage), WithHashWorkers(1))...)
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.NoFileExists(t, out)
}

func TestBuildCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "x"})
	out := filepath.Join(t.TempDir(), "pkg.visx")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, root, out, buildOpts()...)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, out)
}
