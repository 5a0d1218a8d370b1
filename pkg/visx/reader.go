package visx

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/mrhapile/visx/pkg/types"
)

// ErrNoManifest reports an archive whose first entry is not manifest.json.
var ErrNoManifest = errors.New("archive does not start with " + ManifestFileName)

// openArchive returns a tar reader positioned at the first entry. The caller
// must call the returned close function.
func openArchive(path string) (*tar.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &ReadError{Path: path, Err: err}
	}
	gr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, &ReadError{Path: path, Err: err}
	}
	closeAll := func() error {
		gr.Close()
		return f.Close()
	}
	return tar.NewReader(gr), closeAll, nil
}

// readManifestEntry consumes the first tar entry, which must be the
// manifest.
func readManifestEntry(tr *tar.Reader) (*types.Manifest, error) {
	hdr, err := tr.Next()
	if err != nil {
		return nil, err
	}
	if hdr.Name != ManifestFileName {
		return nil, ErrNoManifest
	}
	var m types.Manifest
	if err := json.NewDecoder(tr).Decode(&m); err != nil {
		return nil, fmt.Errorf("malformed manifest: %w", err)
	}
	return &m, nil
}

// ReadManifest extracts just the embedded manifest from a .visx archive.
func ReadManifest(path string) (*types.Manifest, error) {
	tr, closeFn, err := openArchive(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return readManifestEntry(tr)
}

// Verify recomputes the SHA-256 digest of every archive entry and compares
// it against the embedded manifest. Returns one problem string per mismatch,
// missing, or undeclared entry; an empty slice means the archive is intact.
func Verify(ctx context.Context, path string) ([]string, error) {
	tr, closeFn, err := openArchive(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	m, err := readManifestEntry(tr)
	if err != nil {
		return nil, err
	}

	want := make(map[string]types.FileEntry, len(m.Files))
	for _, e := range m.Files {
		want[e.Path] = e
	}

	var problems []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ReadError{Path: path, Err: err}
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		entry, ok := want[hdr.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: present in archive but not in manifest", hdr.Name))
			continue
		}
		delete(want, hdr.Name)

		h := sha256.New()
		n, err := io.Copy(h, tr)
		if err != nil {
			return nil, &ReadError{Path: path, Err: err}
		}
		if n != entry.Size {
			problems = append(problems, fmt.Sprintf("%s: size %d, manifest says %d", hdr.Name, n, entry.Size))
		}
		if digest := hex.EncodeToString(h.Sum(nil)); digest != entry.Checksum {
			problems = append(problems, fmt.Sprintf("%s: checksum mismatch", hdr.Name))
		}
	}
	for p := range want {
		problems = append(problems, fmt.Sprintf("%s: listed in manifest but missing from archive", p))
	}
	return problems, nil
}

// Extract unpacks every file entry of the archive under destDir,
// reconstructing the original tree shape. The manifest entry itself is not
// written out; it describes the tree rather than belonging to it. Entry
// names are validated against path traversal before anything touches disk.
func Extract(ctx context.Context, archivePath, destDir string) error {
	tr, closeFn, err := openArchive(archivePath)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := readManifestEntry(tr); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ReadError{Path: archivePath, Err: err}
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(hdr.Name)) || strings.Contains(hdr.Name, "\\") {
			return fmt.Errorf("unsafe entry path %q", hdr.Name)
		}
		target := filepath.Join(destDir, filepath.FromSlash(hdr.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return &WriteError{Path: target, Err: err}
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
		if err != nil {
			return &WriteError{Path: target, Err: err}
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return &WriteError{Path: target, Err: err}
		}
		if err := out.Close(); err != nil {
			return &WriteError{Path: target, Err: err}
		}
	}
}
