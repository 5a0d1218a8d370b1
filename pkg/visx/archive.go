package visx

import (
	"archive/tar"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"

	"github.com/mrhapile/visx/pkg/types"
)

// progressInterval controls how often the writer logs a file count.
const progressInterval = 100

// ArchiveWriter serializes a manifest and its file list into a single
// gzip-compressed tar stream. The writer owns the output exclusively; all
// entries are written sequentially from one goroutine.
type ArchiveWriter struct {
	logger *log.Logger
}

// NewArchiveWriter returns a writer logging progress to logger.
func NewArchiveWriter(logger *log.Logger) *ArchiveWriter {
	return &ArchiveWriter{logger: logger}
}

// Write creates the archive at outPath: the manifest as the first entry,
// then every manifest file in order, with entry names matching the
// slash-separated relative paths so extraction reconstructs the tree shape.
// Returns the on-disk size of the finished archive. A partial file may be
// left behind on error; the orchestrator removes it.
func (w *ArchiveWriter) Write(ctx context.Context, root, outPath string, m *types.Manifest) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, &WriteError{Path: outPath, Err: err}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return 0, &WriteError{Path: outPath, Err: err}
	}

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	fail := func(err error) (int64, error) {
		tw.Close()
		gw.Close()
		f.Close()
		return 0, err
	}

	manifestJSON, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fail(&WriteError{Path: outPath, Err: err})
	}
	hdr := &tar.Header{
		Name:     ManifestFileName,
		Size:     int64(len(manifestJSON)),
		Mode:     0o644,
		ModTime:  time.Now(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fail(&WriteError{Path: outPath, Err: err})
	}
	if _, err := tw.Write(manifestJSON); err != nil {
		return fail(&WriteError{Path: outPath, Err: err})
	}

	for i, entry := range m.Files {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if err := w.writeFile(tw, root, entry); err != nil {
			return fail(err)
		}
		if (i+1)%progressInterval == 0 {
			w.logger.Info("adding files", "done", i+1, "total", len(m.Files))
		}
	}

	if err := tw.Close(); err != nil {
		gw.Close()
		f.Close()
		return 0, &WriteError{Path: outPath, Err: err}
	}
	if err := gw.Close(); err != nil {
		f.Close()
		return 0, &WriteError{Path: outPath, Err: err}
	}
	if err := f.Close(); err != nil {
		return 0, &WriteError{Path: outPath, Err: err}
	}

	st, err := os.Stat(outPath)
	if err != nil {
		return 0, &WriteError{Path: outPath, Err: err}
	}
	return st.Size(), nil
}

func (w *ArchiveWriter) writeFile(tw *tar.Writer, root string, entry types.FileEntry) error {
	path := filepath.Join(root, filepath.FromSlash(entry.Path))
	f, err := os.Open(path)
	if err != nil {
		return &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &ReadError{Path: path, Err: err}
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return &ReadError{Path: path, Err: err}
	}
	hdr.Name = entry.Path

	if err := tw.WriteHeader(hdr); err != nil {
		return &WriteError{Path: entry.Path, Err: err}
	}
	if _, err := io.Copy(tw, f); err != nil {
		return &WriteError{Path: entry.Path, Err: err}
	}
	return nil
}
