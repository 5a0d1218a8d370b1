package types

// BuildResult is the output of a successful packaging run.
type BuildResult struct {
	// ArchivePath is the absolute path of the generated .visx file.
	ArchivePath string

	// Manifest is the manifest embedded in the archive.
	Manifest *Manifest

	// CompressedSize is the on-disk size of the finished archive in bytes.
	// The embedded manifest carries 0 for this value (see Stats).
	CompressedSize int64
}

// Reduction returns the compression ratio in [0, 1] as
// 1 - compressed/original. Returns 0 for an empty package so callers never
// divide by zero, and clamps at 0 if compression overhead made the archive
// larger than its contents.
func (r *BuildResult) Reduction() float64 {
	total := r.Manifest.Stats.TotalSize
	if total <= 0 {
		return 0
	}
	ratio := 1 - float64(r.CompressedSize)/float64(total)
	if ratio < 0 {
		return 0
	}
	return ratio
}
