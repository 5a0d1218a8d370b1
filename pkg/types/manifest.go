package types

// PackageType classifies the contents of a VISX package.
type PackageType string

const (
	// TypeAuto asks the builder to detect the type from the source tree.
	TypeAuto PackageType = "auto"

	TypeWASM       PackageType = "wasm"
	TypeNode       PackageType = "node"
	TypeJavaScript PackageType = "javascript"
	TypeGeneric    PackageType = "generic"
)

// PackageInfo is the identity block of a manifest. It is derived once per
// build (descriptor file or directory-name fallback) and never mutated after.
type PackageInfo struct {
	Name        string      `json:"name"`
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Type        PackageType `json:"type"`

	// Dependencies maps dependency name to version spec, copied verbatim
	// from the package descriptor. Not serialized inside the package block;
	// the manifest carries its own top-level copy.
	Dependencies map[string]string `json:"-"`
}

// FileEntry describes a single file bundled in the archive.
type FileEntry struct {
	// Path is the POSIX-style path relative to the source root, identical
	// to the entry name inside the archive.
	Path string `json:"path"`

	// Size is the file size in bytes at enumeration time.
	Size int64 `json:"size"`

	// Checksum is the lowercase hex SHA-256 digest of the file content.
	Checksum string `json:"checksum"`
}

// Stats aggregates size information for the whole package.
type Stats struct {
	TotalFiles int `json:"total_files"`

	// TotalSize is the sum of the uncompressed file sizes.
	TotalSize int64 `json:"total_size"`

	// CompressedSize is written as 0 in the embedded manifest; the true
	// value is only known after the archive is finalized and is reported
	// out-of-band in BuildResult.
	CompressedSize int64 `json:"compressed_size"`
}

// PlatformMetadata records the deployment target of the package.
type PlatformMetadata struct {
	Platform       string   `json:"platform"`
	MinimumVersion string   `json:"minimum_version"`
	Requires       []string `json:"requires"`
}

// Manifest is the first entry of every VISX archive (manifest.json). Field
// order here matches the serialized schema.
type Manifest struct {
	VisxVersion  string            `json:"visx_version"`
	Package      PackageInfo       `json:"package"`
	CreatedAt    string            `json:"created_at"`
	Stats        Stats             `json:"stats"`
	Files        []FileEntry       `json:"files"`
	Dependencies map[string]string `json:"dependencies"`
	Metadata     PlatformMetadata  `json:"metadata"`
}
