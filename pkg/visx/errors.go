package visx

import "fmt"

// NotFoundError reports a source root that does not exist or is not a
// directory.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("source directory not found: %s", e.Path)
}

// EmptyPackageError reports a source tree with no files left after the
// exclusion rules ran. An archive with zero files is invalid output, so the
// build aborts before anything is written.
type EmptyPackageError struct {
	Root string
}

func (e *EmptyPackageError) Error() string {
	return fmt.Sprintf("no files to package in %s", e.Root)
}

// ReadError wraps a failure to open or read a source file at any stage
// (enumeration, hashing, or archiving).
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a failure to write or finalize the output archive.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write archive %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
