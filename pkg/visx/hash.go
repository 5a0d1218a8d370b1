package visx

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// hashChunkSize bounds the memory used per file while hashing.
const hashChunkSize = 32 * 1024

// ChecksumFunc computes the content digest and byte size of a file. The
// manifest builder takes one so tests can substitute a fake.
type ChecksumFunc func(path string) (digest string, size int64, err error)

// Checksum streams the file at path through SHA-256 in fixed-size chunks and
// returns the lowercase hex digest together with the number of bytes read.
// Reading size and digest in the same pass keeps the two consistent even if
// the file is mutated between enumeration and archiving.
func Checksum(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	n, err := io.CopyBuffer(h, f, buf)
	if err != nil {
		return "", 0, &ReadError{Path: path, Err: err}
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
