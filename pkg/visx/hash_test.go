package visx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sha256 of the 4-byte string "test".
const testDigest = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

func TestChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))

	digest, size, err := Checksum(path)
	require.NoError(t, err)
	assert.Equal(t, testDigest, digest)
	assert.Equal(t, int64(4), size)
}

func TestChecksumLargeFile(t *testing.T) {
	// Bigger than one chunk so the streaming path is exercised.
	path := filepath.Join(t.TempDir(), "big.bin")
	data := make([]byte, hashChunkSize*3+17)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	digest, size, err := Checksum(path)
	require.NoError(t, err)
	assert.Len(t, digest, 64)
	assert.Equal(t, int64(len(data)), size)

	again, _, err := Checksum(path)
	require.NoError(t, err)
	assert.Equal(t, digest, again)
}

func TestChecksumMissingFile(t *testing.T) {
	_, _, err := Checksum(filepath.Join(t.TempDir(), "nope"))
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Contains(t, readErr.Path, "nope")
}
