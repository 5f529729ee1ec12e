package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPayload = bytes.Repeat([]byte(`{"data":{"k":{"name":"value","n":1}}}`), 100)

func TestCompressRoundTrip(t *testing.T) {
	for _, c := range Compressions() {
		t.Run(string(c), func(t *testing.T) {
			out, err := Compress(testPayload, c)
			require.NoError(t, err)
			assert.Equal(t, c, Detect(out))
			if c != CompressionNone {
				assert.Less(t, len(out), len(testPayload))
			}

			back, detected, err := Decompress(out)
			require.NoError(t, err)
			assert.Equal(t, c, detected)
			assert.Equal(t, testPayload, back)
		})
	}
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	c, err = ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)

	_, err = ParseCompression("gzip")
	assert.Error(t, err)
}

func TestReadMissingAndEmptyFile(t *testing.T) {
	dir := t.TempDir()

	data, _, err := ReadFile(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Nil(t, data)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	data, _, err = ReadFile(empty)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestReadDirectoryFails(t *testing.T) {
	_, _, err := ReadFile(t.TempDir())
	assert.Error(t, err)
}

func TestWriteFileReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "store.json")

	for _, c := range Compressions() {
		require.NoError(t, WriteFile(path, testPayload, c))
		data, detected, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, c, detected)
		assert.Equal(t, testPayload, data)
	}

	require.NoError(t, WriteFile(path, []byte(`{}`), CompressionNone))
	data, _, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), data)

	// no temporary files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadBrokenFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	broken := append(append([]byte{}, magicZstd...), 0x00, 0x01, 0x02, 0x03)
	require.NoError(t, os.WriteFile(path, broken, 0o644))

	_, _, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrDecompress)
}
