package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrDecompress wraps errors of a compressed file whose frames cannot be read
var ErrDecompress = errors.New("cannot decompress file")

// ReadFile reads and decompresses the whole file at path.
//
// A missing file is not an error: ReadFile returns nil data and a nil error. Other
// I/O errors are returned as they are, a broken compression frame wraps ErrDecompress.
func ReadFile(path string) ([]byte, Compression, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, CompressionNone, nil
	}
	if err != nil {
		return nil, CompressionNone, err
	}
	if len(raw) == 0 {
		return nil, CompressionNone, nil
	}

	data, c, err := Decompress(raw)
	if err != nil {
		return nil, c, fmt.Errorf("%w %s (%s): %v", ErrDecompress, path, c, err)
	}
	return data, c, nil
}

// WriteFile compresses data and replaces the file at path with it. The data is
// written to a temporary file in the same directory which is then renamed over
// path, so readers see either the old or the new file.
func WriteFile(path string, data []byte, c Compression) error {
	out, err := Compress(data, c)
	if err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// remove the temporary file on every error path
	ok := false
	defer func() {
		if !ok {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	ok = true
	return nil
}
