package storage

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how the store file is compressed
type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionZstd   Compression = "zstd"
	CompressionLZ4    Compression = "lz4"
	CompressionSnappy Compression = "snappy"
)

// Frame magic numbers used to detect the compression of a file
var (
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicSnappy = []byte("\xff\x06\x00\x00sNaPpY")
)

// ParseCompression converts a string into a Compression. The empty string maps to
// CompressionNone.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case "":
		return CompressionNone, nil
	case CompressionNone, CompressionZstd, CompressionLZ4, CompressionSnappy:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q, must be one of none, zstd, lz4, snappy", s)
	}
}

// Compressions returns all supported compressions
func Compressions() []Compression {
	return []Compression{CompressionNone, CompressionZstd, CompressionLZ4, CompressionSnappy}
}

// Detect returns the compression of data by looking at its frame header.
// Data without a known header is reported as CompressionNone.
func Detect(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, magicZstd):
		return CompressionZstd
	case bytes.HasPrefix(data, magicLZ4):
		return CompressionLZ4
	case bytes.HasPrefix(data, magicSnappy):
		return CompressionSnappy
	default:
		return CompressionNone
	}
}

// Compress compresses data with the given compression
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case "", CompressionNone:
		return data, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionSnappy:
		var buf bytes.Buffer
		w := snappy.NewBufferedWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

// Decompress detects the compression of data and returns the decompressed bytes.
// Data without a known frame header is returned unchanged.
func Decompress(data []byte) ([]byte, Compression, error) {
	c := Detect(data)
	switch c {
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, c, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		return out, c, err
	case CompressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		return out, c, err
	case CompressionSnappy:
		out, err := io.ReadAll(snappy.NewReader(bytes.NewReader(data)))
		return out, c, err
	default:
		return data, CompressionNone, nil
	}
}
