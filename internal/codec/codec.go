// Package codec provides transparent compression for batch request and
// result streams. The codec is chosen from the file extension.
package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Codec provides compression and decompression functionality.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

var (
	_ Codec = None{}
	_ Codec = Gzip{}
	_ Codec = Zstd{}
)

// None passes data through unchanged.
type None struct{}

// Reader returns r as a ReadCloser. Closing it does not close r.
func (None) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// Writer returns w as a WriteCloser. Closing it does not close w.
func (None) Writer(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

// Extension returns the empty string.
func (None) Extension() string { return "" }

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Gzip implements gzip compression.
type Gzip struct{}

// Reader wraps r to decompress gzip data.
func (Gzip) Reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// Writer wraps w to compress data with gzip.
func (Gzip) Writer(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

// Extension returns "gz".
func (Gzip) Extension() string { return "gz" }

// Zstd implements zstd compression.
type Zstd struct{}

// Reader wraps r to decompress zstd data.
func (Zstd) Reader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

// Writer wraps w to compress data with zstd.
func (Zstd) Writer(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

// Extension returns "zst".
func (Zstd) Extension() string { return "zst" }

// ForPath selects a codec from the extension of path: ".gz" for gzip,
// ".zst" or ".zstd" for zstd, anything else for none.
func ForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip{}
	case ".zst", ".zstd":
		return Zstd{}
	default:
		return None{}
	}
}

// Open opens path for reading, decompressing according to its extension.
// The path "-" reads standard input uncompressed.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := ForPath(path).Reader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &stackedReadCloser{ReadCloser: r, file: f}, nil
}

// Create creates path for writing, compressing according to its extension.
// The path "-" writes standard output uncompressed.
func Create(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := ForPath(path).Writer(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &stackedWriteCloser{WriteCloser: w, file: f}, nil
}

// stackedReadCloser closes the decompressor and then the file under it.
type stackedReadCloser struct {
	io.ReadCloser
	file *os.File
}

func (s *stackedReadCloser) Close() error {
	err := s.ReadCloser.Close()
	if ferr := s.file.Close(); err == nil {
		err = ferr
	}
	return err
}

// stackedWriteCloser flushes the compressor and then closes the file.
type stackedWriteCloser struct {
	io.WriteCloser
	file *os.File
}

func (s *stackedWriteCloser) Close() error {
	err := s.WriteCloser.Close()
	if ferr := s.file.Close(); err == nil {
		err = ferr
	}
	return err
}
