package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// DelimitedReader reads a delimited text file whose first record is the header.
type DelimitedReader struct {
	file   *os.File
	stream io.ReadCloser
	csv    *csv.Reader
	header []string
}

// OpenDelimited opens path, decompressing by extension, and reads the header.
func OpenDelimited(path string, delimiter rune) (*DelimitedReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stream, err := decompress(path, file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r, err := NewDelimitedReader(stream, delimiter)
	if err != nil {
		_ = stream.Close()
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.file = file
	r.stream = stream
	return r, nil
}

// NewDelimitedReader reads delimited records from r. The header is read
// immediately.
func NewDelimitedReader(r io.Reader, delimiter rune) (*DelimitedReader, error) {
	c := csv.NewReader(r)
	c.Comma = delimiter
	c.LazyQuotes = true

	header, err := c.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	return &DelimitedReader{csv: c, header: header}, nil
}

// Header returns the header record
func (r *DelimitedReader) Header() []string {
	return r.header
}

// Next returns the next data record. A record with a different cell count
// than the header is an error.
func (r *DelimitedReader) Next() ([]string, error) {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	return record, nil
}

// Close closes the decompressor and the file. It is safe to call Close
// multiple times.
func (r *DelimitedReader) Close() error {
	var err error
	if r.stream != nil {
		err = r.stream.Close()
		r.stream = nil
	}
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
		r.file = nil
	}
	return err
}

// Compression names the codec applied to a delimited file.
type Compression string

const (
	CompressionNone   Compression = ""
	CompressionGzip   Compression = "gzip"
	CompressionZstd   Compression = "zstd"
	CompressionLZ4    Compression = "lz4"
	CompressionBrotli Compression = "brotli"
)

// DetectCompression picks the codec from the file extension.
func DetectCompression(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	case ".br":
		return CompressionBrotli
	default:
		return CompressionNone
	}
}

func decompress(path string, r io.Reader) (io.ReadCloser, error) {
	switch DetectCompression(path) {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}
