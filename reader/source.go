package reader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNoHeader is returned for a source without a header record.
	ErrNoHeader = errors.New("file has no header")

	// ErrNoFiles is returned when a glob pattern matches nothing.
	ErrNoFiles = errors.New("no files match pattern")

	// ErrTooManyFiles is returned when a glob pattern matches more than MaxFiles files.
	ErrTooManyFiles = errors.New("pattern matched too many files")

	// ErrHeaderMismatch is returned when files loaded together have different headers.
	ErrHeaderMismatch = errors.New("header does not match first file")

	// ErrInvalidDelimiter is returned for a delimiter the CSV parser cannot use.
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)

// MaxFiles limits how many files one glob pattern may load.
const MaxFiles = 1000

// Options controls ingestion.
type Options struct {
	// Delimiter separates cells in delimited text files.
	Delimiter rune
}

// DefaultOptions returns semicolon-delimited ingestion.
func DefaultOptions() Options {
	return Options{Delimiter: ';'}
}

func (o Options) validate() error {
	d := o.Delimiter
	if d == 0 || d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}
	return nil
}

// Source yields the header and the records of one file.
type Source interface {
	// Header returns the column names, untrimmed.
	Header() []string

	// Next returns the next record, or io.EOF after the last one.
	Next() ([]string, error)

	// Close releases the file.
	Close() error
}

// Format is the physical layout of a source file.
type Format int

const (
	FormatDelimited Format = iota
	FormatParquet
)

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return FormatParquet
	}
	return FormatDelimited
}

// Open opens a single file as a Source.
func Open(path string, opts Options) (Source, error) {
	switch DetectFormat(path) {
	case FormatParquet:
		return OpenParquet(path)
	default:
		if err := opts.validate(); err != nil {
			return nil, err
		}
		return OpenDelimited(path, opts.Delimiter)
	}
}
