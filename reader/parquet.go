package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/segmentio/parquet-go"
)

// rowBatch is how many parquet rows are decoded per ReadRows call.
const rowBatch = 256

// ParquetReader reads a parquet file as text records.
//
// Every leaf column of the schema becomes one header entry; nested fields use
// dot notation (e.g. "address.street"). Null values read as the empty string
// and repeated values are joined with commas.
type ParquetReader struct {
	file   *os.File
	pqFile *parquet.File
	rows   *parquet.Reader
	header []string

	buf  []parquet.Row
	n    int
	next int
	done bool
}

// OpenParquet opens and validates a parquet file.
//
// Example:
//
//	r, err := OpenParquet("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func OpenParquet(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	paths := pqFile.Schema().Columns()
	if len(paths) == 0 {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNoHeader)
	}
	header := make([]string, len(paths))
	for i, p := range paths {
		header[i] = strings.Join(p, ".")
	}

	return &ParquetReader{
		file:   file,
		pqFile: pqFile,
		rows:   parquet.NewReader(pqFile),
		header: header,
		buf:    make([]parquet.Row, rowBatch),
	}, nil
}

// Header returns the leaf column paths.
func (r *ParquetReader) Header() []string {
	return r.header
}

// Schema returns the parquet file schema.
func (r *ParquetReader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// NumRows reports the row count stored in the file metadata.
func (r *ParquetReader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// Next returns the next row rendered as text.
func (r *ParquetReader) Next() ([]string, error) {
	for r.next >= r.n {
		if r.done {
			return nil, io.EOF
		}
		n, err := r.rows.ReadRows(r.buf)
		r.n, r.next = n, 0
		if err != nil {
			// Use errors.Is for proper EOF detection
			if !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to read row: %w", err)
			}
			r.done = true
		}
	}

	row := r.buf[r.next]
	r.next++
	return r.record(row), nil
}

func (r *ParquetReader) record(row parquet.Row) []string {
	cells := make([]string, len(r.header))
	seen := make([]bool, len(r.header))
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= len(cells) || v.IsNull() {
			continue
		}
		if seen[col] {
			cells[col] += "," + valueText(v)
		} else {
			cells[col] = valueText(v)
			seen[col] = true
		}
	}
	return cells
}

func valueText(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Int96:
		return fmt.Sprint(v.Int96())
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return ""
	}
}

// Close closes the parquet reader and releases associated resources.
// It is safe to call Close multiple times.
func (r *ParquetReader) Close() error {
	var err error
	if r.rows != nil {
		err = r.rows.Close()
		r.rows = nil
	}
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
		r.file = nil
	}
	return err
}
