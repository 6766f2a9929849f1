package reader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vegasq/colq/workset"
)

// Load reads one file, or every file matching a glob pattern, into a
// working set.
//
// The pattern can include wildcards:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//
// Files are read in lexical order. Every file must carry the same header
// (compared after trimming); the rows of all files are appended in order.
func Load(pattern string, opts Options) (*workset.WorkingSet, error) {
	paths, err := Expand(pattern)
	if err != nil {
		return nil, err
	}

	var (
		b      *workset.Builder
		header []string
	)
	for _, path := range paths {
		src, err := Open(path, opts)
		if err != nil {
			return nil, err
		}

		if b == nil {
			header = trimAll(src.Header())
			b, err = workset.NewBuilder(header)
			if err != nil {
				_ = src.Close()
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		} else if !sameHeader(header, trimAll(src.Header())) {
			_ = src.Close()
			return nil, fmt.Errorf("%w: %s", ErrHeaderMismatch, path)
		}

		readErr := ingest(path, src, b)
		closeErr := src.Close()

		// Preserve the first error encountered
		if readErr != nil {
			return nil, readErr
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}

	ws := b.Finish()
	blocks := 0
	for _, s := range ws.Stats() {
		blocks += s.Blocks
	}
	logrus.WithFields(logrus.Fields{
		"files":   len(paths),
		"columns": ws.Width(),
		"rows":    ws.Len(),
		"blocks":  blocks,
	}).Info("working set ready")

	return ws, nil
}

// Expand resolves pattern to the list of files to load. A pattern without
// wildcards is returned unchanged, so a missing file surfaces as an open error.
func Expand(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		return []string{pattern}, nil
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, pattern)
	}
	if len(matches) > MaxFiles {
		return nil, fmt.Errorf("%w (%d), maximum is %d", ErrTooManyFiles, len(matches), MaxFiles)
	}
	return matches, nil
}

func ingest(path string, src Source, b *workset.Builder) error {
	start := time.Now()
	before := b.Len()
	line := 1

	for {
		record, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := b.Append(record); err != nil {
			return fmt.Errorf("%s: record %d: %w", path, line, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"file":    path,
		"rows":    b.Len() - before,
		"elapsed": time.Since(start),
	}).Info("loaded file")
	return nil
}

func trimAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimSpace(n)
	}
	return out
}

func sameHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
