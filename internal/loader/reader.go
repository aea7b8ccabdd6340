package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// maxLineSize bounds a single input row.
const maxLineSize = 4 << 20

// listFiles returns the files in dir with the given extension, sorted by name.
func listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// latin1 wraps r so that ISO-8859-1 input is read as UTF-8.
func latin1(r io.Reader) io.Reader {
	return charmap.ISO8859_1.NewDecoder().Reader(r)
}

// scanLines calls fn for every line of r (1-based numbering).
// The first line is skipped when header is set.
func scanLines(ctx context.Context, r io.Reader, header bool, fn func(lineNo int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if header && lineNo == 1 {
			continue
		}
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := fn(lineNo, strings.TrimRight(sc.Text(), "\r")); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan at line %d: %w", lineNo+1, err)
	}
	return nil
}

// scanFile opens path as latin-1 text and scans it line by line.
func scanFile(ctx context.Context, path string, header bool, fn func(lineNo int, line string) error) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	err = scanLines(ctx, latin1(f), header, fn)
	var rowErr *RowError
	if err != nil && !errors.As(err, &rowErr) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return err
}

// rsplit splits s on sep from the right into at most n parts.
func rsplit(s, sep string, n int) []string {
	var tail []string
	for len(tail) < n-1 {
		i := strings.LastIndex(s, sep)
		if i < 0 {
			break
		}
		tail = append(tail, s[i+len(sep):])
		s = s[:i]
	}
	parts := make([]string, 0, len(tail)+1)
	parts = append(parts, s)
	for i := len(tail) - 1; i >= 0; i-- {
		parts = append(parts, tail[i])
	}
	return parts
}
