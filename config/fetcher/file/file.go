package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathIsDirectory is returned when the path provided to the Fetcher points to a directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// StdinPath makes NewFetcher read standard input instead of a file.
const StdinPath = "-"

// Fetcher implements config.DataFetcher for property and settings files.
// The contents are read once at construction time and cached.
type Fetcher struct {
	source string
	data   []byte
}

// NewFetcher returns a constructor function that creates a Fetcher for fpath.
// The constructor form lets fx decide when the file is read.
// A path of "-" reads standard input.
func NewFetcher(fpath string) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		if fpath == StdinPath {
			return FromReader("stdin", os.Stdin)
		}

		cleanPath := filepath.Clean(fpath)

		stat, err := os.Stat(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
		}

		if stat.IsDir() {
			return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
		}

		data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
		if err != nil {
			return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
		}

		return &Fetcher{
			source: cleanPath,
			data:   data,
		}, nil
	}
}

// FromReader drains r into a Fetcher. Name identifies the source in errors and Source.
func FromReader(name string, r io.Reader) (*Fetcher, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	return &Fetcher{
		source: name,
		data:   data,
	}, nil
}

// Source returns the cleaned file path, or the reader name for FromReader.
func (f *Fetcher) Source() string {
	return f.source
}

// Ext returns the lower-cased extension of the source without the dot, e.g. "yaml".
func (f *Fetcher) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.source)), ".")
}

// Fetch returns a copy of the cached data so callers cannot mutate it.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}
