// Package archive decodes repository zip archives entirely in memory.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

var (
	// ErrEmptyInput is returned when zero bytes are supplied.
	ErrEmptyInput = errors.New("empty archive input")
	// ErrMalformedArchive is returned when the bytes are not a readable zip container.
	ErrMalformedArchive = errors.New("malformed archive")
	// ErrEntryNotFound is returned by ReadFile for unknown paths.
	ErrEntryNotFound = errors.New("entry not found in archive")
	// ErrIsDirectory is returned by ReadFile for directory markers.
	ErrIsDirectory = errors.New("entry is a directory")
	// ErrEntryTooLarge is returned when an entry exceeds the decompression limit.
	ErrEntryTooLarge = errors.New("entry too large")
)

// DefaultMaxEntrySize caps the uncompressed size of a single entry read
// through ReadFile (64MB). Guards against decompression bombs.
const DefaultMaxEntrySize = 64 * 1024 * 1024

// Entry is one record inside an archive.
type Entry struct {
	Path  string
	IsDir bool
	Size  int64
	CRC32 uint32
}

// Archive is a decoded, read-only archive held in memory.
type Archive struct {
	entries      []Entry
	files        map[string]*zip.File
	maxEntrySize int64
}

// Option configures Open.
type Option func(*Archive)

// WithMaxEntrySize sets the largest uncompressed entry ReadFile will decode.
// Non-positive values keep the default.
func WithMaxEntrySize(n int64) Option {
	return func(a *Archive) {
		if n > 0 {
			a.maxEntrySize = n
		}
	}
}

// Open decodes the central directory of data. Entries keep the order in
// which they appear in the container.
func Open(data []byte, opts ...Option) (*Archive, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArchive, err)
	}
	r.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())

	a := &Archive{
		entries:      make([]Entry, 0, len(r.File)),
		files:        make(map[string]*zip.File, len(r.File)),
		maxEntrySize: DefaultMaxEntrySize,
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, f := range r.File {
		// Safe conversion: check for overflow before uint64 -> int64
		size := int64(0)
		if f.UncompressedSize64 <= math.MaxInt64 {
			size = int64(f.UncompressedSize64)
		}
		a.entries = append(a.entries, Entry{
			Path:  f.Name,
			IsDir: strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir(),
			Size:  size,
			CRC32: f.CRC32,
		})
		if _, seen := a.files[f.Name]; !seen {
			a.files[f.Name] = f
		}
	}

	return a, nil
}

// Entries returns a copy of the entry list in container order.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Paths returns every entry path, directories included.
func (a *Archive) Paths() []string {
	paths := make([]string, len(a.entries))
	for i, e := range a.entries {
		paths[i] = e.Path
	}
	return paths
}

// Len returns the number of entries, directories included.
func (a *Archive) Len() int {
	return len(a.entries)
}

// ReadFile decodes the contents of a single entry.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	f, ok := a.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, path)
	}
	if strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	// SECURITY: Limit decompression size to prevent zip bombs
	declared := f.UncompressedSize64
	if declared > uint64(a.maxEntrySize) {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrEntryTooLarge, path, declared, a.maxEntrySize)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = rc.Close() }()

	// Add 1 byte to detect if actual size exceeds declared size
	content, err := io.ReadAll(io.LimitReader(rc, int64(declared)+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if uint64(len(content)) > declared {
		return nil, fmt.Errorf("%w: %s decompressed past its declared size", ErrEntryTooLarge, path)
	}

	return content, nil
}
