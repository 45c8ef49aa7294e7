// Package ports defines interfaces (contracts) for external dependencies.
// These enable dependency injection and testability via mock implementations.
package ports

import "os"

// FileSystem abstracts the filesystem operations ingestion and saving need.
// Production code uses OSFileSystem adapter; tests use MockFileSystem.
type FileSystem interface {
	// ReadFile reads the named file and returns the contents.
	ReadFile(name string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(name string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory along with any necessary parents.
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info for the named file.
	Stat(name string) (os.FileInfo, error)
}
