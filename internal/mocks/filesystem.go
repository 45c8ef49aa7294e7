// Package mocks provides mock implementations for testing.
package mocks

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Uday9909/ExplainMyRepo/internal/ports"
)

// MockFileSystem implements ports.FileSystem for testing.
type MockFileSystem struct {
	// Files maps paths to file contents for ReadFile/WriteFile
	Files map[string][]byte
	// Stats maps paths to FileInfo for Stat
	Stats map[string]os.FileInfo
	// Errors maps paths to errors (for simulating failures)
	Errors map[string]error

	// Call tracking
	ReadFileCalls  []string
	WriteFileCalls []string
}

// NewMockFileSystem creates a new mock filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:  make(map[string][]byte),
		Stats:  make(map[string]os.FileInfo),
		Errors: make(map[string]error),
	}
}

// Stat returns file info for the named file.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if info, ok := m.Stats[name]; ok {
		return info, nil
	}
	// Check if we have file content (implies file exists)
	if _, ok := m.Files[name]; ok {
		return &mockFileInfo{name: filepath.Base(name), size: int64(len(m.Files[name]))}, nil
	}
	return nil, os.ErrNotExist
}

// MkdirAll creates a directory along with any necessary parents.
func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if err, ok := m.Errors[path]; ok {
		return err
	}
	// Mark directory as existing
	m.Stats[path] = &mockFileInfo{name: filepath.Base(path), isDir: true}
	return nil
}

// WriteFile writes data to the named file, creating it if necessary.
func (m *MockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.WriteFileCalls = append(m.WriteFileCalls, name)
	if err, ok := m.Errors[name]; ok {
		return err
	}
	m.Files[name] = data
	return nil
}

// ReadFile reads the named file and returns the contents.
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	m.ReadFileCalls = append(m.ReadFileCalls, name)
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if content, ok := m.Files[name]; ok {
		return content, nil
	}
	return nil, os.ErrNotExist
}

// mockFileInfo implements os.FileInfo for testing.
type mockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

// Compile-time check that MockFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*MockFileSystem)(nil)
