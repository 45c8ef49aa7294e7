// Package session holds the selection state shared by the presentation panels.
package session

import (
	"bytes"
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/Uday9909/ExplainMyRepo/internal/analysis"
	"github.com/Uday9909/ExplainMyRepo/internal/archive"
)

var (
	// ErrNoArchive is returned by Content before any ingestion has completed.
	ErrNoArchive = errors.New("no archive loaded")
	// ErrBinaryContent is returned by Content for entries that are not text.
	ErrBinaryContent = errors.New("binary content")
)

// Store is the shared state for one session. The zero value is not usable;
// create one with New and pass it to every panel that needs it.
type Store struct {
	mu         sync.RWMutex
	selection  string
	analysis   *analysis.Result
	archive    *archive.Archive
	contents   map[string]string
	inProgress bool
}

// New creates an empty store.
func New() *Store {
	return &Store{contents: make(map[string]string)}
}

// GetSelection returns the selected entry path, "" when nothing is selected.
func (s *Store) GetSelection() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// SetSelection selects an entry path.
func (s *Store) SetSelection(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = path
}

// GetAnalysis returns the latest published result, nil before the first one.
func (s *Store) GetAnalysis() *analysis.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

// SetAnalysis replaces the current result without touching the archive.
func (s *Store) SetAnalysis(r *analysis.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = r
}

// GetInProgress reports whether an ingestion is running.
func (s *Store) GetInProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inProgress
}

// SetInProgress sets the in-progress flag unconditionally.
func (s *Store) SetInProgress(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = v
}

// TryBegin sets the in-progress flag if it is clear and reports whether it did.
// Callers that get true must call End.
func (s *Store) TryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inProgress {
		return false
	}
	s.inProgress = true
	return true
}

// End clears the in-progress flag.
func (s *Store) End() {
	s.SetInProgress(false)
}

// Publish installs a new result and the archive backing its file contents.
// The selection and content cache are reset.
func (s *Store) Publish(r *analysis.Result, a *archive.Archive) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = r
	s.archive = a
	s.selection = ""
	s.contents = make(map[string]string)
}

// Archive returns the current archive, nil before the first ingestion.
func (s *Store) Archive() *archive.Archive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.archive
}

// Entries returns the entries of the current archive, nil before the first ingestion.
func (s *Store) Entries() []archive.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.archive == nil {
		return nil
	}
	return s.archive.Entries()
}

// Content returns the text content of an entry in the current archive.
// Decoded content is cached until the next Publish.
func (s *Store) Content(path string) (string, error) {
	s.mu.RLock()
	a := s.archive
	content, ok := s.contents[path]
	s.mu.RUnlock()

	if ok {
		return content, nil
	}
	if a == nil {
		return "", ErrNoArchive
	}

	data, err := a.ReadFile(path)
	if err != nil {
		return "", err
	}
	if isBinary(data) {
		return "", ErrBinaryContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A Publish may have raced in; only cache against the archive we read.
	if s.archive == a {
		s.contents[path] = string(data)
	}
	return string(data), nil
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data)
}
