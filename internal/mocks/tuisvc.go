package mocks

import (
	"context"
	"os"
	"sync"

	"github.com/Uday9909/ExplainMyRepo/internal/ports"
)

// MockTUIService implements ports.TUIService for testing.
type MockTUIService struct {
	mu sync.Mutex

	// AnalyzeErrors maps sources to the error Analyze returns
	AnalyzeErrors map[string]error
	// OnAnalyze runs on successful Analyze calls, e.g. to publish a result
	OnAnalyze func(source string)

	// Contents maps entry paths to content returned by Content
	Contents map[string]string
	// ContentErrors maps entry paths to errors returned by Content
	ContentErrors map[string]error

	// CopyErr is returned from Copy when set
	CopyErr error
	// SaveErr is returned from Save when set
	SaveErr error

	// Call tracking
	AnalyzeCalls []string
	ContentCalls []string
	Copied       []string
	Saved        map[string]string
}

// NewMockTUIService creates a new mock TUI service.
func NewMockTUIService() *MockTUIService {
	return &MockTUIService{
		AnalyzeErrors: make(map[string]error),
		Contents:      make(map[string]string),
		ContentErrors: make(map[string]error),
		Saved:         make(map[string]string),
	}
}

// Analyze records the source and returns the configured error.
func (m *MockTUIService) Analyze(ctx context.Context, source string) error {
	m.mu.Lock()
	m.AnalyzeCalls = append(m.AnalyzeCalls, source)
	err := m.AnalyzeErrors[source]
	hook := m.OnAnalyze
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if hook != nil {
		hook(source)
	}
	return nil
}

// Content returns the configured content for path.
func (m *MockTUIService) Content(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ContentCalls = append(m.ContentCalls, path)
	if err, ok := m.ContentErrors[path]; ok {
		return "", err
	}
	if content, ok := m.Contents[path]; ok {
		return content, nil
	}
	return "", os.ErrNotExist
}

// Copy records text unless CopyErr is set.
func (m *MockTUIService) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CopyErr != nil {
		return m.CopyErr
	}
	m.Copied = append(m.Copied, text)
	return nil
}

// Save records content under /saved/<path>.
func (m *MockTUIService) Save(path, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	m.Saved[path] = content
	return "/saved/" + path, nil
}

// AnalyzeCount returns how many times Analyze was called.
func (m *MockTUIService) AnalyzeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.AnalyzeCalls)
}

// Compile-time check that MockTUIService implements ports.TUIService.
var _ ports.TUIService = (*MockTUIService)(nil)
