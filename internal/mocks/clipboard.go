package mocks

import "github.com/Uday9909/ExplainMyRepo/internal/ports"

// MockClipboard implements ports.Clipboard for testing.
type MockClipboard struct {
	// Text holds the last value written
	Text string
	// Err is returned from WriteAll when set
	Err error

	WriteCalls int
}

// NewMockClipboard creates a new mock clipboard.
func NewMockClipboard() *MockClipboard {
	return &MockClipboard{}
}

// WriteAll stores text unless an error is configured.
func (m *MockClipboard) WriteAll(text string) error {
	m.WriteCalls++
	if m.Err != nil {
		return m.Err
	}
	m.Text = text
	return nil
}

// Compile-time check that MockClipboard implements ports.Clipboard.
var _ ports.Clipboard = (*MockClipboard)(nil)
