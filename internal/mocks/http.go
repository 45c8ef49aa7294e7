package mocks

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/Uday9909/ExplainMyRepo/internal/ports"
)

// MockHTTPClient implements ports.HTTPClient for testing.
type MockHTTPClient struct {
	mu sync.Mutex

	// Responses maps request URLs to response bodies served with 200
	Responses map[string][]byte
	// StatusCodes maps request URLs to a non-200 status code
	StatusCodes map[string]int
	// Err is returned from every Do call when set
	Err error

	// Requests records every requested URL in order
	Requests []string
}

// NewMockHTTPClient creates a new mock HTTP client. Unknown URLs get 404.
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		Responses:   make(map[string][]byte),
		StatusCodes: make(map[string]int),
	}
}

// Do records the request and returns the configured response.
func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	url := req.URL.String()
	m.Requests = append(m.Requests, url)
	if m.Err != nil {
		return nil, m.Err
	}

	status := http.StatusNotFound
	var body []byte
	if b, ok := m.Responses[url]; ok {
		status = http.StatusOK
		body = b
	}
	if code, ok := m.StatusCodes[url]; ok {
		status = code
	}

	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}, nil
}

// RequestCount returns how many requests were made.
func (m *MockHTTPClient) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// Compile-time check that MockHTTPClient implements ports.HTTPClient.
var _ ports.HTTPClient = (*MockHTTPClient)(nil)
