package ports

import "net/http"

// HTTPClient abstracts outbound HTTP for testability.
// Production code uses *http.Client; tests use MockHTTPClient or httptest.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
