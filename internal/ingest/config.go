package ingest

import (
	"github.com/sirupsen/logrus"

	"github.com/Uday9909/ExplainMyRepo/internal/adapters/osfs"
	"github.com/Uday9909/ExplainMyRepo/internal/config"
	"github.com/Uday9909/ExplainMyRepo/internal/fetch"
	"github.com/Uday9909/ExplainMyRepo/internal/ports"
	"github.com/Uday9909/ExplainMyRepo/internal/session"
)

// NewFromConfig creates a Service wired to the real filesystem and a fetch
// client configured from cfg. A nil httpClient uses http.DefaultClient.
func NewFromConfig(cfg *config.Config, state *session.Store, httpClient ports.HTTPClient, log *logrus.Logger) (*Service, error) {
	timeout, err := cfg.FetchTimeout()
	if err != nil {
		return nil, err
	}

	opts := []fetch.Option{
		fetch.WithBaseURL(cfg.Fetch.BaseURL),
		fetch.WithBranches(cfg.Fetch.Branches),
		fetch.WithTimeout(timeout),
		fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
	}
	if log != nil {
		opts = append(opts, fetch.WithLogger(log))
	}
	client := fetch.NewClient(httpClient, opts...)

	return New(state,
		WithFileSystem(osfs.New()),
		WithFetcher(client),
		WithLogger(log),
		WithMaxEntrySize(cfg.Archive.MaxEntryBytes),
	), nil
}
