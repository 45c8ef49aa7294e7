// Package fetch downloads public GitHub repositories as zip archives.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Uday9909/ExplainMyRepo/internal/logging"
	"github.com/Uday9909/ExplainMyRepo/internal/ports"
)

var (
	// ErrInvalidRepoURL is returned when a URL does not name github.com/<owner>/<repo>.
	ErrInvalidRepoURL = errors.New("invalid repository URL")
	// ErrRemoteFetchFailed is returned for transport errors and non-success responses.
	ErrRemoteFetchFailed = errors.New("remote fetch failed")
)

const (
	// DefaultBaseURL is where archive downloads are served from.
	DefaultBaseURL = "https://github.com"
	// DefaultTimeout bounds a whole Fetch call, every branch attempt included.
	DefaultTimeout = 60 * time.Second
	// DefaultMaxBytes caps the size of a downloaded archive (200MB).
	DefaultMaxBytes = 200 * 1024 * 1024
)

// DefaultBranches are tried in order when no branches are configured.
var DefaultBranches = []string{"main"}

var repoPattern = regexp.MustCompile(`github\.com/([^/\s?#]+)/([^/\s?#]+)`)

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

// ParseRepoURL extracts owner and repository name from a GitHub URL. The
// scheme is optional; a trailing ".git" and anything after the repo segment
// are ignored.
func ParseRepoURL(raw string) (Repo, error) {
	m := repoPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Repo{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, raw)
	}

	repo := Repo{Owner: m[1], Name: strings.TrimSuffix(m[2], ".git")}
	if repo.Name == "" {
		return Repo{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, raw)
	}
	return repo, nil
}

// String returns owner/name.
func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ArchiveURL returns the download URL of branch's zip archive.
func (r Repo) ArchiveURL(baseURL, branch string) string {
	return fmt.Sprintf("%s/%s/%s/archive/refs/heads/%s.zip",
		strings.TrimSuffix(baseURL, "/"), r.Owner, r.Name, branch)
}

// ArchiveName is the filename the downloaded archive is analyzed under.
func (r Repo) ArchiveName() string {
	return r.Name + ".zip"
}

// Client downloads repository archives.
type Client struct {
	http     ports.HTTPClient
	baseURL  string
	branches []string
	timeout  time.Duration
	maxBytes int64
	log      logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithBranches sets the branches tried in order. A 404 moves on to the next.
func WithBranches(branches []string) Option {
	return func(c *Client) {
		if len(branches) > 0 {
			c.branches = branches
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBytes overrides DefaultMaxBytes.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithLogger sets the logger used for download progress.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a Client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient ports.HTTPClient, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		http:     httpClient,
		baseURL:  DefaultBaseURL,
		branches: DefaultBranches,
		timeout:  DefaultTimeout,
		maxBytes: DefaultMaxBytes,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errNotFound marks a branch that does not exist.
var errNotFound = errors.New("not found")

// Fetch downloads the archive of the first configured branch that exists.
func (c *Client) Fetch(ctx context.Context, repo Repo) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	for _, branch := range c.branches {
		url := repo.ArchiveURL(c.baseURL, branch)
		log := c.log.WithFields(logrus.Fields{"repo": repo.String(), "branch": branch})
		log.Debug("downloading archive")

		data, err := c.get(ctx, url)
		if errors.Is(err, errNotFound) {
			log.Debug("branch not found")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRemoteFetchFailed, repo, err)
		}

		log.WithField("bytes", len(data)).Info("downloaded archive")
		return data, nil
	}

	return nil, fmt.Errorf("%w: %s: no archive for branches %s",
		ErrRemoteFetchFailed, repo, strings.Join(c.branches, ", "))
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	// Read one byte past the limit to detect oversize bodies
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("archive exceeds %d bytes", c.maxBytes)
	}
	return data, nil
}
