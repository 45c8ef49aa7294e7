// Package ingest turns uploaded or downloaded archives into published analysis results.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Uday9909/ExplainMyRepo/internal/adapters/osfs"
	"github.com/Uday9909/ExplainMyRepo/internal/analysis"
	"github.com/Uday9909/ExplainMyRepo/internal/archive"
	"github.com/Uday9909/ExplainMyRepo/internal/fetch"
	"github.com/Uday9909/ExplainMyRepo/internal/logging"
	"github.com/Uday9909/ExplainMyRepo/internal/ports"
	"github.com/Uday9909/ExplainMyRepo/internal/session"
)

var (
	// ErrInvalidFileType is returned for uploads whose name does not end in .zip.
	ErrInvalidFileType = errors.New("please upload a .zip file")
	// ErrInProgress is returned when an ingestion starts while another is running.
	ErrInProgress = errors.New("an analysis is already in progress")
	// ErrEmptySource is returned by Analyze for blank input.
	ErrEmptySource = errors.New("no archive path or repository URL given")
)

// Fetcher downloads a repository archive.
type Fetcher interface {
	Fetch(ctx context.Context, repo fetch.Repo) ([]byte, error)
}

// Service coordinates archive decoding, classification and publishing.
type Service struct {
	state        *session.Store
	fs           ports.FileSystem
	fetcher      Fetcher
	log          *logrus.Logger
	maxEntrySize int64
}

// Option configures a Service.
type Option func(*Service)

// WithFileSystem sets the filesystem used by UploadFile.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(s *Service) { s.fs = fs }
}

// WithFetcher sets the downloader used by FetchURL.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxEntrySize caps the decompressed size of a single archive entry.
func WithMaxEntrySize(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxEntrySize = n
		}
	}
}

// New creates a Service publishing into state.
func New(state *session.Store, opts ...Option) *Service {
	s := &Service{
		state:        state,
		fs:           osfs.New(),
		fetcher:      fetch.NewClient(nil),
		log:          logging.Discard(),
		maxEntrySize: archive.DefaultMaxEntrySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateFileName accepts only names ending in .zip, in any case.
func ValidateFileName(name string) error {
	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, name)
	}
	return nil
}

// IsURL reports whether source should be fetched rather than read from disk.
func IsURL(source string) bool {
	s := strings.TrimSpace(source)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.Contains(s, "github.com/")
}

// Analyze ingests source, a GitHub URL or a local .zip path.
func (s *Service) Analyze(ctx context.Context, source string) (*analysis.Result, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}
	if IsURL(source) {
		return s.FetchURL(ctx, source)
	}
	return s.UploadFile(strings.TrimSpace(source))
}

// UploadFile reads a local archive and ingests it.
func (s *Service) UploadFile(path string) (*analysis.Result, error) {
	if err := ValidateFileName(path); err != nil {
		return nil, err
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFileType, path)
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.Upload(path, data)
}

// Upload ingests archive bytes received under name.
func (s *Service) Upload(name string, data []byte) (*analysis.Result, error) {
	if err := ValidateFileName(name); err != nil {
		return nil, err
	}
	if !s.state.TryBegin() {
		return nil, ErrInProgress
	}
	defer s.state.End()

	return s.ingest(name, data)
}

// FetchURL downloads a public GitHub repository and ingests it.
func (s *Service) FetchURL(ctx context.Context, rawURL string) (*analysis.Result, error) {
	repo, err := fetch.ParseRepoURL(rawURL)
	if err != nil {
		return nil, err
	}
	if !s.state.TryBegin() {
		return nil, ErrInProgress
	}
	defer s.state.End()

	data, err := s.fetcher.Fetch(ctx, repo)
	if err != nil {
		s.log.WithError(err).WithField("repo", repo.String()).Warn("fetch failed")
		return nil, err
	}
	return s.ingest(repo.ArchiveName(), data)
}

// ingest runs decode, classify and publish. The caller holds the guard.
func (s *Service) ingest(name string, data []byte) (*analysis.Result, error) {
	id := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{"ingestion_id": id, "source": name})

	a, err := archive.Open(data, archive.WithMaxEntrySize(s.maxEntrySize))
	if err != nil {
		log.WithError(err).Warn("archive rejected")
		return nil, err
	}

	result := analysis.Build(name, a)
	s.state.Publish(result, a)

	log.WithFields(logrus.Fields{
		"project": result.ProjectName,
		"entries": result.EntryCount,
		"stack":   strings.Join(result.TechStack, ","),
	}).Info("analysis published")
	return result, nil
}
