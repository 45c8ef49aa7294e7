// Package tuisvc provides the real implementation of ports.TUIService.
package tuisvc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Uday9909/ExplainMyRepo/internal/ingest"
	"github.com/Uday9909/ExplainMyRepo/internal/ports"
	"github.com/Uday9909/ExplainMyRepo/internal/session"
)

// Service implements ports.TUIService on top of an ingest.Service.
type Service struct {
	ingest    *ingest.Service
	state     *session.Store
	clipboard ports.Clipboard
	fs        ports.FileSystem
	outputDir string
}

// New creates a new TUI service. Saved files go under outputDir.
func New(svc *ingest.Service, state *session.Store, clip ports.Clipboard, fs ports.FileSystem, outputDir string) *Service {
	return &Service{
		ingest:    svc,
		state:     state,
		clipboard: clip,
		fs:        fs,
		outputDir: outputDir,
	}
}

// Analyze ingests a local .zip path or a GitHub URL.
func (s *Service) Analyze(ctx context.Context, source string) error {
	_, err := s.ingest.Analyze(ctx, source)
	return err
}

// Content returns the decoded content of an entry in the current archive.
func (s *Service) Content(path string) (string, error) {
	return s.state.Content(path)
}

// Copy places text on the clipboard.
func (s *Service) Copy(text string) error {
	return s.clipboard.WriteAll(text)
}

// Save writes content to outputDir/<project>/<path> and returns the path written.
func (s *Service) Save(path, content string) (string, error) {
	project := "untitled"
	if r := s.state.GetAnalysis(); r != nil && r.ProjectName != "" {
		project = r.ProjectName
	}

	rel := filepath.FromSlash(strings.TrimLeft(path, "/"))
	target := filepath.Join(s.outputDir, project, rel)
	// Entry paths come from the archive; keep them inside outputDir
	if !strings.HasPrefix(target, filepath.Clean(s.outputDir)+string(filepath.Separator)) {
		return "", fmt.Errorf("refusing to save outside %s: %s", s.outputDir, path)
	}

	if err := s.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", err
	}
	if err := s.fs.WriteFile(target, []byte(content), 0644); err != nil {
		return "", err
	}
	return target, nil
}

// Compile-time check that Service implements ports.TUIService.
var _ ports.TUIService = (*Service)(nil)
