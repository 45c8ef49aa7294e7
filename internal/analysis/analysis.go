// Package analysis builds the repository summary and report from an archive's entries.
package analysis

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/Uday9909/ExplainMyRepo/internal/archive"
	"github.com/Uday9909/ExplainMyRepo/internal/stack"
)

// Result is the outcome of one ingestion.
type Result struct {
	ID          string   `json:"id"`
	ProjectName string   `json:"project_name"`
	TechStack   []string `json:"tech_stack"`
	Summary     string   `json:"summary"`
	EntryCount  int      `json:"entry_count"`
	Report      Report   `json:"report"`
}

// Report holds the templated sections shown alongside the summary.
type Report struct {
	Overview    string    `json:"overview"`
	TopLevel    []string  `json:"top_level"`
	KeyFiles    []KeyFile `json:"key_files"`
	Suggestions []string  `json:"suggestions"`
}

// KeyFile is a notable file with a short description.
type KeyFile struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

const (
	archiveExt     = ".zip"
	fallbackName   = "untitled"
	noTechnologies = "no recognized technologies"
	maxKeyFiles    = 10
)

// ProjectName derives a project name from an archive filename by taking its
// base name and stripping one trailing ".zip" (any case). It never returns "".
func ProjectName(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if len(base) >= len(archiveExt) && strings.EqualFold(base[len(base)-len(archiveExt):], archiveExt) {
		base = base[:len(base)-len(archiveExt)]
	}

	switch {
	case base != "":
		return base
	case filename != "":
		return filename
	default:
		return fallbackName
	}
}

// Summarize renders the one-paragraph summary for a stack and entry count.
func Summarize(techStack []string, entryCount int) string {
	techs := noTechnologies
	if len(techStack) > 0 {
		techs = strings.Join(techStack, ", ")
	}

	noun := "entries"
	if entryCount == 1 {
		noun = "entry"
	}

	return fmt.Sprintf("This project uses %s. It contains %d %s.", techs, entryCount, noun)
}

// Build classifies the entries of a and assembles the result for the archive
// named filename.
func Build(filename string, a *archive.Archive) *Result {
	techStack := stack.Detect(a.Paths())
	summary := Summarize(techStack, a.Len())

	return &Result{
		ID:          uuid.NewString(),
		ProjectName: ProjectName(filename),
		TechStack:   techStack,
		Summary:     summary,
		EntryCount:  a.Len(),
		Report:      buildReport(summary, techStack, a.Entries()),
	}
}

func buildReport(summary string, techStack []string, entries []archive.Entry) Report {
	return Report{
		Overview:    summary,
		TopLevel:    topLevel(entries),
		KeyFiles:    keyFiles(entries),
		Suggestions: suggest(techStack, entries),
	}
}

// topLevel returns the distinct first path segments in container order.
func topLevel(entries []archive.Entry) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range entries {
		first, _, nested := strings.Cut(strings.TrimPrefix(e.Path, "/"), "/")
		if first == "" {
			continue
		}
		if nested || e.IsDir {
			first += "/"
		}
		if !seen[first] {
			seen[first] = true
			out = append(out, first)
		}
	}
	return out
}

var manifestNames = map[string]bool{
	"package.json":     true,
	"requirements.txt": true,
	"go.mod":           true,
	"Cargo.toml":       true,
	"pom.xml":          true,
	"Dockerfile":       true,
}

var entryPointStems = []string{"README", "main", "index", "App"}

func isKeyFile(name string) bool {
	if manifestNames[name] {
		return true
	}
	stem := strings.TrimSuffix(name, path.Ext(name))
	for _, s := range entryPointStems {
		if stem == s {
			return true
		}
	}
	return false
}

func keyFiles(entries []archive.Entry) []KeyFile {
	var out []KeyFile
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir || seen[e.Path] || !isKeyFile(path.Base(e.Path)) {
			continue
		}
		seen[e.Path] = true
		out = append(out, KeyFile{Path: e.Path, Description: DescribeFile(e.Path)})
		if len(out) == maxKeyFiles {
			break
		}
	}
	return out
}
