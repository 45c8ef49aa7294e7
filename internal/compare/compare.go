// Package compare reports the differences between two repository archives.
package compare

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Uday9909/ExplainMyRepo/internal/archive"
)

// FileChange represents a change between two archives
type FileChange struct {
	Path   string
	Status rune // 'M' modified, 'A' added, 'D' deleted
	Size1  int64
	Size2  int64
}

// DiffResult contains the comparison between two archives
type DiffResult struct {
	Name1    string
	Name2    string
	Changes  []FileChange
	Added    int
	Modified int
	Deleted  int
}

var statusOrder = map[rune]int{'M': 0, 'A': 1, 'D': 2}

// ComputeDiff compares the files of two archives. Paths are matched with the
// shared root directory removed, so <repo>-main/ and <repo>-dev/ line up.
func ComputeDiff(a, b *archive.Archive, name1, name2 string) *DiffResult {
	files1 := listFiles(a)
	files2 := listFiles(b)

	result := &DiffResult{Name1: name1, Name2: name2}

	allPaths := make(map[string]bool)
	for p := range files1 {
		allPaths[p] = true
	}
	for p := range files2 {
		allPaths[p] = true
	}

	for p := range allPaths {
		info1, in1 := files1[p]
		info2, in2 := files2[p]

		change := FileChange{Path: p}
		switch {
		case in1 && !in2:
			change.Status = 'D'
			change.Size1 = info1.Size
			result.Deleted++
		case !in1 && in2:
			change.Status = 'A'
			change.Size2 = info2.Size
			result.Added++
		case info1.CRC32 != info2.CRC32 || info1.Size != info2.Size:
			change.Status = 'M'
			change.Size1 = info1.Size
			change.Size2 = info2.Size
			result.Modified++
		default:
			continue
		}
		result.Changes = append(result.Changes, change)
	}

	// M, A, D then by path
	sort.Slice(result.Changes, func(i, j int) bool {
		ci, cj := result.Changes[i], result.Changes[j]
		if ci.Status != cj.Status {
			return statusOrder[ci.Status] < statusOrder[cj.Status]
		}
		return ci.Path < cj.Path
	})

	return result
}

// Root returns the directory prefix shared by every entry of a, including the
// trailing slash, or "" when entries sit at different top levels.
func Root(a *archive.Archive) string {
	root := ""
	for _, e := range a.Entries() {
		i := strings.Index(e.Path, "/")
		if i < 0 {
			return ""
		}
		first := e.Path[:i+1]
		if root == "" {
			root = first
		} else if first != root {
			return ""
		}
	}
	return root
}

func listFiles(a *archive.Archive) map[string]archive.Entry {
	root := Root(a)
	files := make(map[string]archive.Entry)
	for _, e := range a.Entries() {
		if e.IsDir {
			continue
		}
		files[strings.TrimPrefix(e.Path, root)] = e
	}
	return files
}

// DiffLine represents a single line in the diff output
type DiffLine struct {
	LineNum1 int    // Line number in the first archive (0 if added)
	LineNum2 int    // Line number in the second archive (0 if deleted)
	Type     rune   // '+' added, '-' deleted, ' ' unchanged
	Content  string // Line content
}

// FileDiffResult contains the line-by-line diff of a single file
type FileDiffResult struct {
	Path     string
	Lines    []DiffLine
	IsBinary bool
	Error    string
}

// ReadFile returns the content of path, given relative to the archive root.
func ReadFile(a *archive.Archive, path string) (string, error) {
	data, err := a.ReadFile(Root(a) + path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsBinaryContent checks if content appears to be binary
func IsBinaryContent(content string) bool {
	if len(content) == 0 {
		return false
	}
	// Check first 8000 bytes for null bytes or invalid UTF-8
	sample := content
	if len(sample) > 8000 {
		sample = sample[:8000]
	}
	if strings.Contains(sample, "\x00") {
		return true
	}
	return !utf8.ValidString(sample)
}

// ComputeFileDiff computes the line diff of one changed file. Read failures
// are reported in the result's Error field.
func ComputeFileDiff(a, b *archive.Archive, path string, status rune) *FileDiffResult {
	result := &FileDiffResult{Path: path}

	var content1, content2 string
	var err error

	switch status {
	case 'A':
		content2, err = ReadFile(b, path)
		if err != nil {
			result.Error = fmt.Sprintf("Error reading file: %v", err)
			return result
		}
	case 'D':
		content1, err = ReadFile(a, path)
		if err != nil {
			result.Error = fmt.Sprintf("Error reading file: %v", err)
			return result
		}
	default:
		content1, err = ReadFile(a, path)
		if err != nil {
			result.Error = fmt.Sprintf("Error reading first archive: %v", err)
			return result
		}
		content2, err = ReadFile(b, path)
		if err != nil {
			result.Error = fmt.Sprintf("Error reading second archive: %v", err)
			return result
		}
	}

	if IsBinaryContent(content1) || IsBinaryContent(content2) {
		result.IsBinary = true
		return result
	}

	result.Lines = LineDiff(content1, content2)
	return result
}

// LineDiff diffs two texts line by line. A missing final newline is ignored.
func LineDiff(content1, content2 string) []DiffLine {
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(terminate(content1), terminate(content2))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	var lines []DiffLine
	n1, n2 := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				n1++
				n2++
				lines = append(lines, DiffLine{LineNum1: n1, LineNum2: n2, Type: ' ', Content: text})
			case diffmatchpatch.DiffDelete:
				n1++
				lines = append(lines, DiffLine{LineNum1: n1, Type: '-', Content: text})
			case diffmatchpatch.DiffInsert:
				n2++
				lines = append(lines, DiffLine{LineNum2: n2, Type: '+', Content: text})
			}
		}
	}
	return lines
}

func terminate(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
