package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/klauspost/compress/zip"

	"github.com/Uday9909/ExplainMyRepo/internal/analysis"
	"github.com/Uday9909/ExplainMyRepo/internal/archive"
	"github.com/Uday9909/ExplainMyRepo/internal/ingest"
	"github.com/Uday9909/ExplainMyRepo/internal/mocks"
	"github.com/Uday9909/ExplainMyRepo/internal/session"
	"github.com/Uday9909/ExplainMyRepo/internal/tree"
)

var demoFiles = map[string]string{
	"demo/README.md":   "# Demo\n",
	"demo/src/main.py": "print('hi')\nprint('bye')\n",
	"demo/logo.png":    "\x89PNG\x00\x00",
}

func openZip(t *testing.T, files map[string]string) *archive.Archive {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Create(%s) failed: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Write(%s) failed: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	a, err := archive.Open(buf.Bytes())
	if err != nil {
		t.Fatalf("archive.Open failed: %v", err)
	}
	return a
}

// newTestModel returns a model whose service publishes the demo archive on Analyze.
func newTestModel(t *testing.T) (*Model, *mocks.MockTUIService, *session.Store) {
	t.Helper()

	state := session.New()
	a := openZip(t, demoFiles)
	svc := mocks.NewMockTUIService()
	svc.OnAnalyze = func(source string) {
		state.Publish(analysis.Build(source, a), a)
	}
	svc.Contents["demo/README.md"] = demoFiles["demo/README.md"]
	svc.Contents["demo/src/main.py"] = demoFiles["demo/src/main.py"]
	svc.ContentErrors["demo/logo.png"] = session.ErrBinaryContent

	return NewModel(svc, state), svc, state
}

func press(t *testing.T, m *Model, msg tea.KeyMsg) (*Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(*Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// analyze submits source and delivers the analysis result synchronously.
func analyze(t *testing.T, m *Model, source string) *Model {
	t.Helper()
	m.input.SetValue(source)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should start analysis")
	}
	if !m.analyzing {
		t.Error("analyzing should be set while the command runs")
	}
	updated, _ := m.Update(m.analyzeCmd(source)())
	return updated.(*Model)
}

// open expands the parents of path, moves the explorer cursor to it and
// delivers its content.
func open(t *testing.T, m *Model, path string) *Model {
	t.Helper()
	for dir := path; strings.Contains(dir, "/"); {
		dir = dir[:strings.LastIndex(dir, "/")]
		m.expanded[dir] = true
	}
	m.rows = tree.Flatten(m.root, m.expanded)
	for i, row := range m.rows {
		if row.Node.Path == path {
			m.cursor = i
		}
	}
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter on %s should load content", path)
	}
	updated, _ := m.Update(cmd())
	return updated.(*Model)
}

func TestNewModel(t *testing.T) {
	m, _, _ := newTestModel(t)

	if m.view != InputView {
		t.Errorf("view = %v, expected InputView", m.view)
	}
	if !m.input.Focused() {
		t.Error("input should be focused")
	}
	if !m.sectionOpen[sectionOverview] || !m.sectionOpen[sectionStructure] {
		t.Error("overview and structure should start open")
	}
	if m.sectionOpen[sectionSuggestions] {
		t.Error("suggestions should start closed")
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	m, svc, _ := newTestModel(t)

	m = analyze(t, m, "demo.zip")

	if svc.AnalyzeCount() != 1 {
		t.Errorf("analyze calls = %d, expected 1", svc.AnalyzeCount())
	}
	if m.analyzing {
		t.Error("analyzing should be cleared")
	}
	if m.view != ResultsView {
		t.Errorf("view = %v, expected ResultsView", m.view)
	}
	if m.statusErr {
		t.Errorf("status should not be an error: %s", m.statusMsg)
	}
	if !strings.Contains(m.statusMsg, "Analysis Complete!") {
		t.Errorf("status = %q, expected success notice", m.statusMsg)
	}

	// The single wrapping directory is opened
	if len(m.rows) != 4 {
		t.Fatalf("rows = %d, expected 4", len(m.rows))
	}
	if m.rows[0].Node.Path != "demo" || m.rows[1].Node.Path != "demo/src" {
		t.Errorf("rows start with %s, %s", m.rows[0].Node.Path, m.rows[1].Node.Path)
	}

	view := m.View()
	if !strings.Contains(view, "demo") {
		t.Error("results should show the project name")
	}
	if !strings.Contains(view, "Python") {
		t.Error("results should show the detected stack")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		err    error
		title  string
	}{
		{"invalid file type", "notes.txt", ingest.ErrInvalidFileType, "Invalid File Type"},
		{"malformed archive", "broken.zip", archive.ErrMalformedArchive, "Error"},
		{"busy", "demo.zip", ingest.ErrInProgress, "Busy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svc, _ := newTestModel(t)
			svc.AnalyzeErrors[tt.source] = tt.err

			m = analyze(t, m, tt.source)

			if m.view != InputView {
				t.Errorf("view = %v, expected InputView", m.view)
			}
			if !m.statusErr {
				t.Error("status should be an error")
			}
			if !strings.HasPrefix(m.statusMsg, tt.title+":") {
				t.Errorf("status = %q, expected title %q", m.statusMsg, tt.title)
			}
		})
	}
}

func TestEmptySubmit(t *testing.T) {
	m, svc, _ := newTestModel(t)
	m.input.SetValue("   ")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("empty submit should not start analysis")
	}
	if svc.AnalyzeCount() != 0 {
		t.Errorf("analyze calls = %d, expected 0", svc.AnalyzeCount())
	}
	if !strings.HasPrefix(m.statusMsg, "Empty URL") {
		t.Errorf("status = %q, expected empty notice", m.statusMsg)
	}
}

func TestEnterIgnoredWhileAnalyzing(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.input.SetValue("demo.zip")
	m.analyzing = true

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter should be ignored while analyzing")
	}
}

func TestQuitKeyTypesInInput(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, runes("q"))
	if m.quitting {
		t.Error("q should be typed into the input, not quit")
	}
	if m.input.Value() != "q" {
		t.Errorf("input = %q, expected %q", m.input.Value(), "q")
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting || cmd == nil {
		t.Error("ctrl+c should quit")
	}
}

func TestTabSkipsEmptyPanels(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != InputView {
		t.Errorf("view = %v, expected InputView before any analysis", m.view)
	}

	m = analyze(t, m, "demo.zip")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != ExplorerView {
		t.Errorf("view = %v, expected ExplorerView", m.view)
	}
	// Nothing selected yet, so the viewer is skipped
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != InputView {
		t.Errorf("view = %v, expected InputView", m.view)
	}
	if !m.input.Focused() {
		t.Error("input should regain focus")
	}
}

func TestResultSections(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = analyze(t, m, "demo.zip")

	m, _ = press(t, m, runes("3"))
	if !m.sectionOpen[sectionSuggestions] {
		t.Error("3 should open suggestions")
	}
	m, _ = press(t, m, runes("1"))
	if m.sectionOpen[sectionOverview] {
		t.Error("1 should close overview")
	}
	if m.sectionCursor != sectionOverview {
		t.Errorf("section cursor = %d, expected %d", m.sectionCursor, sectionOverview)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.sectionOpen[sectionStructure] {
		t.Error("enter should toggle the section under the cursor")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != InputView {
		t.Errorf("view = %v, expected InputView", m.view)
	}
}

func TestExplorerNavigation(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = analyze(t, m, "demo.zip")
	m.view = ExplorerView

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, expected 1", m.cursor)
	}
	for i := 0; i < 10; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != len(m.rows)-1 {
		t.Errorf("cursor = %d, expected %d (at boundary)", m.cursor, len(m.rows)-1)
	}

	// Collapse the wrapping directory
	m.cursor = 0
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("toggling a directory should not return a command")
	}
	if len(m.rows) != 1 {
		t.Errorf("rows = %d, expected 1 after collapse", len(m.rows))
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.rows) != 4 {
		t.Errorf("rows = %d, expected 4 after expand", len(m.rows))
	}
}

func TestOpenFile(t *testing.T) {
	m, svc, state := newTestModel(t)
	m = analyze(t, m, "demo.zip")
	m.view = ExplorerView

	m = open(t, m, "demo/src/main.py")

	if state.GetSelection() != "demo/src/main.py" {
		t.Errorf("selection = %q, expected demo/src/main.py", state.GetSelection())
	}
	if m.view != ViewerView {
		t.Fatalf("view = %v, expected ViewerView", m.view)
	}
	if m.content != demoFiles["demo/src/main.py"] {
		t.Errorf("content = %q", m.content)
	}
	if len(svc.ContentCalls) != 1 {
		t.Errorf("content calls = %d, expected 1", len(svc.ContentCalls))
	}

	view := m.View()
	if !strings.Contains(view, "python") {
		t.Error("viewer should show the language badge")
	}
	if !strings.Contains(view, "print('bye')") {
		t.Error("viewer should show the file content")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != ExplorerView {
		t.Errorf("view = %v, expected ExplorerView", m.view)
	}
}

func TestOpenBinaryFile(t *testing.T) {
	m, svc, _ := newTestModel(t)
	m = analyze(t, m, "demo.zip")
	m.view = ExplorerView

	m = open(t, m, "demo/logo.png")

	if m.view != ViewerView || !m.binary {
		t.Fatalf("view = %v binary = %v, expected binary viewer", m.view, m.binary)
	}
	if !strings.Contains(m.View(), "Binary file") {
		t.Error("viewer should show the binary placeholder")
	}

	_, cmd := press(t, m, runes("c"))
	if cmd != nil {
		t.Error("copy should be disabled for binary files")
	}
	if len(svc.Copied) != 0 {
		t.Errorf("copied = %d, expected 0", len(svc.Copied))
	}
}

func TestOpenFileError(t *testing.T) {
	m, svc, _ := newTestModel(t)
	m = analyze(t, m, "demo.zip")
	m.view = ExplorerView
	svc.ContentErrors["demo/README.md"] = errors.New("read failed")

	m = open(t, m, "demo/README.md")

	if m.view != ExplorerView {
		t.Errorf("view = %v, expected ExplorerView", m.view)
	}
	if !m.statusErr || !strings.Contains(m.statusMsg, "read failed") {
		t.Errorf("status = %q, expected read error", m.statusMsg)
	}
}

func TestOpenFileErrorKeepsSelection(t *testing.T) {
	m, svc, state := newTestModel(t)
	m = analyze(t, m, "demo.zip")
	m.view = ExplorerView
	m = open(t, m, "demo/README.md")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	svc.ContentErrors["demo/src/main.py"] = errors.New("read failed")
	m = open(t, m, "demo/src/main.py")

	if state.GetSelection() != "demo/README.md" {
		t.Errorf("selection = %q, expected demo/README.md", state.GetSelection())
	}
	if m.view != ExplorerView {
		t.Errorf("view = %v, expected ExplorerView", m.view)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != ViewerView {
		t.Fatalf("view = %v, expected ViewerView", m.view)
	}
	m, cmd := press(t, m, runes("w"))
	if cmd == nil {
		t.Fatal("w should return a save command")
	}
	m.Update(cmd())

	if _, ok := svc.Saved["demo/src/main.py"]; ok {
		t.Error("content should not be saved under the failed path")
	}
	if svc.Saved["demo/README.md"] != "# Demo\n" {
		t.Errorf("saved = %v, expected README content under its own path", svc.Saved)
	}
}

func TestCopyAndSave(t *testing.T) {
	m, svc, _ := newTestModel(t)
	m = analyze(t, m, "demo.zip")
	m.view = ExplorerView
	m = open(t, m, "demo/README.md")

	m, cmd := press(t, m, runes("c"))
	if cmd == nil {
		t.Fatal("c should return a copy command")
	}
	updated, _ := m.Update(cmd())
	m = updated.(*Model)
	if len(svc.Copied) != 1 || svc.Copied[0] != "# Demo\n" {
		t.Errorf("copied = %v, expected README content", svc.Copied)
	}
	if m.statusMsg != "Content Copied: File content has been copied to clipboard" {
		t.Errorf("status = %q", m.statusMsg)
	}

	m, cmd = press(t, m, runes("w"))
	if cmd == nil {
		t.Fatal("w should return a save command")
	}
	updated, _ = m.Update(cmd())
	m = updated.(*Model)
	if svc.Saved["demo/README.md"] != "# Demo\n" {
		t.Errorf("saved = %v", svc.Saved)
	}
	if m.statusMsg != "Saved to /saved/demo/README.md" {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestCopyFailure(t *testing.T) {
	m, svc, _ := newTestModel(t)
	m = analyze(t, m, "demo.zip")
	m.view = ExplorerView
	m = open(t, m, "demo/README.md")
	svc.CopyErr = errors.New("no clipboard")

	m, cmd := press(t, m, runes("c"))
	updated, _ := m.Update(cmd())
	m = updated.(*Model)

	if !m.statusErr || !strings.Contains(m.statusMsg, "no clipboard") {
		t.Errorf("status = %q, expected copy failure", m.statusMsg)
	}
}

func TestFilter(t *testing.T) {
	m, _, state := newTestModel(t)
	m = analyze(t, m, "demo.zip")
	m.view = ExplorerView

	m, _ = press(t, m, runes("/"))
	if !m.filtering {
		t.Fatal("/ should enter filter mode")
	}
	if len(m.matches) != 3 {
		t.Errorf("matches = %d, expected all 3 files", len(m.matches))
	}

	m, _ = press(t, m, runes("main.py"))
	if len(m.matches) != 1 || m.matches[0] != "demo/src/main.py" {
		t.Fatalf("matches = %v, expected [demo/src/main.py]", m.matches)
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should open the match")
	}
	updated, _ := m.Update(cmd())
	m = updated.(*Model)
	if state.GetSelection() != "demo/src/main.py" {
		t.Errorf("selection = %q", state.GetSelection())
	}

	m.view = ExplorerView
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.filtering {
		t.Error("esc should leave filter mode")
	}
	if m.view != ExplorerView {
		t.Errorf("view = %v, expected ExplorerView", m.view)
	}
}

func TestWindowResize(t *testing.T) {
	m, _, _ := newTestModel(t)

	m2, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	m = m2.(*Model)

	if m.width != 100 || m.height != 50 {
		t.Errorf("size = %dx%d, expected 100x50", m.width, m.height)
	}
	if m.viewport.Width != 96 || m.viewport.Height != 40 {
		t.Errorf("viewport = %dx%d, expected 96x40", m.viewport.Width, m.viewport.Height)
	}
}

func TestNumberLines(t *testing.T) {
	got := numberLines("a\nb\n")
	if !strings.Contains(got, "1 ") || !strings.Contains(got, "2 ") {
		t.Errorf("numberLines = %q, expected line numbers", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("numberLines should not end with a newline")
	}
	if numberLines("") != "" {
		t.Error("numberLines of empty content should be empty")
	}
}

func TestWithTeatest(t *testing.T) {
	m, _, _ := newTestModel(t)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 40))

	tm.Type("demo.zip")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Analysis Complete!"))
	}, teatest.WithDuration(3*time.Second))

	// Results view: q quits
	tm.Send(runes("q"))

	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
}
