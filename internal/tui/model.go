package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Uday9909/ExplainMyRepo/internal/ingest"
	"github.com/Uday9909/ExplainMyRepo/internal/ports"
	"github.com/Uday9909/ExplainMyRepo/internal/session"
	"github.com/Uday9909/ExplainMyRepo/internal/tree"
)

// View represents the current view state
type View int

const (
	InputView    View = iota // Path or URL entry
	ResultsView              // Summary sections
	ExplorerView             // File tree
	ViewerView               // Selected file content
)

// Result sections, in display order
const (
	sectionOverview = iota
	sectionStructure
	sectionSuggestions
	numSections
)

var sectionTitles = [numSections]string{"Overview", "Structure", "Suggestions"}

// Model is the main TUI model
type Model struct {
	svc      ports.TUIService
	state    *session.Store
	view     View
	width    int
	height   int
	quitting bool

	// Input view
	input     textinput.Model
	spinner   spinner.Model
	analyzing bool

	// Results view
	sectionOpen   [numSections]bool
	sectionCursor int

	// Explorer view
	root      *tree.Node
	expanded  map[string]bool
	rows      []tree.Row
	cursor    int
	filtering bool
	filter    textinput.Model
	matches   []string

	// Viewer view
	viewport viewport.Model
	content  string
	binary   bool

	// Status message
	statusMsg string
	statusErr bool
}

// Key bindings
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Tab    key.Binding
	Filter key.Binding
	Copy   key.Binding
	Save   key.Binding
	One    key.Binding
	Two    key.Binding
	Three  key.Binding
	Quit   key.Binding
	Abort  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next panel"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Save: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "save"),
	),
	One: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "overview"),
	),
	Two: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "structure"),
	),
	Three: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "suggestions"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	Abort: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// NewModel creates a TUI model that ingests through svc and reads shared
// selection state from state.
func NewModel(svc ports.TUIService, state *session.Store) *Model {
	input := textinput.New()
	input.Placeholder = "path/to/repo.zip or https://github.com/owner/repo"
	input.Prompt = "› "
	input.CharLimit = 2048
	input.Width = 60
	input.Focus()

	filter := textinput.New()
	filter.Placeholder = "fuzzy filter"
	filter.Prompt = "/"

	m := &Model{
		svc:      svc,
		state:    state,
		view:     InputView,
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		filter:   filter,
		expanded: make(map[string]bool),
		viewport: viewport.New(80, 20),
	}
	// Overview and structure start open
	m.sectionOpen[sectionOverview] = true
	m.sectionOpen[sectionStructure] = true
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

type analyzeMsg struct {
	source string
	err    error
}

type contentMsg struct {
	path    string
	content string
	err     error
}

type statusMsg struct {
	msg string
	err bool
}

func (m *Model) analyzeCmd(source string) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.Analyze(context.Background(), source)
		return analyzeMsg{source: source, err: err}
	}
}

func (m *Model) contentCmd(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := m.svc.Content(path)
		return contentMsg{path: path, content: content, err: err}
	}
}

func (m *Model) copyCmd() tea.Cmd {
	content := m.content
	return func() tea.Msg {
		if err := m.svc.Copy(content); err != nil {
			return statusMsg{err: true, msg: fmt.Sprintf("Copy failed: %v", err)}
		}
		return statusMsg{msg: "Content Copied: File content has been copied to clipboard"}
	}
}

func (m *Model) saveCmd() tea.Cmd {
	path, content := m.state.GetSelection(), m.content
	return func() tea.Msg {
		written, err := m.svc.Save(path, content)
		if err != nil {
			return statusMsg{err: true, msg: fmt.Sprintf("Save failed: %v", err)}
		}
		return statusMsg{msg: "Saved to " + written}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.analyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analyzeMsg:
		m.handleAnalyzed(msg)
		return m, nil

	case contentMsg:
		m.handleContent(msg)
		return m, nil

	case statusMsg:
		m.statusMsg = msg.msg
		m.statusErr = msg.err
		return m, nil

	case tea.KeyMsg:
		// Clear status on any key
		m.statusMsg = ""
		m.statusErr = false

		if key.Matches(msg, keys.Abort) {
			m.quitting = true
			return m, tea.Quit
		}

		switch m.view {
		case InputView:
			return m.updateInput(msg)
		case ResultsView:
			return m.updateResults(msg)
		case ExplorerView:
			return m.updateExplorer(msg)
		case ViewerView:
			return m.updateViewer(msg)
		}
	}

	return m, nil
}

func (m *Model) handleAnalyzed(msg analyzeMsg) {
	m.analyzing = false
	if msg.err != nil {
		m.statusMsg = ingest.Describe(msg.err).String()
		m.statusErr = true
		return
	}

	result := m.state.GetAnalysis()
	if result != nil {
		m.statusMsg = ingest.Success(msg.source, result).String()
	}
	m.loadTree()
	m.content = ""
	m.binary = false
	m.sectionCursor = 0
	m.view = ResultsView
}

func (m *Model) handleContent(msg contentMsg) {
	switch {
	case errors.Is(msg.err, session.ErrBinaryContent):
		m.content = ""
		m.binary = true
	case msg.err != nil:
		m.statusMsg = fmt.Sprintf("Cannot open %s: %v", msg.path, msg.err)
		m.statusErr = true
		return
	default:
		m.content = msg.content
		m.binary = false
	}

	m.state.SetSelection(msg.path)
	m.viewport.SetContent(numberLines(m.content))
	m.viewport.GotoTop()
	m.view = ViewerView
}

// loadTree rebuilds the explorer from the published archive.
func (m *Model) loadTree() {
	m.root = tree.Build(m.state.Entries())
	m.expanded = make(map[string]bool)
	// Open a single wrapping directory, as GitHub archives have one
	if len(m.root.Children) == 1 && m.root.Children[0].IsDir {
		m.expanded[m.root.Children[0].Path] = true
	}
	m.cursor = 0
	m.filtering = false
	m.filter.SetValue("")
	m.matches = nil
	m.rows = tree.Flatten(m.root, m.expanded)
}

func (m *Model) hasResult() bool {
	return m.state.GetAnalysis() != nil
}

// nextView returns the panel tab moves to, skipping panels with nothing to show.
func (m *Model) nextView() View {
	v := m.view
	for i := 0; i < 4; i++ {
		v = (v + 1) % 4
		switch v {
		case InputView:
			return v
		case ResultsView, ExplorerView:
			if m.hasResult() {
				return v
			}
		case ViewerView:
			if m.state.GetSelection() != "" {
				return v
			}
		}
	}
	return m.view
}

func (m *Model) switchTo(v View) tea.Cmd {
	m.view = v
	if v == InputView {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Tab):
		return m, m.switchTo(m.nextView())

	case key.Matches(msg, keys.Enter):
		if m.analyzing {
			return m, nil
		}
		source := strings.TrimSpace(m.input.Value())
		if source == "" {
			m.statusMsg = ingest.Describe(ingest.ErrEmptySource).String()
			m.statusErr = true
			return m, nil
		}
		m.analyzing = true
		return m, tea.Batch(m.spinner.Tick, m.analyzeCmd(source))

	case key.Matches(msg, keys.Back):
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) toggleSection(i int) {
	m.sectionOpen[i] = !m.sectionOpen[i]
	m.sectionCursor = i
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Tab):
		return m, m.switchTo(m.nextView())
	case key.Matches(msg, keys.Back):
		return m, m.switchTo(InputView)
	case key.Matches(msg, keys.Up):
		if m.sectionCursor > 0 {
			m.sectionCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.sectionCursor < numSections-1 {
			m.sectionCursor++
		}
	case key.Matches(msg, keys.Enter):
		m.toggleSection(m.sectionCursor)
	case key.Matches(msg, keys.One):
		m.toggleSection(sectionOverview)
	case key.Matches(msg, keys.Two):
		m.toggleSection(sectionStructure)
	case key.Matches(msg, keys.Three):
		m.toggleSection(sectionSuggestions)
	}
	return m, nil
}

// explorerLen is the number of selectable lines in the explorer.
func (m *Model) explorerLen() int {
	if m.filtering {
		return len(m.matches)
	}
	return len(m.rows)
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if n := m.explorerLen(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// openFile loads path; the selection moves once the content arrives.
func (m *Model) openFile(path string) tea.Cmd {
	return m.contentCmd(path)
}

func (m *Model) updateExplorer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.updateFilter(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Tab):
		return m, m.switchTo(m.nextView())
	case key.Matches(msg, keys.Back):
		return m, m.switchTo(ResultsView)
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, keys.Filter):
		m.filtering = true
		m.filter.SetValue("")
		m.matches = tree.Files(m.root)
		m.cursor = 0
		return m, m.filter.Focus()
	case key.Matches(msg, keys.Enter):
		if len(m.rows) == 0 {
			return m, nil
		}
		node := m.rows[m.cursor].Node
		if node.IsDir {
			m.expanded[node.Path] = !m.expanded[node.Path]
			m.rows = tree.Flatten(m.root, m.expanded)
			m.moveCursor(0)
			return m, nil
		}
		return m, m.openFile(node.Path)
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.filtering = false
		m.filter.Blur()
		m.matches = nil
		m.cursor = 0
		return m, nil
	// Letters are typed into the filter, so only the arrows navigate
	case msg.Type == tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case msg.Type == tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, keys.Enter):
		if len(m.matches) == 0 {
			return m, nil
		}
		return m, m.openFile(m.matches[m.cursor])
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.matches = tree.Filter(tree.Files(m.root), m.filter.Value())
	m.moveCursor(0)
	return m, cmd
}

func (m *Model) updateViewer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Tab):
		return m, m.switchTo(m.nextView())
	case key.Matches(msg, keys.Back):
		return m, m.switchTo(ExplorerView)
	case key.Matches(msg, keys.Copy):
		if m.binary {
			return m, nil
		}
		return m, m.copyCmd()
	case key.Matches(msg, keys.Save):
		if m.binary {
			return m, nil
		}
		return m, m.saveCmd()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) resizeViewport() {
	w := m.width - 4
	h := m.height - 10
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

// Run starts the TUI
func Run(svc ports.TUIService, state *session.Store) error {
	p := tea.NewProgram(NewModel(svc, state), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
