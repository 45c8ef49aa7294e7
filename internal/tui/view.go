package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Uday9909/ExplainMyRepo/internal/analysis"
	"github.com/Uday9909/ExplainMyRepo/internal/stack"
	"github.com/Uday9909/ExplainMyRepo/internal/tree"
)

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.view {
	case InputView:
		content = m.renderInput()
	case ResultsView:
		content = m.renderResults()
	case ExplorerView:
		content = m.renderExplorer()
	case ViewerView:
		content = m.renderViewer()
	}

	return appStyle.Render(content)
}

func (m *Model) renderStatus(b *strings.Builder) {
	if m.statusMsg == "" {
		return
	}
	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(errorBadge.Render("✗ " + m.statusMsg))
	} else {
		b.WriteString(successBadge.Render("✓ " + m.statusMsg))
	}
	b.WriteString("\n")
}

func (m *Model) renderInput() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ExplainMyRepo"))
	b.WriteString("\n\n")
	b.WriteString("Upload a .zip of your project or paste a GitHub URL.\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.analyzing {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(dimStyle.Render(" Analyzing..."))
		b.WriteString("\n")
	}

	m.renderStatus(&b)

	help := "[enter] analyze  [esc] clear  [ctrl+c] quit"
	if m.hasResult() {
		help = "[enter] analyze  [tab] results  [esc] clear  [ctrl+c] quit"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func renderBadges(techStack []string) string {
	if len(techStack) == 0 {
		return dimStyle.Render("(none detected)")
	}
	badges := make([]string, len(techStack))
	for i, t := range techStack {
		badges[i] = techBadge.Render(t)
	}
	return strings.Join(badges, " ")
}

func (m *Model) renderSection(b *strings.Builder, i int, body func(b *strings.Builder)) {
	marker := "▸"
	if m.sectionOpen[i] {
		marker = "▾"
	}
	header := fmt.Sprintf("%s %d. %s", marker, i+1, sectionTitles[i])
	if i == m.sectionCursor {
		b.WriteString(selectedStyle.Render("> " + header))
	} else {
		b.WriteString("  " + sectionStyle.Render(header))
	}
	b.WriteString("\n")
	if m.sectionOpen[i] {
		body(b)
	}
	b.WriteString("\n")
}

func (m *Model) renderResults() string {
	var b strings.Builder

	r := m.state.GetAnalysis()
	if r == nil {
		return dimStyle.Render("Nothing analyzed yet.")
	}

	b.WriteString(titleStyle.Render(r.ProjectName))
	b.WriteString("\n\n")
	b.WriteString(renderBadges(r.TechStack))
	b.WriteString("\n\n")
	b.WriteString(normalStyle.Render(r.Summary))
	b.WriteString("\n\n")

	m.renderSection(&b, sectionOverview, func(b *strings.Builder) {
		b.WriteString("    " + r.Report.Overview + "\n")
	})
	m.renderSection(&b, sectionStructure, func(b *strings.Builder) {
		renderStructure(b, r)
	})
	m.renderSection(&b, sectionSuggestions, func(b *strings.Builder) {
		if len(r.Report.Suggestions) == 0 {
			b.WriteString(dimStyle.Render("    No suggestions.") + "\n")
		}
		for _, s := range r.Report.Suggestions {
			b.WriteString("    • " + s + "\n")
		}
	})

	m.renderStatus(&b)
	b.WriteString(helpStyle.Render("[1/2/3] toggle  [↑/↓] move  [enter] toggle  [tab] files  [esc] back  [q] quit"))
	return b.String()
}

func renderStructure(b *strings.Builder, r *analysis.Result) {
	if len(r.Report.TopLevel) > 0 {
		b.WriteString(dimStyle.Render("    Top level: "))
		b.WriteString(strings.Join(r.Report.TopLevel, ", "))
		b.WriteString("\n")
	}
	for _, kf := range r.Report.KeyFiles {
		b.WriteString("    " + dirStyle.Render(kf.Path) + "\n")
		b.WriteString(dimStyle.Render("      "+kf.Description) + "\n")
	}
}

// maxExplorerRows caps the rows drawn when the window size is unknown.
const maxExplorerRows = 30

// window returns the [start, end) slice of n lines to draw so the cursor stays visible.
func (m *Model) window(n int) (int, int) {
	height := maxExplorerRows
	if m.height > 0 {
		height = m.height - 10
		if height < 5 {
			height = 5
		}
	}
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := start + height
	if end > n {
		end = n
	}
	return start, end
}

func (m *Model) renderExplorer() string {
	var b strings.Builder

	title := "Files"
	if r := m.state.GetAnalysis(); r != nil {
		title = r.ProjectName + " / files"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if m.filtering {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(m.matches) == 0 {
			b.WriteString(dimStyle.Render("No matching files."))
			b.WriteString("\n")
		}
		start, end := m.window(len(m.matches))
		for i := start; i < end; i++ {
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + m.matches[i]))
			} else {
				b.WriteString("  " + normalStyle.Render(m.matches[i]))
			}
			b.WriteString("\n")
		}
		m.renderStatus(&b)
		b.WriteString(helpStyle.Render("[↑/↓] navigate  [enter] open  [esc] cancel filter"))
		return b.String()
	}

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("The archive is empty."))
		b.WriteString("\n")
	}
	start, end := m.window(len(m.rows))
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.cursor))
		b.WriteString("\n")
	}

	m.renderStatus(&b)
	b.WriteString(helpStyle.Render("[↑/↓] navigate  [enter] open  [/] filter  [tab] next  [esc] back  [q] quit"))
	return b.String()
}

func (m *Model) renderRow(row tree.Row, selected bool) string {
	indent := strings.Repeat("  ", row.Depth)
	n := row.Node

	var label string
	if n.IsDir {
		marker := "▸ "
		if m.expanded[n.Path] {
			marker = "▾ "
		}
		label = indent + marker + dirStyle.Render(n.Name+"/")
	} else {
		label = indent + "  " + n.Name + " " + dimStyle.Render(tree.FormatSize(n.Size))
	}

	if selected {
		return selectedStyle.Render("> ") + label
	}
	return "  " + label
}

func (m *Model) renderViewer() string {
	var b strings.Builder

	path := m.state.GetSelection()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(path), " ", langBadge.Render(stack.FileLanguage(path))))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(analysis.DescribeFile(path)))
	b.WriteString("\n\n")

	if m.binary {
		b.WriteString(dimStyle.Render("Binary file, preview not available."))
		b.WriteString("\n")
		m.renderStatus(&b)
		b.WriteString(helpStyle.Render("[esc] back  [tab] next  [q] quit"))
		return b.String()
	}

	b.WriteString(viewerStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)))
	b.WriteString("\n")

	m.renderStatus(&b)
	b.WriteString(helpStyle.Render("[↑/↓] scroll  [c] copy  [w] save  [esc] back  [tab] next  [q] quit"))
	return b.String()
}

// numberLines prefixes each line with its line number.
func numberLines(content string) string {
	if content == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	width := len(fmt.Sprint(len(lines)))
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%*d ", width, i+1)))
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
