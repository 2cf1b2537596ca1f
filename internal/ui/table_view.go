package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-natal/internal/chart"
)

// TableModel lists planet and point positions with the aspect list.
type TableModel struct {
	width  int
	height int
	scroll int
	lines  []string
}

// NewTableModel creates an empty table view.
func NewTableModel() TableModel {
	return TableModel{}
}

// SetSize updates the viewport size.
func (m TableModel) SetSize(width, height int) TableModel {
	m.width = width
	m.height = height
	return m
}

// SetPayload rebuilds the table for p and scrolls to the top.
func (m TableModel) SetPayload(p *chart.Payload) TableModel {
	m.scroll = 0
	m.lines = nil
	if p == nil {
		return m
	}
	var b strings.Builder
	chart.WriteTable(&b, chart.BuildTable(p))
	if len(p.Aspects) > 0 {
		b.WriteString("\n")
		chart.WriteAspects(&b, p)
	}
	m.lines = strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	return m
}

func (m TableModel) visibleRows() int {
	if m.height <= 0 {
		return len(m.lines)
	}
	return m.height
}

// Update handles scrolling.
func (m TableModel) Update(msg tea.Msg) (TableModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	maxScroll := len(m.lines) - m.visibleRows()
	if maxScroll < 0 {
		maxScroll = 0
	}
	switch key.String() {
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		if m.scroll < maxScroll {
			m.scroll++
		}
	case "home":
		m.scroll = 0
	case "end":
		m.scroll = maxScroll
	}
	return m, nil
}

// View renders the visible window of the table.
func (m TableModel) View() string {
	if len(m.lines) == 0 {
		return hintStyle.Render("  No positions yet.")
	}
	end := m.scroll + m.visibleRows()
	if end > len(m.lines) {
		end = len(m.lines)
	}

	var b strings.Builder
	for i, line := range m.lines[m.scroll:end] {
		if i > 0 {
			b.WriteString("\n")
		}
		style := rowStyle
		if strings.HasPrefix(line, "Planetary Positions") || strings.HasPrefix(line, "Major Aspects") {
			style = titleStyle
		}
		b.WriteString("  " + style.Render(line))
	}
	return b.String()
}
