package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/render"
)

var classStyles = map[render.Class]lipgloss.Style{
	render.ClassRing:   lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
	render.ClassSign:   lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6")).Bold(true),
	render.ClassCusp:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	render.ClassHouse:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	render.ClassPlanet: lipgloss.NewStyle().Foreground(lipgloss.Color("#F4C430")).Bold(true),
	render.ClassCenter: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
}

var legendTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

// WheelModel shows the chart wheel with its legend.
type WheelModel struct {
	width      int
	height     int
	layout     *chart.Layout
	signGlyphs bool
}

// NewWheelModel creates an empty wheel view.
func NewWheelModel() WheelModel {
	return WheelModel{}
}

// SetSize updates the viewport size.
func (m WheelModel) SetSize(width, height int) WheelModel {
	m.width = width
	m.height = height
	return m
}

// SetLayout replaces the chart shown. nil clears it.
func (m WheelModel) SetLayout(l *chart.Layout) WheelModel {
	m.layout = l
	return m
}

// Update handles wheel-specific keys.
func (m WheelModel) Update(msg tea.Msg) (WheelModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "g" {
		m.signGlyphs = !m.signGlyphs
	}
	return m, nil
}

// wheelSize picks a canvas that leaves room for the legend.
func (m WheelModel) wheelSize() (int, int) {
	h := m.height - 2
	if h > 31 {
		h = 31
	}
	if h < 9 {
		h = 9
	}
	w := 2*h + 1
	if limit := m.width - 44; limit > 0 && w > limit {
		w = limit
	}
	return w, h
}

// View renders the wheel beside its legend.
func (m WheelModel) View() string {
	if m.layout == nil {
		return hintStyle.Render("  No chart yet. Fill in the birth details and press enter.")
	}

	w, h := m.wheelSize()
	canvas := render.ASCII(m.layout, w, h, render.ASCIIOptions{SignGlyphs: m.signGlyphs})
	wheel := colorize(canvas)

	return lipgloss.JoinHorizontal(lipgloss.Top, "  "+strings.ReplaceAll(wheel, "\n", "\n  "), "   ", m.renderLegend())
}

func (m WheelModel) renderLegend() string {
	var b strings.Builder
	b.WriteString(legendTitleStyle.Render("Planets"))
	b.WriteString("\n")
	for _, e := range m.layout.PlanetLegend {
		b.WriteString(classStyles[render.ClassPlanet].Render(e.Glyph) + " " + rowStyle.Render(e.Text) + "\n")
	}
	if len(m.layout.AspectLegend) > 0 {
		b.WriteString("\n")
		b.WriteString(legendTitleStyle.Render("Aspects"))
		b.WriteString("\n")
		for _, e := range m.layout.AspectLegend {
			b.WriteString(rowStyle.Render(e.Text) + "\n")
		}
	}
	return b.String()
}

// colorize styles runs of same-class cells.
func colorize(c *render.Canvas) string {
	lines := make([]string, c.Height)
	for y := 0; y < c.Height; y++ {
		var b strings.Builder
		row := c.Cells[y]
		classes := c.Classes[y]
		start := 0
		for x := 1; x <= c.Width; x++ {
			if x < c.Width && classes[x] == classes[start] {
				continue
			}
			run := string(row[start:x])
			if st, ok := classStyles[classes[start]]; ok {
				b.WriteString(st.Render(run))
			} else {
				b.WriteString(run)
			}
			start = x
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
