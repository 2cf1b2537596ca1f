// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/form"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewForm ViewMode = iota
	ViewWheel
	ViewTable
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84A27"))

	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
)

// Msg types for Bubble Tea
type (
	// AnimTickMsg drives the loading spinner.
	AnimTickMsg time.Time

	// chartResultMsg carries the settled state of one submission.
	chartResultMsg struct {
		state state.RequestState
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	ctrl *state.Controller

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	// Sub-models
	form  FormModel
	wheel WheelModel
	table TableModel

	snapshot state.Snapshot
	shown    *chart.Payload
}

// New creates the root model. ctx bounds chart requests started from the UI.
func New(ctx context.Context, ctrl *state.Controller, messages form.Messages) Model {
	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		viewMode: ViewForm,
		form:     NewFormModel(messages),
		wheel:    NewWheelModel(),
		table:    NewTableModel(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return animTickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.viewMode == ViewForm {
			cmds = append(cmds, m.updateFormKeys(msg))
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "1", "e":
			m.viewMode = ViewForm
		case "2", "w":
			m.viewMode = ViewWheel
		case "3", "t":
			m.viewMode = ViewTable
		case "tab":
			m.viewMode = (m.viewMode + 1) % 3
		case "n":
			// new chart: drop the current one and any late result
			m.ctrl.Reset()
			m.refresh()
			m.show(nil)
			m.statusMsg = ""
			m.viewMode = ViewForm
		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// header 4 lines, footer 2
		contentHeight := msg.Height - 6
		m.form = m.form.SetSize(msg.Width, contentHeight)
		m.wheel = m.wheel.SetSize(msg.Width, contentHeight)
		m.table = m.table.SetSize(msg.Width, contentHeight)

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case SubmitMsg:
		cmds = append(cmds, m.submit())

	case chartResultMsg:
		m.refresh()
		switch msg.state.Status {
		case state.StatusSuccess:
			m.show(msg.state.Data)
			m.statusMsg = fmt.Sprintf("Chart ready for %s, %s", m.snapshot.Request.City, m.snapshot.Request.Country)
			m.viewMode = ViewWheel
		case state.StatusError:
			m.statusMsg = ""
			m.viewMode = ViewForm
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFormKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		if m.shown != nil {
			m.viewMode = ViewWheel
		}
		return nil
	case tea.KeyCtrlR:
		m.ctrl.Clear()
		m.refresh()
		m.show(nil)
		m.statusMsg = ""
		return nil
	}

	// edits land in the controller before the next key is read
	field := m.form.Focused()
	if v, ok := m.form.Edit(msg, m.ctrl.Snapshot().Input.Get(field)); ok {
		m.ctrl.SetField(field, v)
		m.refresh()
		return nil
	}
	return m.updateActiveView(msg)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewWheel:
		m.wheel, cmd = m.wheel.Update(msg)
	case ViewTable:
		m.table, cmd = m.table.Update(msg)
	}
	return cmd
}

// submit starts a request for the current form. Invalid input only
// refreshes the inline errors.
func (m *Model) submit() tea.Cmd {
	t, err := m.ctrl.Begin()
	m.refresh()
	if err != nil {
		if errors.Is(err, state.ErrInvalidInput) {
			m.statusMsg = "Please correct the highlighted fields"
		}
		return nil
	}
	m.statusMsg = ""

	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return chartResultMsg{state: ctrl.Execute(ctx, t)}
	}
}

// refresh pulls a fresh controller snapshot into the sub-models.
func (m *Model) refresh() {
	m.snapshot = m.ctrl.Snapshot()
	m.form = m.form.UpdateData(m.snapshot)
}

func (m *Model) show(p *chart.Payload) {
	m.shown = p
	m.wheel = m.wheel.SetLayout(chart.Build(p))
	m.table = m.table.SetPayload(p)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewForm:
		content = m.form.View()
	case ViewWheel:
		content = m.wheel.View()
	case ViewTable:
		content = m.table.View()
	}

	return m.renderHeader() + "\n" + content + "\n\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("\n  ")

	title := []rune("☉ ls-natal")
	for col, r := range title {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, len(title)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Natal Chart · v%s", version.Version)))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color along a blue -> purple -> pink sweep.
func gradientColor(col, width int) string {
	if width <= 1 {
		return "#8B5CF6"
	}
	x := float64(col) / float64(width-1)

	var r, g, b float64
	if x < 0.5 {
		t := x / 0.5
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else {
		t := (x - 0.5) / 0.5
		r = 139 + t*(236-139)
		g = 92 + t*(72-92)
		b = 246 + t*(153-246)
	}
	return fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(b))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Details", "[2] Wheel", "[3] Positions"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	var status string
	switch m.snapshot.State.Status {
	case state.StatusLoading:
		spinner := spinnerFrames[m.animTick%len(spinnerFrames)]
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Generating chart...")
	default:
		if m.statusMsg != "" {
			status = dimStyle.Render(m.statusMsg)
		}
	}

	var help string
	switch m.viewMode {
	case ViewForm:
		help = "tab/↑↓: field | enter: generate | ctrl+r: clear | esc: wheel"
	case ViewWheel:
		help = "g: sign glyphs | n: new chart | tab: switch view | q: quit"
	case ViewTable:
		help = "↑↓: scroll | n: new chart | tab: switch view | q: quit"
	}

	footer := "  " + dimStyle.Render(help)
	if status != "" {
		footer = "  " + status + "\n" + footer
	}
	return footer
}

// renderShimmerText renders text with a soft highlight sweeping across it.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	pos := m.animTick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		hexColor := "#504678"
		switch {
		case dist <= 1:
			hexColor = "#B4A0DC"
		case dist <= 3:
			hexColor = "#8C78B4"
		case dist <= 5:
			hexColor = "#6E5A96"
		}
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor)).Render(string(r)))
	}
	return result.String()
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
