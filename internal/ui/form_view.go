package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/form"
	"github.com/litescript/ls-natal/internal/state"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(10)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("60")).
			Width(28)

	focusedInputStyle = inputStyle.
				BorderForeground(lipgloss.Color("#9D4EDD"))

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84A27"))

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7B2CBF")).
			Padding(0, 2)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
)

var fieldLabels = map[form.Field]string{
	form.FieldDate:    "Date",
	form.FieldTime:    "Time",
	form.FieldCountry: "Country",
	form.FieldCity:    "City",
}

var fieldHints = map[form.Field]string{
	form.FieldDate: "YYYY-MM-DD",
	form.FieldTime: "HH:MM",
}

// SubmitMsg requests a chart for the current form.
type SubmitMsg struct{}

// FormModel is the birth details entry view.
type FormModel struct {
	width    int
	height   int
	focus    int
	snapshot state.Snapshot
	messages form.Messages
}

// NewFormModel creates a form focused on the date field.
func NewFormModel(messages form.Messages) FormModel {
	if messages == nil {
		messages = form.DefaultMessages
	}
	return FormModel{messages: messages}
}

// SetSize updates the viewport size.
func (m FormModel) SetSize(width, height int) FormModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData replaces the controller snapshot shown by the form.
func (m FormModel) UpdateData(snapshot state.Snapshot) FormModel {
	m.snapshot = snapshot
	return m
}

// Focused returns the field receiving keystrokes.
func (m FormModel) Focused() form.Field {
	return form.Fields[m.focus]
}

// Update handles navigation and submit. Value edits go through Edit so the
// root model can apply them to the controller before the next key.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(form.Fields)
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + len(form.Fields) - 1) % len(form.Fields)
	case tea.KeyEnter:
		if m.snapshot.CanSubmit() {
			return m, func() tea.Msg { return SubmitMsg{} }
		}
	}
	return m, nil
}

// Edit returns the focused field's value after key is applied to value.
// ok is false when key does not edit text.
func (m FormModel) Edit(key tea.KeyMsg, value string) (string, bool) {
	switch key.Type {
	case tea.KeyBackspace:
		r := []rune(value)
		if len(r) == 0 {
			return value, false
		}
		return string(r[:len(r)-1]), true
	case tea.KeyCtrlU:
		return "", true
	case tea.KeySpace:
		return value + " ", true
	case tea.KeyRunes:
		return value + string(key.Runes), true
	}
	return value, false
}

// View renders the form with inline errors and the submit button.
func (m FormModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("  Birth Details"))
	b.WriteString("\n\n")

	for i, f := range form.Fields {
		style := inputStyle
		cursor := ""
		if i == m.focus {
			style = focusedInputStyle
			cursor = "▏"
		}
		value := m.snapshot.Input.Get(f)
		shown := value + cursor
		if value == "" && fieldHints[f] != "" {
			shown = hintStyle.Render(fieldHints[f]) + cursor
		}

		b.WriteString("  ")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Bottom, labelStyle.Render(fieldLabels[f]), style.Render(shown)))
		b.WriteString("\n")
		if e, ok := m.snapshot.Errors[f]; ok {
			b.WriteString("  " + fieldErrorStyle.Render(fmt.Sprintf("%s %s", fieldLabels[f], m.messages.Text(e.Code))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n  ")
	if m.snapshot.CanSubmit() {
		b.WriteString(buttonStyle.Render("Generate Chart"))
	} else {
		b.WriteString(disabledButtonStyle.Render("Generating chart…"))
	}
	b.WriteString("\n")

	if st := m.snapshot.State; st.Status == state.StatusError {
		b.WriteString("\n  " + errorStyle.Render("Error: "+st.Message) + "\n")
	}

	return b.String()
}
