package ui

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/form"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/state"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansi.ReplaceAllString(s, "") }

type countingProvider struct {
	ephem.Provider
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingProvider) GenerateChart(ctx context.Context, req ephem.ChartRequest) (*chart.Payload, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.Provider.GenerateChart(ctx, req)
}

func newTestModel(t *testing.T, p ephem.Provider) Model {
	t.Helper()
	cfg := state.DefaultConfig()
	cfg.Now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	m := New(context.Background(), state.NewController(p, cfg), nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// runCmd executes cmd and flattens batches.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// press sends a key and feeds every resulting message back in.
func press(m Model, key tea.KeyMsg) Model {
	m, cmd := update(m, key)
	return drain(m, cmd)
}

func drain(m Model, cmd tea.Cmd) Model {
	for _, msg := range runCmd(cmd) {
		var next tea.Cmd
		m, next = update(m, msg)
		m = drain(m, next)
	}
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func fillForm(m Model) Model {
	m = typeText(m, "1990-06-15")
	m = press(m, keyTab)
	m = typeText(m, "14:30")
	m = press(m, keyTab)
	m = typeText(m, "USA")
	m = press(m, keyTab)
	return typeText(m, "New York")
}

func TestTypingEditsFocusedField(t *testing.T) {
	m := fillForm(newTestModel(t, ephem.NewDemoProvider()))

	want := form.Input{Date: "1990-06-15", Time: "14:30", Country: "USA", City: "New York"}
	if m.snapshot.Input != want {
		t.Errorf("input = %+v, want %+v", m.snapshot.Input, want)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.snapshot.Input.City != "New Yor" {
		t.Errorf("city after backspace = %q", m.snapshot.Input.City)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.form.Focused() != form.FieldCountry {
		t.Errorf("focus = %s, want country", m.form.Focused())
	}
}

func TestKeysAppliedBeforeCommandsRun(t *testing.T) {
	m := newTestModel(t, ephem.NewDemoProvider())

	m, c1 := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	m, c2 := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("9")})
	m, c3 := update(m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, c4 := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("8")})
	for _, c := range []tea.Cmd{c1, c2, c3, c4} {
		m = drain(m, c)
	}

	if got := m.snapshot.Input.Date; got != "18" {
		t.Errorf("date = %q, want %q", got, "18")
	}
}

func TestSubmitInvalidShowsErrors(t *testing.T) {
	p := &countingProvider{Provider: ephem.NewDemoProvider()}
	m := newTestModel(t, p)

	m = press(m, keyEnter)
	if p.calls != 0 {
		t.Fatal("provider called for an empty form")
	}
	if len(m.snapshot.Errors) != 4 {
		t.Errorf("errors = %v, want all four fields", m.snapshot.Errors)
	}
	view := plain(m.View())
	for _, want := range []string{"Date is required", "City is required", "Please correct the highlighted fields"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// editing a field clears its error only
	m = typeText(m, "1")
	if _, ok := m.snapshot.Errors[form.FieldDate]; ok {
		t.Error("date error not cleared on edit")
	}
	if _, ok := m.snapshot.Errors[form.FieldTime]; !ok {
		t.Error("time error cleared by editing date")
	}
}

func TestSubmitShowsWheel(t *testing.T) {
	p := &countingProvider{Provider: ephem.NewDemoProvider()}
	m := fillForm(newTestModel(t, p))

	m, cmd := update(m, keyEnter)
	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("enter produced %d messages, want SubmitMsg", len(msgs))
	}
	m, cmd = update(m, msgs[0])
	if cmd == nil {
		t.Fatal("submit produced no request")
	}

	if m.snapshot.CanSubmit() {
		t.Error("submit still enabled while loading")
	}
	if !strings.Contains(plain(m.View()), "Generating chart…") {
		t.Error("disabled button not shown while loading")
	}
	if _, again := update(m, keyEnter); again != nil {
		t.Error("enter while loading started another request")
	}

	for _, msg := range runCmd(cmd) {
		m, _ = update(m, msg)
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}
	if m.viewMode != ViewWheel {
		t.Fatalf("view = %d, want wheel", m.viewMode)
	}
	view := plain(m.View())
	for _, want := range []string{"Sun: Aries 15.8°", "Sun conjunction Mercury (orb 5.25°)", "Chart ready for New York, USA"} {
		if !strings.Contains(view, want) {
			t.Errorf("wheel view missing %q", want)
		}
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	if m.viewMode != ViewTable || !strings.Contains(plain(m.View()), "Planetary Positions") {
		t.Error("positions table not shown")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.viewMode != ViewForm || m.shown != nil || m.snapshot.State.Status != state.StatusIdle {
		t.Errorf("new chart did not reset: view %d, status %v", m.viewMode, m.snapshot.State.Status)
	}
	if m.snapshot.Input.City != "New York" {
		t.Error("new chart cleared the form")
	}
}

func TestSubmitErrorReturnsToForm(t *testing.T) {
	p := &countingProvider{
		Provider: ephem.NewDemoProvider(),
		err:      &ephem.ServiceError{StatusCode: 400, Detail: "City not found"},
	}
	m := fillForm(newTestModel(t, p))
	m = press(m, keyEnter)

	if m.snapshot.State.Status != state.StatusError {
		t.Fatalf("status = %v, want error", m.snapshot.State.Status)
	}
	if m.viewMode != ViewForm || !strings.Contains(plain(m.View()), "Error: City not found") {
		t.Error("service error not shown on the form")
	}
	if !m.snapshot.CanSubmit() {
		t.Error("cannot resubmit after an error")
	}
}

func TestClearForm(t *testing.T) {
	m := fillForm(newTestModel(t, ephem.NewDemoProvider()))
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.snapshot.Input != (form.Input{}) {
		t.Errorf("input after clear = %+v", m.snapshot.Input)
	}
}

func TestColorizeKeepsText(t *testing.T) {
	l := chart.Build(&chart.Payload{
		Planets: []chart.Body{{Name: "Sun", Sign: "Aries", Degree: 15}},
		Houses:  []chart.HouseCusp{{Number: 1, Sign: "Aries"}},
	})
	c := render.ASCII(l, 50, 25, render.ASCIIOptions{})

	got := strings.Split(plain(colorize(c)), "\n")
	want := strings.Split(c.String(), "\n")
	if len(got) != len(want) {
		t.Fatalf("lines = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if strings.TrimRight(got[i], " ") != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWheelWithoutChart(t *testing.T) {
	if !strings.Contains(plain(NewWheelModel().View()), "No chart yet") {
		t.Error("empty wheel placeholder missing")
	}
}

func TestTableScroll(t *testing.T) {
	p, err := ephem.NewDemoProvider().GenerateChart(context.Background(), ephem.ChartRequest{})
	if err != nil {
		t.Fatal(err)
	}
	m := NewTableModel().SetSize(80, 5).SetPayload(p)
	down := tea.KeyMsg{Type: tea.KeyDown}
	for i := 0; i < 100; i++ {
		m, _ = m.Update(down)
	}
	if want := len(m.lines) - 5; m.scroll != want {
		t.Errorf("scroll = %d, want %d", m.scroll, want)
	}
	if got := strings.Count(m.View(), "\n") + 1; got != 5 {
		t.Errorf("visible lines = %d, want 5", got)
	}

	m = m.SetPayload(nil)
	if !strings.Contains(plain(m.View()), "No positions yet") {
		t.Error("empty table placeholder missing")
	}
}

func TestGradientColor(t *testing.T) {
	if got := gradientColor(0, 10); got != "#3B82F6" {
		t.Errorf("start = %s", got)
	}
	if got := gradientColor(9, 10); got != "#EC4899" {
		t.Errorf("end = %s", got)
	}
}
