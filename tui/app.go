package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jackwu/passingthoughts/model"
	"github.com/jackwu/passingthoughts/store"
)

const title = "Passing Thoughts"

type focus int

const (
	focusForm focus = iota
	focusList
)

// SweepMsg asks the model to drop every thought expired at Now.
type SweepMsg struct {
	Now time.Time
}

// Model is the root UI. now holds the last sweep time and drives the
// remaining-lifetime hint; offset is the scroll offset.
type Model struct {
	store    *store.Store
	form     form
	focus    focus
	cursor   int
	offset   int
	width    int
	height   int
	now      time.Time
	log      zerolog.Logger
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for UI events.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Model) { m.log = log }
}

// WithNow sets the reference time used before the first sweep.
func WithNow(now time.Time) Option {
	return func(m *Model) { m.now = now }
}

func NewModel(s *store.Store, opts ...Option) Model {
	m := Model{
		store:  s,
		form:   newForm(),
		width:  80,
		height: 24,
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case SweepMsg:
		m.now = msg.Now
		if expired := m.store.Sweep(msg.Now); len(expired) > 0 {
			m.log.Debug().Int("expired", len(expired)).Msg("thoughts expired")
			m.clampCursor()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case focusForm:
			return m.updateForm(msg)
		case focusList:
			return m.updateList(msg)
		}
	}

	if m.focus == focusForm {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		if m.store.Len() > 0 {
			m.form.blur()
			m.focus = focusList
		}
		return m, nil

	case "enter":
		text, ok := m.form.submit()
		if !ok {
			return m, nil
		}
		if t, added := m.store.Add(text); added {
			m.log.Info().Str("id", t.ID).Msg("thought submitted")
		}
		m.cursor = 0
		m.clampOffset()
		return m, nil
	}

	return m, m.form.update(msg)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.focus = focusForm
		return m, m.form.focus()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}

	case "down", "j":
		if m.cursor < m.store.Len()-1 {
			m.cursor++
			m.clampOffset()
		}

	case "d", "x", "delete", "backspace":
		return m.removeSelected()
	}

	return m, nil
}

func (m Model) removeSelected() (tea.Model, tea.Cmd) {
	thoughts := m.store.List()
	if m.cursor >= len(thoughts) {
		return m, nil
	}
	id := thoughts[m.cursor].ID
	if m.store.Remove(id) {
		m.log.Info().Str("id", id).Msg("thought removed")
	}
	m.clampCursor()
	if m.store.Len() == 0 {
		m.focus = focusForm
		return m, m.form.focus()
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	thoughts := m.store.List()
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d thoughts", len(thoughts))))
	b.WriteString("\n\n")

	b.WriteString(" " + m.form.view() + "\n\n")

	visible := m.visibleRows()
	end := m.offset + visible
	if end > len(thoughts) {
		end = len(thoughts)
	}

	if len(thoughts) == 0 {
		b.WriteString(dimStyle.Render("  Nothing on your mind.") + "\n")
		visible--
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(thoughts[i], m.focus == focusList && i == m.cursor) + "\n")
	}

	// pad remaining rows
	for i := end - m.offset; i < visible; i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderRow(t model.Thought, selected bool) string {
	left := m.remaining(t)
	remain := fmt.Sprintf("%3ds", left)

	// text gets what is left after the removal control and the timer
	textWidth := m.width - 12
	if textWidth < 10 {
		textWidth = 10
	}
	text := pad(t.Text, textWidth)

	if selected {
		row := selectedStyle.Render("✕ " + text + " " + remain)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, row)
	}

	if left <= 3 {
		remain = fadingStyle.Render(remain)
	} else {
		remain = dimStyle.Render(remain)
	}
	return normalStyle.Render(removeStyle.Render("✕") + " " + text + " " + remain)
}

func (m Model) renderHelp() string {
	if m.focus == focusList {
		return helpStyle.Render("  d: remove  ↑↓: move  Tab: write  q: quit")
	}
	return helpStyle.Render("  Enter: add  Tab: select  Esc: quit")
}

// remaining returns whole seconds left for t, rounded up.
func (m Model) remaining(t model.Thought) int {
	return int(math.Ceil(t.Remaining(m.now).Seconds()))
}

func (m Model) visibleRows() int {
	// title, blank, form, blank, help
	rows := m.height - 5
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) clampCursor() {
	if m.cursor >= m.store.Len() {
		m.cursor = max(0, m.store.Len()-1)
	}
	m.clampOffset()
}

func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if n := m.store.Len(); m.offset > 0 && m.offset+visible > n {
		m.offset = max(0, n-visible)
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Thoughts returns the thoughts currently shown, newest first.
func (m Model) Thoughts() []model.Thought {
	return m.store.List()
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-2]) + ".."
	}
	return s + strings.Repeat(" ", width-len(runes))
}
