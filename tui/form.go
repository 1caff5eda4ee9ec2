package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is the single-line input new thoughts are typed into.
type form struct {
	input textinput.Model
}

func newForm() form {
	ti := textinput.New()
	ti.Placeholder = "What's on your mind?"
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.Focus()
	return form{input: ti}
}

// submit returns the typed text and clears the buffer. Blank input is
// rejected and left in place.
func (f *form) submit() (string, bool) {
	text := f.input.Value()
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	f.input.Reset()
	return text, true
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *form) focus() tea.Cmd {
	f.input.PromptStyle = promptStyle
	return f.input.Focus()
}

func (f *form) blur() {
	f.input.PromptStyle = blurredPromptStyle
	f.input.Blur()
}

func (f form) view() string {
	return f.input.View()
}
