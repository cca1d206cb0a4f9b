// Package form is a single-line field editor for item payloads and the
// user's profile.
package form

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skillfeed/domain"
)

// CharLimit caps each field.
const CharLimit = 500

// Field is one labelled input.
type Field struct {
	Name        string
	Label       string
	Value       string
	Placeholder string
	Required    bool
	Options     []string // allowed values; empty means free text
}

// Target says what the form edits: a new or existing item of Kind, or the
// signed-in user's profile.
type Target struct {
	Kind     domain.Kind
	ItemID   string // empty for a new item
	Template string // progress template, once chosen
	Profile  bool
	Title    string // shown in the header, e.g. "New Plan"
}

// IsEdit reports whether the target is an existing item.
func (t Target) IsEdit() bool { return t.ItemID != "" }

// DoneMsg is sent when the form is submitted or abandoned.
type DoneMsg struct {
	Target    Target
	Values    map[string]string // trimmed, keyed by Field.Name
	Cancelled bool
}

// Model holds the inputs and which one has focus.
type Model struct {
	target Target
	fields []Field
	inputs []textinput.Model
	focus  int
	err    string
}

// New builds a form with the first field focused.
func New(target Target, fields []Field) Model {
	m := Model{target: target, fields: fields, inputs: make([]textinput.Model, len(fields))}
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = "> "
		in.CharLimit = CharLimit
		in.Placeholder = f.Placeholder
		if in.Placeholder == "" && len(f.Options) > 0 {
			in.Placeholder = strings.Join(f.Options, " | ")
		}
		in.SetValue(f.Value)
		m.inputs[i] = in
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

// Target returns what this form writes to.
func (m Model) Target() Target { return m.target }

// Focused is the name of the field with focus.
func (m Model) Focused() string {
	if len(m.fields) == 0 {
		return ""
	}
	return m.fields[m.focus].Name
}

// Err is the validation message shown under the fields.
func (m Model) Err() string { return m.err }

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update moves focus between fields and submits on enter in the last field
// or ctrl+s anywhere.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return m, done(DoneMsg{Target: m.target, Cancelled: true})
		case "tab", "down":
			return m.moveFocus(m.focus + 1)
		case "shift+tab", "up":
			return m.moveFocus(m.focus - 1)
		case "enter":
			if m.focus < len(m.inputs)-1 {
				return m.moveFocus(m.focus + 1)
			}
			return m.submit()
		case "ctrl+s", "ctrl+d":
			return m.submit()
		}
	}
	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) moveFocus(i int) (Model, tea.Cmd) {
	n := len(m.inputs)
	if n == 0 {
		return m, nil
	}
	inputs := slices.Clone(m.inputs)
	inputs[m.focus].Blur()
	m.focus = ((i % n) + n) % n
	cmd := inputs[m.focus].Focus()
	m.inputs = inputs
	return m, cmd
}

// submit checks required fields and allowed values, focusing the first
// offending field.
func (m Model) submit() (Model, tea.Cmd) {
	values := make(map[string]string, len(m.fields))
	for i, f := range m.fields {
		v := strings.TrimSpace(m.inputs[i].Value())
		switch {
		case f.Required && v == "":
			m.err = f.Label + " is required"
		case v != "" && len(f.Options) > 0 && !slices.Contains(f.Options, v):
			m.err = f.Label + " must be one of " + strings.Join(f.Options, ", ")
		default:
			values[f.Name] = v
			continue
		}
		return m.moveFocus(i)
	}
	m.err = ""
	return m, done(DoneMsg{Target: m.target, Values: values})
}

func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
