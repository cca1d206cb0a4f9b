package compose

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// CharLimit caps inline comments.
const CharLimit = 1000

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

// --- Messages ---

// DoneMsg is sent when composing is complete (success or cancel).
type DoneMsg struct {
	Target  Target
	Content string // Empty if cancelled
	Err     error
}

// Cancelled reports whether the user left without text.
func (d DoneMsg) Cancelled() bool {
	return d.Err == nil && strings.TrimSpace(d.Content) == ""
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// Target says what the composed text is for: a new comment on ItemID, or
// an edit of CommentID when that is set.
type Target struct {
	ItemID    string
	CommentID string
	Subject   string // shown above the text, e.g. "Commenting on Ada's post"
}

// IsEdit reports whether the target is an existing comment.
func (t Target) IsEdit() bool { return t.CommentID != "" }

// Editor prepares an external editor command for a temp file holding
// content. infra/editor.EnvEditor implements it.
type Editor interface {
	Cmd(content, subject string) (*exec.Cmd, string, error)
	ReadContent(path string) (string, error)
}

// --- Model ---

// Model holds the state for the compose view.
type Model struct {
	mode     mode
	target   Target
	editor   Editor
	status   string
	textarea textarea.Model // Only used in inline mode
	initial  string         // Draft or current comment text
}

// NewEditor creates a compose model that opens $EDITOR via tea.Exec.
func NewEditor(ed Editor, target Target, initial string) Model {
	return Model{
		mode:    editorMode,
		target:  target,
		editor:  ed,
		status:  "Opening editor...",
		initial: initial,
	}
}

// NewInline creates a compose model with an inline Bubble Tea textarea.
func NewInline(target Target, initial string) Model {
	ta := textarea.New()
	ta.Placeholder = "Share your thoughts..."
	ta.CharLimit = CharLimit
	ta.SetWidth(72)
	ta.SetHeight(5)
	ta.SetValue(initial)
	ta.Focus()

	return Model{
		mode:     inlineMode,
		target:   target,
		textarea: ta,
		initial:  initial,
	}
}

// Target returns what this composer writes to.
func (m Model) Target() Target { return m.target }

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor()
	case inlineMode:
		return textarea.Blink
	}
	return nil
}

// launchEditor prepares the editor command and uses tea.ExecProcess so Bubble
// Tea leaves raw mode while the editor runs.
func (m *Model) launchEditor() tea.Cmd {
	cmd, tmpPath, err := m.editor.Cmd(m.initial, m.target.Subject)
	if err != nil {
		return done(DoneMsg{Target: m.target, Err: fmt.Errorf("preparing editor: %w", err)})
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	// --- Editor mode messages ---

	case editorFinishedMsg:
		if msg.err != nil {
			return m, done(DoneMsg{Target: m.target, Err: fmt.Errorf("editor: %w", msg.err)})
		}
		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			return m, done(DoneMsg{Target: m.target, Err: err})
		}
		return m, m.finish(content)

	// --- Inline mode messages ---

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}

		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{Target: m.target})
		case "ctrl+d", "ctrl+s":
			return m, m.finish(m.textarea.Value())
		}

		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	if m.mode == inlineMode {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

// finish submits content unless it is blank or an unchanged edit.
func (m Model) finish(content string) tea.Cmd {
	content = strings.TrimSpace(content)
	if content == "" || (m.target.IsEdit() && content == strings.TrimSpace(m.initial)) {
		return done(DoneMsg{Target: m.target})
	}
	return done(DoneMsg{Target: m.target, Content: content})
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
