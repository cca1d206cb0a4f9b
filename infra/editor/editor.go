// Package editor composes longer text (comments, post descriptions) in the
// user's $EDITOR.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvEditor prepares an external editor command from $VISUAL or $EDITOR
// (fallback "vi"). It does not run the editor: callers hand the command to
// tea.ExecProcess so Bubble Tea releases the terminal first.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const (
	headerOpen  = "<!--"
	headerClose = "-->"
)

func header(subject string) string {
	var b strings.Builder
	b.WriteString(headerOpen + "\n")
	if subject != "" {
		b.WriteString(subject + "\n\n")
	}
	b.WriteString("Write below this block, then save and quit.\n")
	b.WriteString("An empty file cancels.\n")
	b.WriteString(headerClose + "\n\n")
	return b.String()
}

// command splits the editor variable so values like "code --wait" work.
func command() (string, []string) {
	raw := os.Getenv("VISUAL")
	if strings.TrimSpace(raw) == "" {
		raw = os.Getenv("EDITOR")
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "vi", nil
	}
	return fields[0], fields[1:]
}

// Cmd writes content under an instruction header to a temp file and
// returns the editor command for it. subject names what is being written,
// e.g. "Commenting on Grace Hopper's post".
func (e *EnvEditor) Cmd(content, subject string) (*exec.Cmd, string, error) {
	name, args := command()

	tmpFile, err := os.CreateTemp("", "skillfeed-*.md")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(header(subject) + content); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	cmd := exec.Command(name, append(args, tmpPath)...)
	return cmd, tmpPath, nil
}

// ReadContent returns the text below the instruction header, trimmed, and
// removes the temp file.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	content := string(data)
	if strings.HasPrefix(strings.TrimSpace(content), headerOpen) {
		if idx := strings.Index(content, headerClose); idx != -1 {
			content = content[idx+len(headerClose):]
		}
	}
	return strings.TrimSpace(content), nil
}
