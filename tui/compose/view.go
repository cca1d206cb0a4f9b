package compose

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/skillfeed/tui/common"
)

// View renders the compose view based on the active mode.
func (m Model) View() string {
	switch m.mode {
	case editorMode:
		return m.status + "\n"

	case inlineMode:
		var b strings.Builder
		title := "New Comment"
		if m.target.IsEdit() {
			title = "Edit Comment"
		}
		b.WriteString(common.AppTitleStyle.Render("skillfeed"))
		b.WriteString("  " + title + "\n")
		if m.target.Subject != "" {
			b.WriteString(common.TaglineStyle.Render(m.target.Subject) + "\n")
		}
		b.WriteString("\n")
		b.WriteString(m.textarea.View())
		b.WriteString("\n")
		b.WriteString(common.StatusBarStyle.Render(
			fmt.Sprintf("  ctrl+d: send • esc: cancel • %d/%d chars",
				len([]rune(m.textarea.Value())), CharLimit),
		))
		return b.String()
	}
	return ""
}
