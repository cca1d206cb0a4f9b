package form

import (
	"strings"

	"github.com/CrestNiraj12/skillfeed/tui/common"
)

// View renders the fields one per line with their labels.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("skillfeed"))
	b.WriteString("  " + m.target.Title + "\n\n")
	for i, f := range m.fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		if i == m.focus {
			b.WriteString(common.LabelStyle.Render(label))
		} else {
			b.WriteString(common.TaglineStyle.Render(label))
		}
		b.WriteString("\n" + m.inputs[i].View() + "\n")
	}
	if m.err != "" {
		b.WriteString("\n" + common.ErrorStyle.Render(m.err) + "\n")
	}
	b.WriteString(common.StatusBarStyle.Render("  tab: next field • enter: next/save • ctrl+s: save • esc: cancel"))
	return b.String()
}
