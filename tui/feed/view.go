package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/tui/common"
)

// cardLines is the height of one list card including its border.
const cardLines = 5

// View renders the list or the detail pane.
func (m Model) View() string {
	if m.showAllHints {
		return m.renderKeyDialog()
	}

	var b strings.Builder
	items := m.rec.Snapshot()

	switch {
	case !m.loaded:
		b.WriteString(fmt.Sprintf("\n  %s Loading %ss...\n", m.spinner.View(), m.Kind().Label()))
	case m.err != nil && len(items) == 0:
		b.WriteString("\n  " + common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
		b.WriteString("  " + common.TimestampStyle.Render("r: retry") + "\n")
	case len(items) == 0:
		b.WriteString(fmt.Sprintf("\n  No %ss yet.\n", m.Kind().Label()))
	case m.showDetail:
		b.WriteString(m.renderDetail(items[clamp(m.cursor, len(items))]))
	default:
		b.WriteString(m.renderList(items))
	}

	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) cardWidth() int {
	if m.width <= 0 {
		return 76
	}
	return max(m.width-4, 24)
}

func (m Model) renderList(items []domain.Item) string {
	visible := len(items)
	if m.height > 0 {
		// title, tabs, header, status and help take roughly ten lines
		visible = max((m.height-10)/cardLines, 1)
	}
	cursor := clamp(m.cursor, len(items))
	start := max(cursor-visible+1, 0)
	end := min(start+visible, len(items))

	var b strings.Builder
	if m.loading {
		b.WriteString("  " + m.spinner.View() + " refreshing\n")
	}
	for i := start; i < end; i++ {
		style := common.UnselectedStyle
		if i == cursor {
			style = common.SelectedStyle
		}
		b.WriteString(style.Width(m.cardWidth()).Render(m.renderCard(items[i])))
		b.WriteString("\n")
	}
	if end < len(items) {
		b.WriteString(common.TimestampStyle.Render(fmt.Sprintf("  … %d more", len(items)-end)) + "\n")
	}
	return b.String()
}

func (m Model) renderCard(it domain.Item) string {
	inner := m.cardWidth() - 4
	head := m.renderByline(it)
	title := common.Truncate(common.SingleLine(headline(it)), inner)
	return head + "\n" + common.ContentStyle.Render(title) + "\n" + m.renderCounters(it)
}

func (m Model) renderByline(it domain.Item) string {
	name := it.AuthorName
	if name == "" {
		name = "Unknown User"
	}
	line := common.AuthorStyle.Render(name)
	if it.OwnedBy(m.user.ID) {
		line += common.OwnBadgeStyle.Render("you")
	} else if m.following[it.AuthorID] {
		line += common.OwnBadgeStyle.Render("✓ following")
	}
	if ts := common.RelativeTime(it.CreatedAt, m.now()); ts != "" {
		line += " " + common.TimestampStyle.Render("· "+ts)
	}
	return line
}

func (m Model) renderCounters(it domain.Item) string {
	likes := common.CountStyle.Render("♡ " + common.Plural(len(it.Likes), "like"))
	if it.LikedBy(m.user.ID) {
		likes = common.LikedStyle.Render("♥ " + common.Plural(len(it.Likes), "like"))
	}
	comments := common.CountStyle.Render("💬 " + common.Plural(len(it.Comments), "comment"))
	out := likes + "  " + comments
	if it.Post != nil && len(it.Post.MediaURLs) > 0 {
		out += "  " + common.CountStyle.Render("📎 "+common.Plural(len(it.Post.MediaURLs), "file"))
	}
	return out
}

// headline is the one-line summary shown on a card.
func headline(it domain.Item) string {
	switch {
	case it.Progress != nil:
		icon := ""
		if t, ok := domain.TemplateByID(it.Progress.TemplateType); ok {
			icon = t.Icon + " "
		}
		return icon + it.Progress.Title
	case it.Plan != nil:
		return "📚 " + it.Plan.Title
	}
	return it.Title()
}

func (m Model) renderDetail(it domain.Item) string {
	width := m.cardWidth()
	body := lipgloss.NewStyle().Width(width - 4)

	var b strings.Builder
	b.WriteString(m.renderByline(it) + "\n\n")
	for _, f := range detailFields(it) {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		if f.label != "" {
			b.WriteString(common.LabelStyle.Render(f.label) + "\n")
		}
		b.WriteString(body.Render(common.ContentStyle.Render(f.value)) + "\n\n")
	}
	b.WriteString(m.renderCounters(it) + "\n")

	b.WriteString("\n" + common.LabelStyle.Render("Comments") + "\n")
	if len(it.Comments) == 0 {
		b.WriteString(common.TimestampStyle.Render("  No comments yet. c: comment") + "\n")
	}
	cc := clamp(m.commentCursor, len(it.Comments))
	for i, c := range it.Comments {
		marker := "  "
		if i == cc {
			marker = common.SuccessStyle.Render("› ")
		}
		name := c.AuthorName
		if name == "" {
			name = "Unknown User"
		}
		line := marker + common.AuthorStyle.Render(name)
		if c.AuthorID == m.user.ID {
			line += common.OwnBadgeStyle.Render("you")
		}
		if ts := common.RelativeTime(c.CreatedAt, m.now()); ts != "" {
			line += " " + common.TimestampStyle.Render("· "+ts)
		}
		if c.Edited() {
			line += " " + common.TimestampStyle.Render("(edited)")
		}
		b.WriteString(line + "\n")
		b.WriteString("  " + body.Render(common.ContentStyle.Render(c.Content)) + "\n")
	}

	return common.SelectedStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

type field struct {
	label string
	value string
}

func detailFields(it domain.Item) []field {
	switch {
	case it.Post != nil:
		fields := []field{{value: it.Post.Description}}
		for i, u := range it.Post.MediaURLs {
			kind := "file"
			if i < len(it.Post.MediaTypes) && it.Post.MediaTypes[i] != "" {
				kind = it.Post.MediaTypes[i]
			}
			if strings.HasPrefix(u, "data:") {
				u = "(embedded)"
			}
			fields = append(fields, field{label: fmt.Sprintf("Attachment %d (%s)", i+1, kind), value: u})
		}
		return fields

	case it.Progress != nil:
		p := it.Progress
		header := p.TemplateType
		if t, ok := domain.TemplateByID(p.TemplateType); ok {
			header = t.Icon + " " + t.Name
		}
		if s, ok := domain.StatusNames[p.Status]; ok {
			header += " · " + s
		}
		fields := []field{{label: header, value: p.Title}}
		tmpl, _ := domain.TemplateByID(p.TemplateType)
		for _, name := range tmpl.Fields {
			if name == domain.FieldTitle {
				continue
			}
			fields = append(fields, field{label: fieldLabel(name), value: p.Field(name)})
		}
		return fields

	case it.Plan != nil:
		return []field{
			{label: "📚 Learning Plan", value: it.Plan.Title},
			{label: "Description", value: it.Plan.Description},
			{label: "Topics", value: it.Plan.Topics},
			{label: "Resources", value: it.Plan.Resources},
		}
	}
	return nil
}

func fieldLabel(name string) string {
	switch name {
	case domain.FieldDescription:
		return "Description"
	case domain.FieldTutorialName:
		return "Tutorial"
	case domain.FieldProjectName:
		return "Project"
	case domain.FieldSkillsLearned:
		return "Skills Learned"
	case domain.FieldChallenges:
		return "Challenges"
	case domain.FieldNextSteps:
		return "Next Steps"
	}
	return name
}

func (m Model) helpView() string {
	var items []string
	switch {
	case m.showDetail:
		items = []string{
			"j/k: comment",
			"l: like",
			"c/C: comment",
			"e: edit",
			"x: delete comment",
			"esc: back",
			"?: all keys",
		}
	case m.rec.Len() > 0:
		items = []string{
			"j/k: focus",
			"enter: detail",
			"l: like",
			"c/C: comment",
			"a: add",
			"E: edit",
			"d: delete",
			"tab: kind",
			"q: quit",
			"?: all keys",
		}
	default:
		items = []string{
			"r: refresh",
			"a: add",
			"tab: kind",
			"q: quit",
		}
	}

	wrapWidth := max(m.width-2, 16)
	return common.StatusBarStyle.
		Width(wrapWidth).
		Render("  " + strings.Join(items, " • "))
}

func (m Model) renderKeyDialog() string {
	bindings := []struct{ keys, desc string }{
		{"j/k, ↑/↓", "move (items, or comments in detail)"},
		{"enter / esc", "open / close detail"},
		{"tab / shift+tab", "switch between posts, progress and plans"},
		{"l", "like or unlike"},
		{"c", "comment inline"},
		{"C", "comment in $EDITOR"},
		{"e", "edit your comment (detail)"},
		{"x", "delete comment (detail)"},
		{"a", "add a post, progress update or plan"},
		{"E", "edit your item"},
		{"d", "delete your item"},
		{"f", "follow or unfollow the author"},
		{"o", "open post attachments"},
		{"r", "refresh"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(common.LabelStyle.Render("Keys") + "\n\n")
	for _, kb := range bindings {
		b.WriteString(fmt.Sprintf("  %-16s %s\n", kb.keys, kb.desc))
	}
	b.WriteString("\n" + common.TimestampStyle.Render("?/esc: close"))
	return common.SelectedStyle.Render(b.String())
}
