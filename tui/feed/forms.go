package feed

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/tui/form"
)

var statusOptions = []string{domain.StatusNotStarted, domain.StatusInProgress, domain.StatusCompleted}

func openForm(req FormMsg) tea.Cmd {
	return func() tea.Msg { return req }
}

// newForm builds the form for a new item. A progress update first asks for
// its template; the template's fields follow once one is chosen.
func (m Model) newForm(template string) FormMsg {
	kind := m.Kind()
	target := form.Target{Kind: kind, Template: template, Title: "New " + tabTitle(kind)}
	if kind == domain.KindProgress && template == "" {
		ids := make([]string, len(domain.ProgressTemplates))
		for i, t := range domain.ProgressTemplates {
			ids[i] = t.ID
		}
		return FormMsg{Target: target, Fields: []form.Field{{
			Name: domain.FieldTemplate, Label: domain.FieldLabels[domain.FieldTemplate],
			Value: ids[0], Required: true, Options: ids,
		}}}
	}
	return FormMsg{Target: target, Fields: itemFields(kind, template, nil)}
}

func (m Model) editForm(it domain.Item) FormMsg {
	template := ""
	if it.Progress != nil {
		template = it.Progress.TemplateType
	}
	return FormMsg{
		Target: form.Target{Kind: it.Kind, ItemID: it.ID, Template: template, Title: "Edit " + tabTitle(it.Kind)},
		Fields: itemFields(it.Kind, template, it.FieldValues()),
	}
}

func itemFields(kind domain.Kind, template string, values map[string]string) []form.Field {
	required := domain.RequiredFields(kind, template)
	var fields []form.Field
	for _, name := range domain.EditableFields(kind, template) {
		f := form.Field{
			Name:     name,
			Label:    domain.FieldLabels[name],
			Value:    values[name],
			Required: slices.Contains(required, name),
		}
		switch name {
		case domain.FieldStatus:
			f.Options = statusOptions
			if f.Value == "" {
				f.Value = domain.StatusInProgress
			}
		case domain.FieldMedia:
			f.Placeholder = "space-separated image or video URLs"
		}
		fields = append(fields, f)
	}
	return fields
}

// submitForm publishes a new item or saves an edit. Validation happens in
// the reconciler, which reports missing fields as a notice.
func (m Model) submitForm(msg form.DoneMsg) (Model, tea.Cmd) {
	if msg.Cancelled {
		return m, nil
	}
	t := msg.Target
	if t.Kind == domain.KindProgress && t.Template == "" {
		return m, openForm(m.newForm(msg.Values[domain.FieldTemplate]))
	}
	values := msg.Values
	if t.Kind == domain.KindProgress {
		values[domain.FieldTemplate] = t.Template
	}

	rec, user := m.rec, m.user
	if !t.IsEdit() {
		draft := domain.Item{}.WithFields(t.Kind, values)
		return m, func() tea.Msg {
			it, err := rec.Create(context.Background(), user, draft)
			return SavedMsg{Kind: rec.Kind(), ItemID: it.ID, Created: err == nil, Err: err}
		}
	}

	cur, ok := rec.Item(t.ItemID)
	if !ok {
		m.warn("That item no longer exists")
		return m, nil
	}
	edited := cur.WithFields(t.Kind, values)
	return m, func() tea.Msg {
		_, err := rec.Update(context.Background(), user, edited)
		return SavedMsg{Kind: rec.Kind(), ItemID: edited.ID, Err: err}
	}
}

func tabTitle(k domain.Kind) string {
	switch k {
	case domain.KindPost:
		return "Post"
	case domain.KindProgress:
		return "Progress Update"
	case domain.KindPlan:
		return "Learning Plan"
	}
	return string(k)
}
