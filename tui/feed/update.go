package feed

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/tui/compose"
	"github.com/CrestNiraj12/skillfeed/tui/form"
)

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading && m.loaded {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LoadedMsg:
		m.loading = false
		m.loaded = true
		m.err = msg.Err
		if msg.Err == nil {
			m.cursor = clamp(m.cursor, m.rec.Len())
			m.commentCursor = 0
		}
		if m.queued {
			m.queued = false
			m.loading = true
			return m, tea.Batch(m.load(), m.spinner.Tick)
		}
		return m, nil

	case SavedMsg:
		if msg.Err == nil && msg.Created {
			m.cursor = 0
			m.showDetail = false
		}
		m.clampCursors()
		return m, nil

	case LikeDoneMsg, DeleteDoneMsg:
		m.clampCursors()
		return m, nil

	case CommentDoneMsg:
		if msg.Err != nil && msg.Draft != "" {
			m.drafts[msg.ItemID] = msg.Draft
		} else if msg.Err == nil {
			delete(m.drafts, msg.ItemID)
		}
		m.clampCursors()
		return m, nil

	case compose.DoneMsg:
		return m.submit(msg)

	case form.DoneMsg:
		return m.submitForm(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) clampCursors() {
	m.cursor = clamp(m.cursor, m.rec.Len())
	if it, ok := m.Selected(); ok {
		m.commentCursor = clamp(m.commentCursor, len(it.Comments))
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.showAllHints {
		if key.Matches(msg, m.keys.ToggleHints) || key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			m.showAllHints = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ToggleHints):
		m.showAllHints = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.showDetail {
			m.commentCursor = max(m.commentCursor-1, 0)
		} else {
			m.cursor = max(m.cursor-1, 0)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.showDetail {
			if it, ok := m.Selected(); ok {
				m.commentCursor = clamp(m.commentCursor+1, len(it.Comments))
			}
		} else {
			m.cursor = clamp(m.cursor+1, m.rec.Len())
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if _, ok := m.Selected(); ok && !m.showDetail {
			m.showDetail = true
			m.commentCursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.Back), m.showDetail && key.Matches(msg, m.keys.Quit):
		m.showDetail = false
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			m.queued = true
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.load(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Like):
		it, ok := m.Selected()
		if !ok {
			return m, nil
		}
		op, err := m.rec.StartToggleLike(m.user, it.ID)
		if err != nil {
			return m, nil
		}
		return m, runLike(m.rec, op)

	case key.Matches(msg, m.keys.Comment), key.Matches(msg, m.keys.CommentEditor):
		it, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if !m.user.Authenticated() {
			m.warn("Please log in to comment")
			return m, nil
		}
		req := ComposeMsg{
			Kind:      m.Kind(),
			Target:    compose.Target{ItemID: it.ID, Subject: subject("Commenting on", it)},
			Initial:   m.drafts[it.ID],
			UseEditor: key.Matches(msg, m.keys.CommentEditor),
		}
		return m, func() tea.Msg { return req }

	case key.Matches(msg, m.keys.EditComment):
		if !m.showDetail {
			return m, nil
		}
		it, c, ok := m.selectedComment()
		if !ok {
			return m, nil
		}
		if c.AuthorID != m.user.ID {
			m.warn("You can only edit your own comments")
			return m, nil
		}
		req := ComposeMsg{
			Kind:    m.Kind(),
			Target:  compose.Target{ItemID: it.ID, CommentID: c.ID, Subject: subject("Editing your comment on", it)},
			Initial: c.Content,
		}
		return m, func() tea.Msg { return req }

	case key.Matches(msg, m.keys.DeleteComment):
		if !m.showDetail {
			return m, nil
		}
		it, c, ok := m.selectedComment()
		if !ok {
			return m, nil
		}
		op, err := m.rec.StartDeleteComment(m.user, it.ID, c.ID)
		if err != nil {
			return m, nil
		}
		m.clampCursors()
		return m, runComment(m.rec, op)

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if !it.OwnedBy(m.user.ID) {
			m.warn(fmt.Sprintf("You can only delete your own %ss", m.Kind().Label()))
			return m, nil
		}
		return m, m.deleteItem(it.ID)

	case key.Matches(msg, m.keys.NewItem):
		if !m.user.Authenticated() {
			m.warn(fmt.Sprintf("Please log in to share a %s", m.Kind().Label()))
			return m, nil
		}
		return m, openForm(m.newForm(""))

	case key.Matches(msg, m.keys.EditItem):
		it, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if !it.OwnedBy(m.user.ID) {
			m.warn(fmt.Sprintf("You can only edit your own %ss", m.Kind().Label()))
			return m, nil
		}
		return m, openForm(m.editForm(it))

	case key.Matches(msg, m.keys.Follow):
		it, ok := m.Selected()
		if !ok || it.OwnedBy(m.user.ID) {
			return m, nil
		}
		req := FollowMsg{AuthorID: it.AuthorID, AuthorName: it.AuthorName}
		return m, func() tea.Msg { return req }

	case key.Matches(msg, m.keys.OpenMedia):
		it, ok := m.Selected()
		if !ok || it.Post == nil {
			return m, nil
		}
		return m, openURLs(it.Post.MediaURLs)
	}

	return m, nil
}

// submit turns a finished composer into a reconciler operation.
func (m Model) submit(msg compose.DoneMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.warn("Editor failed: " + msg.Err.Error())
		return m, nil
	}
	if msg.Cancelled() {
		return m, nil
	}

	t := msg.Target
	if !t.IsEdit() {
		delete(m.drafts, t.ItemID)
		return m, m.addComment(t.ItemID, msg.Content)
	}

	op, err := m.rec.StartUpdateComment(m.user, t.ItemID, t.CommentID, msg.Content)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			m.warn("That comment no longer exists")
		}
		return m, nil
	}
	if op == nil {
		return m, nil
	}
	return m, runComment(m.rec, op)
}

func (m Model) warn(text string) {
	m.notify.Notify(app.Notice{Level: app.NoticeError, Text: text})
}

func subject(verb string, it domain.Item) string {
	name := it.AuthorName
	if name == "" {
		name = "Unknown User"
	}
	return fmt.Sprintf("%s %s's %s", verb, name, it.Kind.Label())
}
