package feed

import (
	"context"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skillfeed/reconcile"
)

func (m Model) load() tea.Cmd {
	rec := m.rec
	return func() tea.Msg {
		err := rec.Load(context.Background())
		if err == nil {
			rec.SetTotal(rec.Len())
		}
		return LoadedMsg{Kind: rec.Kind(), Err: err}
	}
}

func runLike(rec *reconcile.Reconciler, op *reconcile.LikeOp) tea.Cmd {
	return func() tea.Msg {
		err := op.Run(context.Background())
		return LikeDoneMsg{Kind: rec.Kind(), ItemID: op.ItemID(), Err: err}
	}
}

func runComment(rec *reconcile.Reconciler, op *reconcile.CommentOp) tea.Cmd {
	return func() tea.Msg {
		err := op.Run(context.Background())
		return CommentDoneMsg{Kind: rec.Kind(), ItemID: op.ItemID(), Err: err}
	}
}

func (m Model) addComment(itemID, content string) tea.Cmd {
	rec, user := m.rec, m.user
	return func() tea.Msg {
		msg := CommentDoneMsg{Kind: rec.Kind(), ItemID: itemID}
		if _, err := rec.AddComment(context.Background(), user, itemID, content); err != nil {
			msg.Err = err
			msg.Draft = content
		}
		return msg
	}
}

// deleteItem runs the whole delete flow off the event loop: the reconciler
// blocks on the confirmation gate until the user answers.
func (m Model) deleteItem(itemID string) tea.Cmd {
	rec, user := m.rec, m.user
	return func() tea.Msg {
		deleted, err := rec.DeleteItem(context.Background(), user, itemID)
		return DeleteDoneMsg{Kind: rec.Kind(), ItemID: itemID, Deleted: deleted, Err: err}
	}
}

func openURLs(urls []string) tea.Cmd {
	clean := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || !isSafeExternalURL(u) {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		clean = append(clean, u)
	}
	if len(clean) == 0 {
		return nil
	}
	return func() tea.Msg {
		for _, u := range clean {
			_ = exec.Command(opener(), u).Start()
		}
		return nil
	}
}

func opener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// isSafeExternalURL accepts absolute http(s) URLs only. Inline data: media
// cannot be handed to a browser from the terminal.
func isSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
