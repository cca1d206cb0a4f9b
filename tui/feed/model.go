// Package feed renders one content kind's collection and turns key presses
// into reconciler operations. All item state lives in the reconciler; the
// model only keeps cursor and view state.
package feed

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/reconcile"
	"github.com/CrestNiraj12/skillfeed/tui/common"
	"github.com/CrestNiraj12/skillfeed/tui/compose"
	"github.com/CrestNiraj12/skillfeed/tui/form"
)

// --- Messages ---

// KindedMsg is a result message for one kind's feed. The root model routes
// it to that feed regardless of which tab is active.
type KindedMsg interface {
	MsgKind() domain.Kind
}

// LoadedMsg is sent when a reload finishes.
type LoadedMsg struct {
	Kind domain.Kind
	Err  error
}

// LikeDoneMsg is sent when a like toggle has been confirmed or rolled back.
type LikeDoneMsg struct {
	Kind   domain.Kind
	ItemID string
	Err    error
}

// CommentDoneMsg is sent after a comment add, edit or removal settles.
// Draft is the text of a failed new comment, kept for the next attempt.
type CommentDoneMsg struct {
	Kind   domain.Kind
	ItemID string
	Draft  string
	Err    error
}

// DeleteDoneMsg is sent after an item delete was confirmed, declined or
// failed.
type DeleteDoneMsg struct {
	Kind    domain.Kind
	ItemID  string
	Deleted bool
	Err     error
}

// SavedMsg is sent after an item form was published or saved.
type SavedMsg struct {
	Kind    domain.Kind
	ItemID  string
	Created bool
	Err     error
}

func (m LoadedMsg) MsgKind() domain.Kind      { return m.Kind }
func (m LikeDoneMsg) MsgKind() domain.Kind    { return m.Kind }
func (m CommentDoneMsg) MsgKind() domain.Kind { return m.Kind }
func (m DeleteDoneMsg) MsgKind() domain.Kind  { return m.Kind }
func (m SavedMsg) MsgKind() domain.Kind       { return m.Kind }

// ComposeMsg asks the root model to open a comment composer.
type ComposeMsg struct {
	Kind      domain.Kind
	Target    compose.Target
	Initial   string
	UseEditor bool
}

// FormMsg asks the root model to open an item form.
type FormMsg struct {
	Target form.Target
	Fields []form.Field
}

// FollowMsg asks the root model to follow or unfollow an author.
type FollowMsg struct {
	AuthorID   string
	AuthorName string
}

// --- Model ---

// Model holds the state for one kind's feed.
type Model struct {
	rec    *reconcile.Reconciler
	user   domain.User
	notify app.Notifier
	now    func() time.Time

	keys    common.KeyMap
	spinner spinner.Model

	loaded  bool
	loading bool
	queued  bool // refresh asked for while loading
	err     error

	cursor        int
	showDetail    bool
	commentCursor int
	showAllHints  bool

	following map[string]bool   // author ID -> followed by user
	drafts    map[string]string // item ID -> unsent comment

	width  int
	height int
}

// New creates a feed model over rec acting as user.
func New(rec *reconcile.Reconciler, user domain.User, notify app.Notifier) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))
	if notify == nil {
		notify = app.NotifyFunc(func(app.Notice) {})
	}

	return Model{
		rec:       rec,
		user:      user,
		notify:    notify,
		now:       time.Now,
		keys:      common.DefaultKeyMap(),
		spinner:   s,
		following: make(map[string]bool),
		drafts:    make(map[string]string),
	}
}

// Init starts the initial fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

// Kind is the content kind this feed shows.
func (m Model) Kind() domain.Kind { return m.rec.Kind() }

// Total is the item counter shown on the tab.
func (m Model) Total() int { return m.rec.Total() }

// Loaded reports whether a fetch has completed at least once.
func (m Model) Loaded() bool { return m.loaded }

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool { return m.loading }

// IsInDetailView reports whether the detail pane is open.
func (m Model) IsInDetailView() bool { return m.showDetail }

// WithDetail opens or closes the detail pane.
func (m Model) WithDetail(on bool) Model {
	m.showDetail = on
	m.commentCursor = 0
	return m
}

// Busy reports whether the feed is consuming keys that would otherwise be
// global, such as the all-keys overlay.
func (m Model) Busy() bool { return m.showAllHints }

// SetFollowing replaces the set of author IDs the user follows.
func (m Model) SetFollowing(ids []string) Model {
	f := make(map[string]bool, len(ids))
	for _, id := range ids {
		f[id] = true
	}
	m.following = f
	return m
}

// Draft returns the unsent comment kept for itemID.
func (m Model) Draft(itemID string) string { return m.drafts[itemID] }

// Selected returns the item under the cursor.
func (m Model) Selected() (domain.Item, bool) {
	items := m.rec.Snapshot()
	if len(items) == 0 {
		return domain.Item{}, false
	}
	return items[clamp(m.cursor, len(items))], true
}

// selectedComment returns the comment under the detail cursor.
func (m Model) selectedComment() (domain.Item, domain.Comment, bool) {
	it, ok := m.Selected()
	if !ok || len(it.Comments) == 0 {
		return it, domain.Comment{}, false
	}
	return it, it.Comments[clamp(m.commentCursor, len(it.Comments))], true
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
