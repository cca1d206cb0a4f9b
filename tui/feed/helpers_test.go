package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/reconcile"
)

var errBoom = errors.New("boom")

// stubContent serves a fixed list and applies likes and comments to it the
// way the server does. fail makes every mutation return errBoom.
type stubContent struct {
	mu    sync.Mutex
	kind  domain.Kind // posts when empty
	items []domain.Item
	fail  bool
	calls []string
	saved []domain.Item // payloads sent by Create and Update
}

func (s *stubContent) record(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	if s.fail {
		return errBoom
	}
	return nil
}

func (s *stubContent) find(id string) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it
		}
	}
	return domain.Item{}
}

func (s *stubContent) Kind() domain.Kind {
	if s.kind == "" {
		return domain.KindPost
	}
	return s.kind
}

func (s *stubContent) List(context.Context) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Item(nil), s.items...), nil
}

func (s *stubContent) ListByUser(context.Context, string) ([]domain.Item, error) { return nil, nil }

func (s *stubContent) Get(_ context.Context, id string) (domain.Item, error) {
	return s.find(id), nil
}

func (s *stubContent) Create(_ context.Context, userID string, it domain.Item) (domain.Item, error) {
	if err := s.record("create"); err != nil {
		return domain.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, it)
	it.ID, it.AuthorID, it.CreatedAt, it.UpdatedAt = "new", userID, t0, t0
	return it, nil
}

func (s *stubContent) Update(_ context.Context, _ string, it domain.Item) (domain.Item, error) {
	if err := s.record("update"); err != nil {
		return domain.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, it)
	it.UpdatedAt = t0.Add(time.Hour)
	return it, nil
}

func (s *stubContent) Delete(context.Context, string) error { return s.record("delete") }

func (s *stubContent) AddLike(_ context.Context, id, userID string) (domain.Item, error) {
	if err := s.record("addLike"); err != nil {
		return domain.Item{}, err
	}
	return s.find(id).WithLike(userID, t0), nil
}

func (s *stubContent) RemoveLike(context.Context, string, string) error {
	return s.record("removeLike")
}

func (s *stubContent) AddComment(_ context.Context, id string, c app.NewComment) (domain.Item, error) {
	if err := s.record("addComment"); err != nil {
		return domain.Item{}, err
	}
	it := s.find(id)
	it.Comments = append(append([]domain.Comment(nil), it.Comments...), domain.Comment{
		ID: "srv", AuthorID: c.UserID, AuthorName: c.UserName, Content: c.Content, CreatedAt: t0, UpdatedAt: t0,
	})
	return it, nil
}

func (s *stubContent) UpdateComment(_ context.Context, id, commentID, _, content string) (domain.Item, error) {
	if err := s.record("updateComment"); err != nil {
		return domain.Item{}, err
	}
	return s.find(id).WithCommentContent(commentID, content, t0.Add(time.Hour)), nil
}

func (s *stubContent) DeleteComment(context.Context, string, string, string) error {
	return s.record("deleteComment")
}

type noticeLog struct {
	mu      sync.Mutex
	notices []app.Notice
}

func (n *noticeLog) Notify(x app.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, x)
}

func (n *noticeLog) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return ""
	}
	return n.notices[len(n.notices)-1].Text
}

var (
	t0   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ada  = domain.User{ID: "u1", Name: "Ada"}
	seed = []domain.Item{
		{
			Kind: domain.KindPost, ID: "p2", AuthorID: "u2", AuthorName: "Grace",
			CreatedAt: t0.Add(-3 * time.Hour), UpdatedAt: t0.Add(-3 * time.Hour),
			Likes: []domain.Like{{UserID: "u3", CreatedAt: t0}},
			Comments: []domain.Comment{
				{ID: "c1", AuthorID: "u1", AuthorName: "Ada", Content: "nice", CreatedAt: t0, UpdatedAt: t0.Add(time.Minute)},
				{ID: "c2", AuthorID: "u3", AuthorName: "", Content: "agreed", CreatedAt: t0, UpdatedAt: t0},
			},
			Post: &domain.PostBody{
				Description: "Learning Go generics",
				MediaURLs:   []string{"https://cdn.example/a.png"},
				MediaTypes:  []string{"image"},
			},
		},
		{
			Kind: domain.KindPost, ID: "p1", AuthorID: "u1", AuthorName: "Ada",
			CreatedAt: t0.Add(-48 * time.Hour), UpdatedAt: t0.Add(-48 * time.Hour),
			Likes: []domain.Like{}, Comments: []domain.Comment{},
			Post: &domain.PostBody{Description: "My first post"},
		},
	}
)

// newLoadedModel returns a feed over a stub holding the seed items, already
// loaded, plus the stub and the notices it produced.
func newLoadedModel(opts ...reconcile.Option) (Model, *stubContent, *noticeLog) {
	svc := &stubContent{items: seed}
	notes := &noticeLog{}
	rec := reconcile.New(svc, append([]reconcile.Option{reconcile.WithNotifier(notes), reconcile.WithClock(func() time.Time { return t0 })}, opts...)...)
	m := New(rec, ada, notes)
	m.now = func() time.Time { return t0 }
	m, _ = m.Update(m.load()())
	return m, svc, notes
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(keyMsg(k))
	}
	return m, cmd
}
