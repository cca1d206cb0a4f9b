package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
)

var errBoom = errors.New("boom")

// stubContent implements app.ContentService with per-call hooks. A nil hook
// fails the call so tests notice unexpected remote traffic.
type stubContent struct {
	mu    sync.Mutex
	calls []string

	list          func() ([]domain.Item, error)
	create        func(userID string, it domain.Item) (domain.Item, error)
	update        func(id string, it domain.Item) (domain.Item, error)
	del           func(id string) error
	addLike       func(id, userID string) (domain.Item, error)
	removeLike    func(id, userID string) error
	addComment    func(id string, c app.NewComment) (domain.Item, error)
	updateComment func(id, commentID, userID, content string) (domain.Item, error)
	deleteComment func(id, commentID, userID string) error
}

var errUnexpected = errors.New("unexpected remote call")

func (s *stubContent) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
}

func (s *stubContent) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubContent) Kind() domain.Kind { return domain.KindPost }

func (s *stubContent) List(context.Context) ([]domain.Item, error) {
	s.record("list")
	if s.list == nil {
		return nil, errUnexpected
	}
	return s.list()
}

func (s *stubContent) ListByUser(_ context.Context, userID string) ([]domain.Item, error) {
	s.record("listByUser")
	if s.list == nil {
		return nil, errUnexpected
	}
	items, err := s.list()
	if err != nil {
		return nil, err
	}
	var out []domain.Item
	for _, it := range items {
		if it.AuthorID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubContent) Get(context.Context, string) (domain.Item, error) {
	s.record("get")
	return domain.Item{}, errUnexpected
}

func (s *stubContent) Create(_ context.Context, userID string, it domain.Item) (domain.Item, error) {
	s.record("create")
	if s.create == nil {
		return domain.Item{}, errUnexpected
	}
	return s.create(userID, it)
}

func (s *stubContent) Update(_ context.Context, id string, it domain.Item) (domain.Item, error) {
	s.record("update")
	if s.update == nil {
		return domain.Item{}, errUnexpected
	}
	return s.update(id, it)
}

func (s *stubContent) Delete(_ context.Context, id string) error {
	s.record("delete")
	if s.del == nil {
		return errUnexpected
	}
	return s.del(id)
}

func (s *stubContent) AddLike(_ context.Context, id, userID string) (domain.Item, error) {
	s.record("addLike")
	if s.addLike == nil {
		return domain.Item{}, errUnexpected
	}
	return s.addLike(id, userID)
}

func (s *stubContent) RemoveLike(_ context.Context, id, userID string) error {
	s.record("removeLike")
	if s.removeLike == nil {
		return errUnexpected
	}
	return s.removeLike(id, userID)
}

func (s *stubContent) AddComment(_ context.Context, id string, c app.NewComment) (domain.Item, error) {
	s.record("addComment")
	if s.addComment == nil {
		return domain.Item{}, errUnexpected
	}
	return s.addComment(id, c)
}

func (s *stubContent) UpdateComment(_ context.Context, id, commentID, userID, content string) (domain.Item, error) {
	s.record("updateComment")
	if s.updateComment == nil {
		return domain.Item{}, errUnexpected
	}
	return s.updateComment(id, commentID, userID, content)
}

func (s *stubContent) DeleteComment(_ context.Context, id, commentID, userID string) error {
	s.record("deleteComment")
	if s.deleteComment == nil {
		return errUnexpected
	}
	return s.deleteComment(id, commentID, userID)
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

func (n *noticeLog) errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, x := range n.notices {
		if x.Level == app.NoticeError {
			out = append(out, x.Text)
		}
	}
	return out
}

var (
	t0    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	alice = domain.User{ID: "u1", Name: "Alice"}
	bob   = domain.User{ID: "u2", Name: "Bob"}
)

func fixedClock() time.Time { return t0.Add(time.Hour) }

func makePost(id, authorID string) domain.Item {
	return domain.Item{
		Kind:       domain.KindPost,
		ID:         id,
		AuthorID:   authorID,
		AuthorName: "Author " + authorID,
		CreatedAt:  t0,
		UpdatedAt:  t0,
		Likes:      []domain.Like{},
		Comments:   []domain.Comment{},
		Post:       &domain.PostBody{Description: "post " + id},
	}
}

func makeComment(id, authorID, content string) domain.Comment {
	return domain.Comment{
		ID:         id,
		AuthorID:   authorID,
		AuthorName: "Author " + authorID,
		Content:    content,
		CreatedAt:  t0,
		UpdatedAt:  t0,
	}
}

func newTestReconciler(svc *stubContent, items ...domain.Item) (*Reconciler, *noticeLog) {
	notes := &noticeLog{}
	r := New(svc, WithNotifier(notes), WithClock(fixedClock))
	r.Replace(items)
	return r, notes
}
