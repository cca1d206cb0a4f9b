package mockapi

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CrestNiraj12/skillfeed/domain"
)

// store is the in-memory backend state. Callers hold Server.mu.
type store struct {
	items    map[domain.Kind][]domain.Item // newest first
	profiles map[string]domain.Profile
	now      func() time.Time
}

func newStore(now func() time.Time) *store {
	return &store{
		items:    make(map[domain.Kind][]domain.Item),
		profiles: make(map[string]domain.Profile),
		now:      now,
	}
}

func (s *store) index(kind domain.Kind, id string) int {
	return slices.IndexFunc(s.items[kind], func(it domain.Item) bool { return it.ID == id })
}

func (s *store) get(kind domain.Kind, id string) (domain.Item, bool) {
	i := s.index(kind, id)
	if i < 0 {
		return domain.Item{}, false
	}
	return s.items[kind][i], true
}

func (s *store) put(it domain.Item) {
	i := s.index(it.Kind, it.ID)
	if i < 0 {
		return
	}
	s.items[it.Kind][i] = it
}

func (s *store) list(kind domain.Kind, authorID string) []domain.Item {
	out := make([]domain.Item, 0, len(s.items[kind]))
	for _, it := range s.items[kind] {
		if authorID == "" || it.AuthorID == authorID {
			out = append(out, it)
		}
	}
	return out
}

func (s *store) userName(id string) string {
	if p, ok := s.profiles[id]; ok && p.Name != "" {
		return p.Name
	}
	return "Unknown User"
}

func (s *store) create(kind domain.Kind, userID string, draft domain.Item) (domain.Item, error) {
	draft.Kind = kind
	if err := draft.Validate(); err != nil {
		return domain.Item{}, err
	}
	now := s.now()
	it := domain.Item{
		Kind:       kind,
		ID:         uuid.NewString(),
		AuthorID:   userID,
		AuthorName: s.userName(userID),
		CreatedAt:  now,
		UpdatedAt:  now,
		Likes:      []domain.Like{},
		Comments:   []domain.Comment{},
		Post:       draft.Post,
		Progress:   draft.Progress,
		Plan:       draft.Plan,
	}
	s.items[kind] = slices.Insert(s.items[kind], 0, it)
	return it, nil
}

func (s *store) update(kind domain.Kind, id string, in domain.Item) (domain.Item, bool, error) {
	it, ok := s.get(kind, id)
	if !ok {
		return domain.Item{}, false, nil
	}
	in.Kind = kind
	if err := in.Validate(); err != nil {
		return domain.Item{}, true, err
	}
	it.Post, it.Progress, it.Plan = in.Post, in.Progress, in.Plan
	it.UpdatedAt = s.now()
	s.put(it)
	return it, true, nil
}

func (s *store) remove(kind domain.Kind, id string) bool {
	i := s.index(kind, id)
	if i < 0 {
		return false
	}
	s.items[kind] = slices.Delete(s.items[kind], i, i+1)
	return true
}

func (s *store) addLike(kind domain.Kind, id, userID string) (domain.Item, bool) {
	it, ok := s.get(kind, id)
	if !ok {
		return domain.Item{}, false
	}
	it = it.WithLike(userID, s.now())
	s.put(it)
	return it, true
}

func (s *store) removeLike(kind domain.Kind, id, userID string) (domain.Item, bool) {
	it, ok := s.get(kind, id)
	if !ok {
		return domain.Item{}, false
	}
	it = it.WithoutLike(userID)
	s.put(it)
	return it, true
}

func (s *store) addComment(kind domain.Kind, id, userID, userName, content string) (domain.Item, bool) {
	it, ok := s.get(kind, id)
	if !ok {
		return domain.Item{}, false
	}
	if strings.TrimSpace(userName) == "" {
		userName = s.userName(userID)
	}
	now := s.now()
	it.Comments = append(slices.Clone(it.Comments), domain.Comment{
		ID:         uuid.NewString(),
		AuthorID:   userID,
		AuthorName: userName,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	s.put(it)
	return it, true
}

func (s *store) updateComment(kind domain.Kind, id, commentID, content string) (domain.Item, bool) {
	it, ok := s.get(kind, id)
	if !ok {
		return domain.Item{}, false
	}
	if _, ok := it.Comment(commentID); ok {
		it = it.WithCommentContent(commentID, content, s.now())
		s.put(it)
	}
	return it, true
}

// deleteComment removes the comment when userID wrote it or owns the item.
// Otherwise the item is returned unchanged.
func (s *store) deleteComment(kind domain.Kind, id, commentID, userID string) (domain.Item, bool) {
	it, ok := s.get(kind, id)
	if !ok {
		return domain.Item{}, false
	}
	c, ok := it.Comment(commentID)
	if ok && (c.AuthorID == userID || it.OwnedBy(userID)) {
		it = it.WithoutComment(commentID)
		s.put(it)
	}
	return it, true
}

func (s *store) follow(userID, followerID string, on bool) bool {
	target, ok := s.profiles[userID]
	if !ok {
		return false
	}
	follower := s.profiles[followerID]
	follower.ID = followerID
	if on {
		if !slices.Contains(target.Followers, followerID) {
			target.Followers = append(slices.Clone(target.Followers), followerID)
		}
		if !slices.Contains(follower.Following, userID) {
			follower.Following = append(slices.Clone(follower.Following), userID)
		}
	} else {
		target.Followers = slices.DeleteFunc(slices.Clone(target.Followers), func(id string) bool { return id == followerID })
		follower.Following = slices.DeleteFunc(slices.Clone(follower.Following), func(id string) bool { return id == userID })
	}
	s.profiles[userID] = target
	s.profiles[followerID] = follower
	return true
}

func (s *store) postCount(userID string) int {
	n := 0
	for _, kind := range domain.Kinds {
		n += len(s.list(kind, userID))
	}
	return n
}
