package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
)

// ResourcePath maps a content kind to its collection path.
func ResourcePath(kind domain.Kind) string {
	switch kind {
	case domain.KindProgress:
		return "/learning-progress"
	case domain.KindPlan:
		return "/learning-plan"
	default:
		return "/posts"
	}
}

// contentService implements app.ContentService for one resource.
type contentService struct {
	client *Client
	kind   domain.Kind
	base   string
}

// NewContentService creates a ContentService for kind.
func NewContentService(client *Client, kind domain.Kind) app.ContentService {
	return &contentService{client: client, kind: kind, base: ResourcePath(kind)}
}

func (s *contentService) Kind() domain.Kind { return s.kind }

func (s *contentService) label() string { return s.kind.Label() }

func (s *contentService) path(parts ...string) string {
	p := s.base
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (s *contentService) list(ctx context.Context, path string) ([]domain.Item, error) {
	var ws []wireItem
	if err := s.client.Get(ctx, path, &ws); err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(ws))
	for _, w := range ws {
		items = append(items, w.toDomain(s.kind))
	}
	return items, nil
}

func (s *contentService) one(err error, w wireItem, verb string) (domain.Item, error) {
	if err != nil {
		return domain.Item{}, fmt.Errorf("%s %s: %w", verb, s.label(), err)
	}
	return w.toDomain(s.kind), nil
}

func (s *contentService) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.list(ctx, s.base)
	if err != nil {
		return nil, fmt.Errorf("fetching %ss: %w", s.label(), err)
	}
	return items, nil
}

func (s *contentService) ListByUser(ctx context.Context, userID string) ([]domain.Item, error) {
	items, err := s.list(ctx, s.path("user", userID))
	if err != nil {
		return nil, fmt.Errorf("fetching %ss by %s: %w", s.label(), userID, err)
	}
	return items, nil
}

func (s *contentService) Get(ctx context.Context, id string) (domain.Item, error) {
	var w wireItem
	err := s.client.Get(ctx, s.path(id), &w)
	return s.one(err, w, "fetching")
}

func (s *contentService) Create(ctx context.Context, userID string, item domain.Item) (domain.Item, error) {
	in := fromDomain(item)
	in.ID = ""
	in.UserID = userID
	var w wireItem
	err := s.client.Post(ctx, s.path("user", userID), in, &w)
	return s.one(err, w, "creating")
}

func (s *contentService) Update(ctx context.Context, id string, item domain.Item) (domain.Item, error) {
	var w wireItem
	err := s.client.Put(ctx, s.path(id), fromDomain(item), &w)
	return s.one(err, w, "updating")
}

func (s *contentService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, s.path(id), nil); err != nil {
		return fmt.Errorf("deleting %s: %w", s.label(), err)
	}
	return nil
}

type likeRequest struct {
	UserID string `json:"userId"`
}

func (s *contentService) AddLike(ctx context.Context, id, userID string) (domain.Item, error) {
	var w wireItem
	err := s.client.Post(ctx, s.path(id, "likes"), likeRequest{UserID: userID}, &w)
	return s.one(err, w, "liking")
}

func (s *contentService) RemoveLike(ctx context.Context, id, userID string) error {
	if err := s.client.Delete(ctx, s.path(id, "likes", userID), nil); err != nil {
		return fmt.Errorf("unliking %s: %w", s.label(), err)
	}
	return nil
}

type commentRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
	Content  string `json:"content"`
}

func (s *contentService) AddComment(ctx context.Context, id string, c app.NewComment) (domain.Item, error) {
	var w wireItem
	err := s.client.Post(ctx, s.path(id, "comments"), commentRequest{
		UserID:   c.UserID,
		UserName: c.UserName,
		Content:  c.Content,
	}, &w)
	return s.one(err, w, "commenting on")
}

func (s *contentService) UpdateComment(ctx context.Context, id, commentID, userID, content string) (domain.Item, error) {
	var w wireItem
	err := s.client.Put(ctx, s.path(id, "comments", commentID), commentRequest{
		UserID:  userID,
		Content: content,
	}, &w)
	return s.one(err, w, "editing comment on")
}

func (s *contentService) DeleteComment(ctx context.Context, id, commentID, userID string) error {
	path := s.path(id, "comments", commentID) + "?userId=" + url.QueryEscape(userID)
	if err := s.client.Delete(ctx, path, nil); err != nil {
		return fmt.Errorf("deleting comment on %s: %w", s.label(), err)
	}
	return nil
}
