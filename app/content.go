package app

import (
	"context"

	"github.com/CrestNiraj12/skillfeed/domain"
)

// NewComment is the body of an add-comment request.
type NewComment struct {
	UserID   string
	UserName string
	Content  string
}

// ContentService talks to one content resource (posts, progress entries or
// plans) on the remote API. Mutating calls that the server answers with the
// full item return it.
type ContentService interface {
	// Kind reports which content kind this service serves.
	Kind() domain.Kind

	// List returns every item, newest first.
	List(ctx context.Context) ([]domain.Item, error)

	// ListByUser returns the items authored by userID.
	ListByUser(ctx context.Context, userID string) ([]domain.Item, error)

	// Get returns a single item.
	Get(ctx context.Context, id string) (domain.Item, error)

	// Create publishes a new item for userID.
	Create(ctx context.Context, userID string, item domain.Item) (domain.Item, error)

	// Update replaces the item's payload.
	Update(ctx context.Context, id string, item domain.Item) (domain.Item, error)

	// Delete removes the item.
	Delete(ctx context.Context, id string) error

	// AddLike likes the item as userID.
	AddLike(ctx context.Context, id, userID string) (domain.Item, error)

	// RemoveLike removes userID's like.
	RemoveLike(ctx context.Context, id, userID string) error

	// AddComment appends a comment.
	AddComment(ctx context.Context, id string, c NewComment) (domain.Item, error)

	// UpdateComment replaces a comment's content.
	UpdateComment(ctx context.Context, id, commentID, userID, content string) (domain.Item, error)

	// DeleteComment removes a comment. The server allows the comment author
	// or the item owner.
	DeleteComment(ctx context.Context, id, commentID, userID string) error
}
