package reconcile

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
)

// AddComment posts a comment and, once the server answers, replaces the
// item with the returned copy. Nothing is inserted locally beforehand: the
// comment's ID and timestamps come from the server.
//
// The error is returned to the caller as well as surfaced as a notice so a
// compose form can keep the draft.
func (r *Reconciler) AddComment(ctx context.Context, user domain.User, itemID, content string) (domain.Item, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		r.fail("Comment cannot be empty")
		return domain.Item{}, fmt.Errorf("commenting on %s: %w", itemID, domain.Required("content"))
	}
	if !user.Authenticated() {
		r.fail("Please log in to comment")
		return domain.Item{}, fmt.Errorf("commenting on %s: %w", itemID, domain.ErrUnauthenticated)
	}
	if _, ok := r.Item(itemID); !ok {
		return domain.Item{}, fmt.Errorf("commenting on %s: %w", itemID, domain.ErrNotFound)
	}

	item, err := r.svc.AddComment(ctx, itemID, app.NewComment{
		UserID:   user.ID,
		UserName: user.Name,
		Content:  content,
	})
	if err != nil {
		r.fail("Failed to add comment")
		return domain.Item{}, fmt.Errorf("commenting on %s: %w", itemID, err)
	}

	r.mu.Lock()
	ok := r.putLocked(item)
	r.mu.Unlock()
	if !ok {
		r.log.Debug("item gone before comment response", "item_id", itemID)
	}
	return item, nil
}

// CommentOp is a comment edit or removal applied locally and waiting for the
// server.
type CommentOp struct {
	op
	userID    string
	commentID string
	content   string // empty for a delete
	remove    bool
}

// CommentID is the comment the operation targets.
func (o *CommentOp) CommentID() string { return o.commentID }

// StartUpdateComment replaces the comment's content locally and stamps it
// as edited now. Content that is empty after trimming is a no-op: both the
// op and the error are nil.
func (r *Reconciler) StartUpdateComment(user domain.User, itemID, commentID, content string) (*CommentOp, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	if !user.Authenticated() {
		r.fail("Please log in to edit comments")
		return nil, fmt.Errorf("editing comment %s: %w", commentID, domain.ErrUnauthenticated)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	before, orig, err := r.commentLocked(itemID, commentID)
	if err != nil {
		return nil, fmt.Errorf("editing comment %s: %w", commentID, err)
	}
	if orig.AuthorID != user.ID {
		r.fail("You can only edit your own comments")
		return nil, fmt.Errorf("editing comment %s: %w", commentID, domain.ErrForbidden)
	}
	r.putLocked(before.WithCommentContent(commentID, content, r.now()))

	undo := func(cur domain.Item) domain.Item {
		comments := slices.Clone(cur.Comments)
		for i, c := range comments {
			if c.ID == commentID {
				comments[i] = orig
			}
		}
		cur.Comments = comments
		return cur
	}
	o := &CommentOp{
		op:        r.beginLocked(itemID+"/comment/"+commentID, itemID, undo),
		userID:    user.ID,
		commentID: commentID,
		content:   content,
	}
	return o, nil
}

// StartDeleteComment removes the comment locally. Only the comment's author
// or the item's owner may delete it.
func (r *Reconciler) StartDeleteComment(user domain.User, itemID, commentID string) (*CommentOp, error) {
	if !user.Authenticated() {
		r.fail("Please log in to delete comments")
		return nil, fmt.Errorf("deleting comment %s: %w", commentID, domain.ErrUnauthenticated)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	before, orig, err := r.commentLocked(itemID, commentID)
	if err != nil {
		return nil, fmt.Errorf("deleting comment %s: %w", commentID, err)
	}
	if orig.AuthorID != user.ID && !before.OwnedBy(user.ID) {
		r.fail("You can only delete your own comments")
		return nil, fmt.Errorf("deleting comment %s: %w", commentID, domain.ErrForbidden)
	}
	pos := slices.IndexFunc(before.Comments, func(c domain.Comment) bool { return c.ID == commentID })
	r.putLocked(before.WithoutComment(commentID))

	undo := func(cur domain.Item) domain.Item {
		if _, ok := cur.Comment(commentID); ok {
			return cur
		}
		at := min(pos, len(cur.Comments))
		cur.Comments = slices.Insert(slices.Clone(cur.Comments), at, orig)
		return cur
	}
	o := &CommentOp{
		op:        r.beginLocked(itemID+"/comment/"+commentID, itemID, undo),
		userID:    user.ID,
		commentID: commentID,
		remove:    true,
	}
	return o, nil
}

func (r *Reconciler) commentLocked(itemID, commentID string) (domain.Item, domain.Comment, error) {
	i := r.indexLocked(itemID)
	if i < 0 {
		return domain.Item{}, domain.Comment{}, domain.ErrNotFound
	}
	c, ok := r.items[i].Comment(commentID)
	if !ok {
		return domain.Item{}, domain.Comment{}, domain.ErrNotFound
	}
	return r.items[i], c, nil
}

// Run confirms the edit or removal with the server. An edit is settled with
// the server's copy of the item; a removal keeps the comment removed. On
// failure the original comment is put back.
func (o *CommentOp) Run(ctx context.Context) error {
	if !o.claim() {
		return domain.ErrOpFinished
	}
	r := o.r

	if o.remove {
		if err := r.svc.DeleteComment(ctx, o.itemID, o.commentID, o.userID); err != nil {
			o.rollback()
			r.fail("Failed to delete comment")
			return fmt.Errorf("deleting comment %s: %w", o.commentID, err)
		}
		o.settle(func(cur domain.Item) domain.Item { return cur.WithoutComment(o.commentID) })
		return nil
	}

	item, err := r.svc.UpdateComment(ctx, o.itemID, o.commentID, o.userID, o.content)
	if err != nil {
		o.rollback()
		r.fail("Failed to update comment")
		return fmt.Errorf("editing comment %s: %w", o.commentID, err)
	}
	o.settle(func(domain.Item) domain.Item { return item })
	return nil
}

// UpdateComment starts and runs a comment edit in one call.
func (r *Reconciler) UpdateComment(ctx context.Context, user domain.User, itemID, commentID, content string) error {
	o, err := r.StartUpdateComment(user, itemID, commentID, content)
	if err != nil || o == nil {
		return err
	}
	return o.Run(ctx)
}

// DeleteComment starts and runs a comment removal in one call.
func (r *Reconciler) DeleteComment(ctx context.Context, user domain.User, itemID, commentID string) error {
	o, err := r.StartDeleteComment(user, itemID, commentID)
	if err != nil {
		return err
	}
	return o.Run(ctx)
}
