package reconcile

import (
	"context"
	"fmt"

	"github.com/CrestNiraj12/skillfeed/domain"
)

// LikeOp is a like toggle that has been applied locally and waits for the
// server.
type LikeOp struct {
	op
	userID string
	like   bool
}

// Liked reports the state the toggle moves to.
func (o *LikeOp) Liked() bool { return o.like }

// StartToggleLike flips user's like on the item locally and returns the
// pending operation. Call Run to confirm it with the server.
func (r *Reconciler) StartToggleLike(user domain.User, itemID string) (*LikeOp, error) {
	if !user.Authenticated() {
		r.fail(fmt.Sprintf("Please log in to like %ss", r.Kind().Label()))
		return nil, fmt.Errorf("liking %s: %w", itemID, domain.ErrUnauthenticated)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(itemID)
	if i < 0 {
		return nil, fmt.Errorf("liking %s: %w", itemID, domain.ErrNotFound)
	}
	before := r.items[i]
	like := !before.LikedBy(user.ID)

	next := before.WithoutLike(user.ID)
	if like {
		next = before.WithLike(user.ID, r.now())
	}
	r.putLocked(next)

	undo := func(cur domain.Item) domain.Item {
		cur.Likes = before.Likes
		return cur
	}
	o := &LikeOp{
		op:     r.beginLocked(itemID+"/like/"+user.ID, itemID, undo),
		userID: user.ID,
		like:   like,
	}
	r.log.Debug("like toggled locally", "item_id", itemID, "seq", o.seq, "like", like)
	return o, nil
}

// Run issues the remote like or unlike and reconciles the result. On
// success an added like is replaced by the server's copy of the item; a
// removed like is kept removed. On failure the item's likes are restored.
func (o *LikeOp) Run(ctx context.Context) error {
	if !o.claim() {
		return domain.ErrOpFinished
	}
	r := o.r

	if o.like {
		item, err := r.svc.AddLike(ctx, o.itemID, o.userID)
		if err != nil {
			return o.failed(err)
		}
		o.settle(func(domain.Item) domain.Item { return item })
		return nil
	}

	if err := r.svc.RemoveLike(ctx, o.itemID, o.userID); err != nil {
		return o.failed(err)
	}
	o.settle(func(cur domain.Item) domain.Item { return cur.WithoutLike(o.userID) })
	return nil
}

func (o *LikeOp) failed(err error) error {
	o.rollback()
	o.r.fail("Failed to process like")
	verb := "unliking"
	if o.like {
		verb = "liking"
	}
	return fmt.Errorf("%s %s: %w", verb, o.itemID, err)
}

// ToggleLike starts and runs a like toggle in one call.
func (r *Reconciler) ToggleLike(ctx context.Context, user domain.User, itemID string) error {
	o, err := r.StartToggleLike(user, itemID)
	if err != nil {
		return err
	}
	return o.Run(ctx)
}
