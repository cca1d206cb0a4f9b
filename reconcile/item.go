package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
)

// DeleteItem asks for confirmation, then deletes the item on the server and
// drops it locally, decrementing the total (never below zero). It reports
// whether the item was deleted. An item that is not in the collection is a
// no-op: no prompt, no remote call.
func (r *Reconciler) DeleteItem(ctx context.Context, user domain.User, itemID string) (bool, error) {
	if !user.Authenticated() {
		r.fail(fmt.Sprintf("Please log in to delete %ss", r.Kind().Label()))
		return false, fmt.Errorf("deleting %s: %w", itemID, domain.ErrUnauthenticated)
	}
	if _, ok := r.Item(itemID); !ok {
		return false, nil
	}

	label := r.Kind().Label()
	ok, err := r.confirm.Confirm(ctx, app.Prompt{
		Title:       "Delete " + titleCase(label),
		Message:     fmt.Sprintf("Are you sure you want to delete this %s? This action cannot be undone.", label),
		ConfirmText: "Delete",
		CancelText:  "Cancel",
	})
	if err != nil {
		return false, fmt.Errorf("confirming delete of %s: %w", itemID, err)
	}
	if !ok {
		r.log.Debug("delete declined", "item_id", itemID)
		return false, nil
	}

	if err := r.svc.Delete(ctx, itemID); err != nil {
		r.fail(fmt.Sprintf("Failed to delete %s", label))
		return false, fmt.Errorf("deleting %s: %w", itemID, err)
	}

	r.mu.Lock()
	if r.removeLocked(itemID) {
		r.total = max(r.total-1, 0)
	}
	r.mu.Unlock()

	r.info(fmt.Sprintf("%s deleted successfully", titleCase(label)))
	return true, nil
}

// Create validates and publishes a new item, then puts the server's copy at
// the top of the collection.
func (r *Reconciler) Create(ctx context.Context, user domain.User, draft domain.Item) (domain.Item, error) {
	label := r.Kind().Label()
	if !user.Authenticated() {
		r.fail(fmt.Sprintf("Please log in to share a %s", label))
		return domain.Item{}, fmt.Errorf("creating %s: %w", label, domain.ErrUnauthenticated)
	}
	draft.Kind = r.Kind()
	if err := draft.Validate(); err != nil {
		r.fail("Please fill in all required fields")
		return domain.Item{}, fmt.Errorf("creating %s: %w", label, err)
	}

	item, err := r.svc.Create(ctx, user.ID, draft)
	if err != nil {
		r.fail(fmt.Sprintf("Failed to create %s", label))
		return domain.Item{}, fmt.Errorf("creating %s: %w", label, err)
	}

	r.mu.Lock()
	r.prependLocked(item)
	r.total++
	r.mu.Unlock()

	r.info(fmt.Sprintf("%s created successfully", titleCase(label)))
	return item, nil
}

// Update validates and saves the item's payload, then replaces the local
// copy with the server's.
func (r *Reconciler) Update(ctx context.Context, user domain.User, item domain.Item) (domain.Item, error) {
	label := r.Kind().Label()
	if !user.Authenticated() {
		r.fail(fmt.Sprintf("Please log in to edit %ss", label))
		return domain.Item{}, fmt.Errorf("updating %s: %w", item.ID, domain.ErrUnauthenticated)
	}
	cur, ok := r.Item(item.ID)
	if !ok {
		return domain.Item{}, fmt.Errorf("updating %s: %w", item.ID, domain.ErrNotFound)
	}
	if !cur.OwnedBy(user.ID) {
		r.fail(fmt.Sprintf("You can only edit your own %ss", label))
		return domain.Item{}, fmt.Errorf("updating %s: %w", item.ID, domain.ErrForbidden)
	}
	item.Kind = r.Kind()
	if err := item.Validate(); err != nil {
		r.fail("Please fill in all required fields")
		return domain.Item{}, fmt.Errorf("updating %s: %w", item.ID, err)
	}

	updated, err := r.svc.Update(ctx, item.ID, item)
	if err != nil {
		r.fail(fmt.Sprintf("Failed to update %s", label))
		return domain.Item{}, fmt.Errorf("updating %s: %w", item.ID, err)
	}

	r.mu.Lock()
	r.putLocked(updated)
	r.mu.Unlock()

	r.info(fmt.Sprintf("%s updated successfully", titleCase(label)))
	return updated, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
