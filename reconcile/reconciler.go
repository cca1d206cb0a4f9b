// Package reconcile keeps an in-memory collection of content items consistent
// with the user's like, comment and delete actions while remote calls are in
// flight.
//
// Mutations are applied locally first where that is safe (likes, comment
// edits and deletes), then confirmed with the server. A confirmed result is
// merged back; a failed one is rolled back. Each optimistic operation is
// tagged with a sequence number so that a response arriving after a newer
// operation on the same target is discarded instead of overwriting it.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
)

// Reconciler owns the collection for one content kind.
//
// The collection is only ever replaced, never written in place: every
// mutation builds a new slice and new item values, so a Snapshot taken
// earlier is unaffected by later changes.
type Reconciler struct {
	svc     app.ContentService
	notify  app.Notifier
	confirm app.Confirmer
	now     func() time.Time
	log     *slog.Logger

	mu      sync.Mutex
	items   []domain.Item
	total   int
	version uint64
	seq     uint64
	pending map[string]uint64 // op target key -> latest issued seq
	epoch   uint64            // bumped by every Replace
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithNotifier sets where user-facing notices go.
func WithNotifier(n app.Notifier) Option {
	return func(r *Reconciler) { r.notify = n }
}

// WithConfirmer sets the yes/no gate used before deleting an item.
func WithConfirmer(c app.Confirmer) Option {
	return func(r *Reconciler) { r.confirm = c }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) { r.log = l }
}

// New creates a Reconciler over svc with an empty collection.
func New(svc app.ContentService, opts ...Option) *Reconciler {
	r := &Reconciler{
		svc:     svc,
		notify:  app.NotifyFunc(func(app.Notice) {}),
		confirm: app.ConfirmFunc(denyAll),
		now:     time.Now,
		log:     slog.New(slog.DiscardHandler),
		pending: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With("kind", string(svc.Kind()))
	return r
}

func denyAll(context.Context, app.Prompt) (bool, error) { return false, nil }

// Kind returns the content kind this reconciler manages.
func (r *Reconciler) Kind() domain.Kind { return r.svc.Kind() }

// Snapshot returns the current collection. The returned slice is the
// caller's to keep.
func (r *Reconciler) Snapshot() []domain.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

// Item returns a single item by ID.
func (r *Reconciler) Item(id string) (domain.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(id)
	if i < 0 {
		return domain.Item{}, false
	}
	return r.items[i], true
}

// Len returns the number of items in the collection.
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Total returns the aggregate counter (e.g. total post count).
func (r *Reconciler) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// SetTotal sets the aggregate counter.
func (r *Reconciler) SetTotal(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = max(n, 0)
	r.version++
}

// Version increases on every state change.
func (r *Reconciler) Version() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// Replace installs items as the collection. Operations still in flight
// stay pending: a confirmed result is merged into the new copy of its item,
// but a failure no longer rolls back, since the pre-op snapshot predates
// the new collection.
func (r *Reconciler) Replace(items []domain.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = slices.Clone(items)
	r.epoch++
	r.version++
}

// Load replaces the collection with every item from the server.
func (r *Reconciler) Load(ctx context.Context) error {
	items, err := r.svc.List(ctx)
	if err != nil {
		r.fail(fmt.Sprintf("Failed to load %ss", r.Kind().Label()))
		return fmt.Errorf("loading %ss: %w", r.Kind().Label(), err)
	}
	r.Replace(items)
	return nil
}

// LoadByAuthor replaces the collection with userID's items.
func (r *Reconciler) LoadByAuthor(ctx context.Context, userID string) error {
	items, err := r.svc.ListByUser(ctx, userID)
	if err != nil {
		r.fail(fmt.Sprintf("Failed to load %ss", r.Kind().Label()))
		return fmt.Errorf("loading %ss for %s: %w", r.Kind().Label(), userID, err)
	}
	r.Replace(items)
	return nil
}

func (r *Reconciler) indexLocked(id string) int {
	return slices.IndexFunc(r.items, func(it domain.Item) bool { return it.ID == id })
}

// putLocked swaps in a new value for the item with the same ID. Reports
// false if the item is gone.
func (r *Reconciler) putLocked(item domain.Item) bool {
	i := r.indexLocked(item.ID)
	if i < 0 {
		return false
	}
	items := slices.Clone(r.items)
	items[i] = item
	r.items = items
	r.version++
	return true
}

func (r *Reconciler) removeLocked(id string) bool {
	i := r.indexLocked(id)
	if i < 0 {
		return false
	}
	items := make([]domain.Item, 0, len(r.items)-1)
	items = append(items, r.items[:i]...)
	r.items = append(items, r.items[i+1:]...)
	r.version++
	return true
}

func (r *Reconciler) prependLocked(item domain.Item) {
	items := make([]domain.Item, 0, len(r.items)+1)
	items = append(items, item)
	r.items = append(items, r.items...)
	r.version++
}

func (r *Reconciler) info(text string) {
	r.notify.Notify(app.Notice{Level: app.NoticeSuccess, Text: text})
}

func (r *Reconciler) fail(text string) {
	r.log.Warn("operation failed", "notice", text)
	r.notify.Notify(app.Notice{Level: app.NoticeError, Text: text})
}
