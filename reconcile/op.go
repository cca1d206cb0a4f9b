package reconcile

import "github.com/CrestNiraj12/skillfeed/domain"

// op is the bookkeeping shared by every optimistic operation: which target
// it was issued against, its sequence number, and how to undo the local
// change.
type op struct {
	r      *Reconciler
	key    string // target, e.g. item/like/user
	itemID string
	seq    uint64
	epoch  uint64 // collection the op was applied to
	undo   func(cur domain.Item) domain.Item
	done   bool // guarded by r.mu
}

// beginLocked tags a new operation on key, superseding any in flight.
func (r *Reconciler) beginLocked(key, itemID string, undo func(domain.Item) domain.Item) op {
	r.seq++
	r.pending[key] = r.seq
	return op{r: r, key: key, itemID: itemID, seq: r.seq, epoch: r.epoch, undo: undo}
}

// claim marks the op finished. Only the first caller gets true.
func (o *op) claim() bool {
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	if o.done {
		return false
	}
	o.done = true
	return true
}

// Seq is the sequence number the operation was tagged with.
func (o *op) Seq() uint64 { return o.seq }

// ItemID is the item the operation targets.
func (o *op) ItemID() string { return o.itemID }

// latestLocked reports whether no newer op on the same target was issued.
func (o *op) latestLocked() bool {
	return o.r.pending[o.key] == o.seq
}

// settle merges a confirmed result into the item, unless the op was
// superseded or the item has since disappeared. A reload in between does
// not stop it: the server has committed the change.
func (o *op) settle(apply func(cur domain.Item) domain.Item) bool {
	return o.finish("confirmed", apply, false)
}

// rollback reverts the local change, unless the op was superseded or the
// collection was reloaded after the op started.
func (o *op) rollback() bool {
	return o.finish("rolled back", o.undo, true)
}

func (o *op) finish(outcome string, apply func(cur domain.Item) domain.Item, sameEpoch bool) bool {
	r := o.r
	r.mu.Lock()
	defer r.mu.Unlock()

	if !o.latestLocked() {
		r.log.Debug("discarding stale response", "item_id", o.itemID, "seq", o.seq, "latest", r.pending[o.key], "outcome", outcome)
		return false
	}
	delete(r.pending, o.key)
	if sameEpoch && o.epoch != r.epoch {
		r.log.Debug("collection reloaded before response", "item_id", o.itemID, "seq", o.seq, "outcome", outcome)
		return false
	}

	i := r.indexLocked(o.itemID)
	if i < 0 {
		r.log.Debug("item gone before response", "item_id", o.itemID, "seq", o.seq)
		return false
	}
	r.putLocked(apply(r.items[i]))
	r.log.Debug("operation "+outcome, "item_id", o.itemID, "seq", o.seq)
	return true
}
