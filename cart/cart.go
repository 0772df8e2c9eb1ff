// Package cart holds a shopper's in-progress order: a keyed list of line
// items with derived totals, persisted best-effort through a Storage.
package cart

import (
	"sync"

	"go.uber.org/zap"
)

// LineItem is one row in the cart: a product snapshot plus a quantity.
// There is at most one line item per product id.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// ProductSnapshot is what AddItem accepts. Name, price and image are
// captured at add time and are not re-synced with later catalog edits.
type ProductSnapshot struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Snapshot is the cart state handed to subscribers on every mutation.
type Snapshot struct {
	Items          []LineItem `json:"items"`
	TotalItemCount int        `json:"total_items"`
	TotalPrice     float64    `json:"total_price"`
}

// Store is the single source of truth for one cart. All mutation goes
// through AddItem, RemoveItem, UpdateQuantity and Clear; consumers read
// the derived views. A nil Storage means memory-only operation.
type Store struct {
	mu      sync.Mutex
	items   []LineItem
	storage Storage
	log     *zap.Logger
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore builds a store hydrated from storage. A failed read is logged
// and the store starts empty; it never fails construction.
func NewStore(storage Storage, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		storage: storage,
		log:     log,
		subs:    make(map[int]func(Snapshot)),
	}
	if storage != nil {
		items, err := storage.Load()
		if err != nil {
			log.Warn("failed to load cart snapshot, starting empty", zap.Error(err))
		} else {
			s.items = items
		}
	}
	return s
}

// AddItem inserts a new line item, or increments the quantity of the
// existing line with the same product id. A quantity below 1 is
// normalized to 1.
func (s *Store) AddItem(snap ProductSnapshot, quantity int) {
	s.mu.Lock()
	s.items = addItem(s.items, snap, quantity)
	state, fns := s.commitLocked()
	s.mu.Unlock()
	notify(state, fns)
}

// RemoveItem deletes the line item with the given product id. Removing
// an id that is not in the cart is a no-op.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	s.items = removeItem(s.items, id)
	state, fns := s.commitLocked()
	s.mu.Unlock()
	notify(state, fns)
}

// UpdateQuantity applies delta to the matching line item's quantity,
// flooring at 1. Unknown ids are a no-op.
func (s *Store) UpdateQuantity(id string, delta int) {
	s.mu.Lock()
	s.items = updateQuantity(s.items, id, delta)
	state, fns := s.commitLocked()
	s.mu.Unlock()
	notify(state, fns)
}

// Clear empties the cart. Called on successful checkout submission.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	state, fns := s.commitLocked()
	s.mu.Unlock()
	notify(state, fns)
}

// Items returns a copy of the current line items.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

// Has reports whether a line item with the given product id is present.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// TotalItemCount is the sum of quantities across all line items.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItemCount(s.items)
}

// TotalPrice is the sum of price*quantity across all line items,
// recomputed on every call.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// Snapshot returns the full cart view consumed by badges and summaries.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called synchronously after every
// mutation. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// commitLocked persists the current items best-effort and returns the
// resulting snapshot together with the registered subscriber
// callbacks. A storage fault degrades to memory-only for this session
// and never reaches the caller. Callers hold s.mu and invoke the
// callbacks after releasing it, so a subscriber may safely call back
// into the store.
func (s *Store) commitLocked() (Snapshot, []func(Snapshot)) {
	if s.storage != nil {
		if err := s.storage.Save(copyItems(s.items)); err != nil {
			s.log.Warn("failed to persist cart snapshot, continuing in memory", zap.Error(err))
		}
	}
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return s.snapshotLocked(), fns
}

func notify(state Snapshot, fns []func(Snapshot)) {
	for _, fn := range fns {
		fn(state)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:          copyItems(s.items),
		TotalItemCount: totalItemCount(s.items),
		TotalPrice:     totalPrice(s.items),
	}
}

func copyItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
