package cart

import (
	"sync"

	"github.com/haugland/velour/internal/catalog"
)

// Store holds the current cart state and applies transitions atomically.
// It is constructed explicitly and injected wherever cart access is needed;
// there is no package-level singleton.
//
// Mutations are synchronous: by the time a mutator returns, State observes
// the new items and the matching total. Subscribers are notified outside the
// critical section with an immutable snapshot, so a slow subscriber never
// blocks another mutation's visibility.
type Store struct {
	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	next  int
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{
		state: EmptyState(),
		subs:  make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with a snapshot after every mutation.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Hydrate replaces the store contents with previously persisted items,
// recomputing the total. It does not notify subscribers: hydration restores
// state that is already durable, and re-persisting it would be a wasted
// write.
func (s *Store) Hydrate(items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{Items: items, Total: totalOf(items)}
}

// AddItem adds one unit of the product to the cart.
func (s *Store) AddItem(p catalog.Product) {
	s.apply(func(st State) State { return Add(st, p) })
}

// RemoveItem removes the item for productID, if present.
func (s *Store) RemoveItem(productID string) {
	s.apply(func(st State) State { return Remove(st, productID) })
}

// UpdateQuantity sets the quantity for productID. Quantities below 1 and
// unknown product IDs are ignored.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.apply(func(st State) State { return UpdateQuantity(st, productID, quantity) })
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.apply(Clear)
}

func (s *Store) apply(transition func(State) State) {
	s.mu.Lock()
	s.state = transition(s.state)
	snapshot := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
