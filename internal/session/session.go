// Package session caches the authenticated user identity returned by the
// external auth API. It performs no credential validation of its own.
package session

import (
	"sync"

	"github.com/haugland/velour/internal/catalog"
)

// User is the profile record returned by the external auth API on a
// successful login or registration.
type User struct {
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Bio          string         `json:"bio,omitempty"`
	Avatar       *catalog.Media `json:"avatar,omitempty"`
	Banner       *catalog.Media `json:"banner,omitempty"`
	VenueManager bool           `json:"venueManager,omitempty"`
	AccessToken  string         `json:"accessToken,omitempty"`
}

// State is an immutable snapshot of the auth session. IsAuthenticated is
// derived from User in the same atomic update, so the two fields are never
// inconsistent.
type State struct {
	User            *User
	IsAuthenticated bool
}

// Store holds the current auth session. Like the cart store it is an
// explicitly constructed, injected container with an observer interface.
type Store struct {
	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	next  int
}

// NewStore returns an unauthenticated session store.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(State))}
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

// Hydrate restores a previously persisted session without notifying
// subscribers. IsAuthenticated is re-derived from the user rather than
// trusted from storage.
func (s *Store) Hydrate(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{User: user, IsAuthenticated: user != nil}
}

// SetUser sets the current user and derives IsAuthenticated in the same
// atomic update. A nil user clears the session.
func (s *Store) SetUser(user *User) {
	s.mu.Lock()
	s.state = State{User: user, IsAuthenticated: user != nil}
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

// Logout clears the session. Equivalent to SetUser(nil).
func (s *Store) Logout() {
	s.SetUser(nil)
}

// Token returns the current bearer access token, or an empty string when the
// session is unauthenticated. It satisfies the HTTP client's token source.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.AccessToken
}
