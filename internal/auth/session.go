// Package auth holds the session state the rest of the client consumes: the
// bearer token, the current user identity, and a change notification feed.
// Token issuance itself happens at the commerce service's auth endpoints.
package auth

import (
	"sync"

	"github.com/sahdev/shopsync/internal/domain"
)

// State is a point-in-time view of the session, delivered to subscribers on
// every login/logout transition.
type State struct {
	Authenticated bool
	User          *domain.User
}

// Session is constructed once at client start and injected into every
// consumer. It implements api.TokenSource, so outgoing calls always read the
// token live instead of caching it.
type Session struct {
	mu      sync.RWMutex
	token   string
	user    *domain.User
	subs    map[int]func(State)
	nextSub int
}

func NewSession() *Session {
	return &Session{subs: make(map[int]func(State))}
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetCredentials installs a fresh token and identity after a successful
// login or registration, then notifies subscribers.
func (s *Session) SetCredentials(token string, user *domain.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	s.notify()
}

// Clear drops the session on logout and notifies subscribers.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.notify()
}

// Subscribe registers fn for auth-state change notifications. The returned
// cancel func removes the subscription.
func (s *Session) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify calls subscribers outside the lock so they may read session state.
func (s *Session) notify() {
	s.mu.RLock()
	state := State{Authenticated: s.token != "", User: s.user}
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(state)
	}
}
