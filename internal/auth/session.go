package auth

import (
	"sync"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// Session is the client-local view of who is logged in and with what role.
// Authenticated is true iff a user is present and the stored access token
// was valid at the last state change.
type Session struct {
	User          *domain.User
	Authenticated bool
}

// State holds the current session and broadcasts changes to subscribers.
// It is owned by the Authenticator; consumers (guards, views) only read.
type State struct {
	mu      sync.RWMutex
	current Session
	subs    []chan Session
}

// NewState returns a logged-out state holder.
func NewState() *State {
	return &State{}
}

// Current returns a snapshot of the session.
func (s *State) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe returns a channel receiving every session change. The channel
// holds the latest value only; a slow subscriber sees the newest state, not
// the full history.
func (s *State) Subscribe() <-chan Session {
	ch := make(chan Session, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// set replaces the session and notifies subscribers. Only the Authenticator
// calls this.
func (s *State) set(next Session) {
	s.mu.Lock()
	s.current = next
	subs := s.subs
	s.mu.Unlock()

	for _, ch := range subs {
		// Drop the stale value if the subscriber has not consumed it yet.
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}
