// Package session derives the signed-in user from the stored token. The
// session is never persisted; it is recomputed from the token on start, after
// login and after logout.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-task-tracker/internal/model"
	"go-task-tracker/internal/tokenstore"
)

type Listener func(current *model.Session)

type Option func(*State)

// WithClock replaces the wall clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

type State struct {
	store tokenstore.Store
	now   func() time.Time

	mu      sync.RWMutex
	current *model.Session

	subMu       sync.RWMutex
	subscribers map[string]Listener
}

func New(store tokenstore.Store, opts ...Option) *State {
	s := &State{
		store:       store,
		now:         time.Now,
		subscribers: make(map[string]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Current returns the last computed session, or nil when signed out.
func (s *State) Current() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.current)
}

// Refresh recomputes the session from the stored token and notifies
// subscribers with the result. Malformed and expired tokens are removed from
// the store.
func (s *State) Refresh() *model.Session {
	next := s.evaluate()
	s.publish(next)
	return clone(next)
}

// Reset forces the signed-out state without touching the store.
func (s *State) Reset() {
	s.publish(nil)
}

// IsAuthenticated checks the stored token. Subscribers only hear about it when
// the check turns a live session into a signed-out one.
func (s *State) IsAuthenticated() bool {
	if next := s.evaluate(); next != nil {
		return true
	}

	if s.Current() != nil {
		s.publish(nil)
	}
	return false
}

// Subscribe registers fn for every future session change and returns a
// function that removes it. Listeners run synchronously on the goroutine that
// caused the change.
func (s *State) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := uuid.NewString()
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *State) evaluate() *model.Session {
	token, ok, err := s.store.Read()
	if err != nil {
		slog.Warn("read stored token", "error", err)
		return nil
	}
	if !ok || token == "" {
		return nil
	}

	claims, err := Decode(token)
	if err != nil {
		slog.Warn("discarding malformed token", "error", err)
		s.discard()
		return nil
	}

	if claims.Expired(s.now()) {
		slog.Info("discarding expired token", "expired_at", claims.ExpiresAt)
		s.discard()
		return nil
	}

	return model.SessionFromSubject(claims.Subject)
}

func (s *State) discard() {
	if err := s.store.Clear(); err != nil {
		slog.Warn("clear stored token", "error", err)
	}
}

func (s *State) publish(next *model.Session) {
	s.mu.Lock()
	s.current = clone(next)
	s.mu.Unlock()

	s.subMu.RLock()
	listeners := make([]Listener, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range listeners {
		fn(clone(next))
	}
}

func clone(in *model.Session) *model.Session {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}
