package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/iwvelando/ltv-leverage/internal/mode"
)

var (
	errSessionNotFound = errors.New("session not found")
	errSessionsFull    = errors.New("session limit reached")
)

// sessionStore owns every live session. Sessions never share state; the lock
// only guards the map and serialises access to a single session.
type sessionStore struct {
	mu         sync.Mutex
	controller *mode.Controller
	sessions   map[uuid.UUID]*mode.Session
	limit      int
	onChange   func(int)
}

func newSessionStore(controller *mode.Controller, limit int, onChange func(int)) *sessionStore {
	if onChange == nil {
		onChange = func(int) {}
	}
	return &sessionStore{
		controller: controller,
		sessions:   make(map[uuid.UUID]*mode.Session),
		limit:      limit,
		onChange:   onChange,
	}
}

func (s *sessionStore) create() (uuid.UUID, mode.DerivedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit > 0 && len(s.sessions) >= s.limit {
		return uuid.Nil, mode.DerivedState{}, errSessionsFull
	}

	id := uuid.New()
	session := s.controller.NewSession()
	state, err := session.Current()
	if err != nil {
		return uuid.Nil, mode.DerivedState{}, err
	}
	s.sessions[id] = session
	s.onChange(len(s.sessions))
	return id, state, nil
}

// with runs fn against the session while holding the store lock.
func (s *sessionStore) with(id uuid.UUID, fn func(*mode.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return errSessionNotFound
	}
	return fn(session)
}

func (s *sessionStore) remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return errSessionNotFound
	}
	delete(s.sessions, id)
	s.onChange(len(s.sessions))
	return nil
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
