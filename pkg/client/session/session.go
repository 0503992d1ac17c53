package session

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Session is the authentication state machine bound to a Store. The
// in-memory state only changes after the store has accepted the
// corresponding write.
type Session struct {
	mu    sync.Mutex
	store Store
	state State
}

// New restores the session from store. A stored profile starts the session
// authenticated; a missing one starts it anonymous. An entry that cannot be
// decoded is removed and treated as missing.
func New(store Store) (*Session, error) {
	s := &Session{store: store}

	raw, found, err := store.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return s, nil
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
		if err := store.Delete(Key); err != nil {
			return nil, fmt.Errorf("discard unreadable session: %w", err)
		}
		return s, nil
	}
	s.state = State{User: &p}
	return s, nil
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// Token returns the session token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.Token
}

// Dispatch applies a and returns the resulting state. The durable copy is
// written first: a profile is stored under Key, its absence deletes Key
// (Logout always deletes it). If the store fails the previous state is kept
// and the error returned.
func (s *Session) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Reduce(s.state, a)
	if err := s.persist(a.Type, s.state.User, next.User); err != nil {
		return copyState(s.state), fmt.Errorf("%s: %w", a.Type, err)
	}
	s.state = next
	return copyState(next), nil
}

func (s *Session) persist(action ActionType, prev, next *Profile) error {
	switch {
	case next != nil:
		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		if err := s.store.Set(Key, raw); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	case prev != nil, action == Logout:
		if err := s.store.Delete(Key); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}

func copyState(st State) State {
	if st.User != nil {
		p := *st.User
		st.User = &p
	}
	return st
}
