package session

import (
	"context"
	"fmt"
)

// sessionImpl implements ISession. Data is loaded from the store on first
// use and written back only when the handler calls Save.
type sessionImpl struct {
	id    string
	ctx   context.Context
	data  map[string]string
	store IStore
}

// NewSession creates a session bound to the given id and store.
func NewSession(ctx context.Context, id string, store IStore) ISession {
	if ctx == nil {
		ctx = context.Background()
	}
	return &sessionImpl{
		id:    id,
		ctx:   ctx,
		store: store,
		data:  nil,
	}
}

// Load fetches the session data from the store. Subsequent calls are no-ops.
func (s *sessionImpl) Load() error {
	const op = "sessionImpl.Load"
	if s.data != nil {
		return nil
	}

	data, err := s.store.Load(s.ctx, s.id)
	if err != nil {
		return fmt.Errorf("%s: failed to load session: %w", op, err)
	}

	s.data = data
	if s.data == nil {
		s.data = make(map[string]string)
	}
	return nil
}

// Get returns the value for key, or "" when absent.
func (s *sessionImpl) Get(key string) string {
	if s.data == nil {
		return ""
	}
	return s.data[key]
}

// Set stores a key/value pair in the session.
func (s *sessionImpl) Set(key string, value string) {
	if s.data == nil {
		s.data = make(map[string]string)
	}
	s.data[key] = value
}

// Delete removes key from the session.
func (s *sessionImpl) Delete(key string) {
	if s.data != nil {
		delete(s.data, key)
	}
}

// Clear drops all session data.
func (s *sessionImpl) Clear() {
	s.data = make(map[string]string)
}

// Save writes the session data back to the store.
func (s *sessionImpl) Save() error {
	const op = "sessionImpl.Save"
	if s.data == nil {
		return nil
	}
	if err := s.store.Save(s.ctx, s.id, s.data); err != nil {
		return fmt.Errorf("%s: failed to save session: %w", op, err)
	}
	return nil
}
