package session

import (
	"context"
	"sync"

	"famledger/cache"
	"famledger/store"
)

// Manager tracks one live session per signed-in account, creating them on
// first use and tearing them down on sign-out.
type Manager struct {
	mu       sync.Mutex
	store    store.DocumentStore
	cache    *cache.Cache
	sessions map[string]*Session
}

// NewManager returns an empty manager over the given store and cache.
func NewManager(st store.DocumentStore, c *cache.Cache) *Manager {
	return &Manager{
		store:    st,
		cache:    c,
		sessions: make(map[string]*Session),
	}
}

// Get returns the live session for the identity, starting one if needed.
func (m *Manager) Get(ctx context.Context, id Identity) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id.UID]; ok {
		return s, nil
	}
	s, err := Start(ctx, m.store, m.cache, id)
	if err != nil {
		return nil, err
	}
	m.sessions[id.UID] = s
	return s, nil
}

// End closes and forgets the session for uid, if one exists.
func (m *Manager) End(uid string) {
	m.mu.Lock()
	s, ok := m.sessions[uid]
	delete(m.sessions, uid)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Shutdown closes every live session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
