// Package sessions guarda las sesiones de login en Redis o en memoria.
package sessions

import (
	"context"
	"sync"
	"time"

	"sistpec-api/internal/ports/auth"
)

// MemoryStore sirve para desarrollo y tests; las sesiones se pierden al
// reiniciar el proceso.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]auth.Session
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]auth.Session), now: time.Now}
}

func (m *MemoryStore) Create(ctx context.Context, s auth.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ExpiresAt = m.now().Add(ttl)
	m.items[s.ID] = s
	m.sweep()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.items[id]
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if !m.now().Before(s.ExpiresAt) {
		delete(m.items, id)
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, id)
	return nil
}

func (m *MemoryStore) DeleteUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.items {
		if s.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

// sweep elimina sesiones vencidas. Se llama con el lock tomado.
func (m *MemoryStore) sweep() {
	now := m.now()
	for id, s := range m.items {
		if !now.Before(s.ExpiresAt) {
			delete(m.items, id)
		}
	}
}

var _ auth.SessionStore = (*MemoryStore)(nil)
