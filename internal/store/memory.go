// internal/store/memory.go
//
// In-memory registry of live game sessions.
//
// Characteristics:
//   - Stores *session.Controller values keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; players keep progress by
//     saving games to files.
//   - Errors are returned for missing session IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/hangman/internal/session"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Store defines the registry interface for live sessions.
type Store interface {
	// Put adds or replaces a session.
	Put(ctx context.Context, c *session.Controller) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session is not registered.
	Get(ctx context.Context, id string) (*session.Controller, error)

	// Delete drops a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are registered.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex                   // guards sessions map
	sessions map[string]*session.Controller // keyed by Controller.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*session.Controller)}
}

func (m *memory) Put(ctx context.Context, c *session.Controller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[c.ID()] = c
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*session.Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.sessions[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
