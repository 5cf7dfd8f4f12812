// FILE: src/internal/client/identity.go
package client

import (
	"sync"

	"github.com/google/uuid"
)

const (
	userIDKey    = "userId"
	sessionIDKey = "sessionId"
)

// Storage is a string key/value store standing in for browser session or local storage
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStorage is a process-local Storage
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Identity resolves the user and session ids stamped on every entry.
// The user id is only ever read; the session id is created on first use.
type Identity struct {
	session Storage
	local   Storage
	mu      sync.Mutex
}

// NewIdentity binds session-scoped and persistent storage. Either may be nil.
func NewIdentity(session, local Storage) *Identity {
	return &Identity{session: session, local: local}
}

// UserID returns the persisted user id, empty if none was stored
func (i *Identity) UserID() string {
	if i == nil || i.local == nil {
		return ""
	}
	v, _ := i.local.Get(userIDKey)
	return v
}

// SessionID returns the session id, generating and storing one when absent
func (i *Identity) SessionID() string {
	if i == nil || i.session == nil {
		return ""
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if v, ok := i.session.Get(sessionIDKey); ok && v != "" {
		return v
	}
	id := uuid.NewString()
	i.session.Set(sessionIDKey, id)
	return id
}
