package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore держит сессии в памяти процесса. Используется в тестах
// как подменное хранилище вместо redis.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	session Session
	expires time.Time
}

// NewMemoryStore создает пустое in-memory хранилище сессий.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

// Get возвращает сессию по идентификатору, (nil, nil) если сессии нет
// или её время жизни истекло.
func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	if !ok || time.Now().After(entry.expires) {
		return nil, nil
	}
	sess := entry.session
	return &sess, nil
}

// Set сохраняет сессию с временем жизни.
func (s *MemoryStore) Set(_ context.Context, sess *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = memoryEntry{
		session: *sess,
		expires: time.Now().Add(ttl),
	}
	return nil
}

// Clear удаляет сессию.
func (s *MemoryStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
