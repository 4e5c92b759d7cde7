package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"labsheet/internal/model"
)

type memoryEntry struct {
	ws        *model.Workspace
	expiresAt time.Time
}

type memoryClaim struct {
	token     string
	expiresAt time.Time
}

// MemoryStore is the single-process store. Expired entries are dropped lazily
// on access and by Sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	claims  map[string]memoryClaim
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		claims:  make(map[string]memoryClaim),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Workspace, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[id]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, id)
		}
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return e.ws.Clone(), nil
}

// Save stores a copy and refreshes the entry's expiry.
func (s *MemoryStore) Save(_ context.Context, ws *model.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[ws.ID] = memoryEntry{ws: ws.Clone(), expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(ws *model.Workspace) error) (*model.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	ws := e.ws.Clone()
	if err := fn(ws); err != nil {
		return nil, err
	}
	s.entries[id] = memoryEntry{ws: ws.Clone(), expiresAt: s.now().Add(s.ttl)}
	return ws, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	delete(s.claims, id)
	return nil
}

func (s *MemoryStore) ClaimGeneration(_ context.Context, id string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if c, ok := s.claims[id]; ok && now.Before(c.expiresAt) {
		return "", ErrClaimed
	}
	token := uuid.NewString()
	s.claims[id] = memoryClaim{token: token, expiresAt: now.Add(ttl)}
	return token, nil
}

func (s *MemoryStore) ReleaseGeneration(_ context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.claims[id]; ok && c.token == token {
		delete(s.claims, id)
	}
	return nil
}

func (s *MemoryStore) Generating(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[id]
	return ok && s.now().Before(c.expiresAt), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// Sweep removes expired entries and reports how many were dropped.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	for id, c := range s.claims {
		if !now.Before(c.expiresAt) {
			delete(s.claims, id)
		}
	}
	return n
}

// Len reports the number of live and not yet swept entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
