package store

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

func (s *MemoryStore) CheckoutID(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.m[sessionID]
	if !ok {
		return "", ErrNotFound
	}
	return id, nil
}

func (s *MemoryStore) SaveCheckoutID(_ context.Context, sessionID, checkoutID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sessionID] = checkoutID
	return nil
}

func (s *MemoryStore) ClearCheckout(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[sessionID]; !ok {
		return ErrNotFound
	}
	delete(s.m, sessionID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
