package stats

import (
	"context"
	"sync"
)

// MemoryStore é a implementação em memória, usada quando não há Redis.
type MemoryStore struct {
	mu         sync.Mutex
	byProvider map[string]Counters
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byProvider: make(map[string]Counters)}
}

func (s *MemoryStore) Record(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.byProvider[ev.Provider]
	if ev.Won {
		c.Won++
	} else {
		c.Missed++
	}
	s.byProvider[ev.Provider] = c
	return nil
}

func (s *MemoryStore) Snapshot(_ context.Context) (map[string]Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Counters, len(s.byProvider))
	for k, v := range s.byProvider {
		out[k] = v
	}
	return out, nil
}
