package realms

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded, in-memory Store implementation. It is the
// reference implementation for tests and example binaries, not a production
// persistence layer.
type MemoryStore struct {
	mu     sync.RWMutex
	realms map[uint32]*Realm
}

// NewMemoryStore creates a store seeded with the given realms.
func NewMemoryStore(seed ...*Realm) *MemoryStore {
	s := &MemoryStore{realms: make(map[uint32]*Realm, len(seed))}
	for _, r := range seed {
		cp := *r
		s.realms[r.ID] = &cp
	}
	return s
}

func (s *MemoryStore) ListRealms(_ context.Context) ([]*Realm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Realm, 0, len(s.realms))
	for _, r := range s.realms {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) UpdateFlags(_ context.Context, id uint32, flags Flag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.realms[id]
	if !ok {
		return ErrNotFound
	}
	r.Flags = flags
	return nil
}

func (s *MemoryStore) SetPopulation(_ context.Context, id uint32, population float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.realms[id]
	if !ok {
		return ErrNotFound
	}
	r.Population = population
	r.LastHeartbeatAt = time.Now()
	return nil
}

// CreateRealm adds a new realm with an auto-assigned id, administratively
// provisioned rather than discovered via heartbeat.
func (s *MemoryStore) CreateRealm(_ context.Context, r *Realm) (*Realm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID uint32
	for id := range s.realms {
		if id > maxID {
			maxID = id
		}
	}

	cp := *r
	cp.ID = maxID + 1
	s.realms[cp.ID] = &cp

	out := cp
	return &out, nil
}

var _ Store = (*MemoryStore)(nil)
